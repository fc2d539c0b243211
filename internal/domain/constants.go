package domain

// Business validation constants
const (
	MaxGuestNameLength    = 100
	MinGuestPhoneLength   = 5
	MaxGuestPhoneLength   = 30
	MaxGuestEmailLength   = 255
	MaxNotesLength        = 500
	MaxServicesPerBooking = 2

	MaxAgendaTitleLength = 120
	MaxDescriptionLength = 1000
	MaxServiceNameLength = 100
	MinServiceDuration   = 5
	MaxServiceDuration   = 480 // 8 hours
	MaxWindowsPerAgenda  = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, занимающие слот
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
