package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/types"
)

// Request модели

// CreateAgendaRequest запрос на создание агенды
type CreateAgendaRequest struct {
	OwnerID     uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
}

// UpdateAgendaRequest запрос на частичное обновление агенды.
// Slug после создания не меняется.
type UpdateAgendaRequest struct {
	OwnerID     uuid.UUID `json:"-"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"` // пустая строка очищает описание
	IsActive    *bool     `json:"is_active,omitempty"`
}

// SetLunchBreakRequest запрос на установку перерыва; null снимает перерыв
type SetLunchBreakRequest struct {
	OwnerID    uuid.UUID      `json:"-"`
	LunchBreak *LunchBreakDTO `json:"lunch_break"`
}

// ReplaceAvailabilityRequest запрос на замену недельного расписания целиком
type ReplaceAvailabilityRequest struct {
	OwnerID uuid.UUID   `json:"-"`
	Windows []WindowDTO `json:"windows"`
}

// DTO

// LunchBreakDTO перерыв на обед
type LunchBreakDTO struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// WindowDTO окно доступности
type WindowDTO struct {
	ID        *uuid.UUID       `json:"id,omitempty"`
	DayOfWeek int              `json:"day_of_week"` // 0 = воскресенье
	StartTime types.TimeString `json:"start_time"`
	EndTime   types.TimeString `json:"end_time"`
}

// PublicServiceDTO услуга на публичной странице
type PublicServiceDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
}

// Response модели

// AgendaResponse ответ с данными агенды для владельца
type AgendaResponse struct {
	ID          uuid.UUID      `json:"id"`
	OwnerID     uuid.UUID      `json:"owner_id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	LunchBreak  *LunchBreakDTO `json:"lunch_break"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AgendaListResponse ответ со списком агенд
type AgendaListResponse struct {
	Agendas []AgendaResponse `json:"agendas"`
}

// AvailabilityResponse недельное расписание агенды
type AvailabilityResponse struct {
	AgendaID uuid.UUID   `json:"agenda_id"`
	Windows  []WindowDTO `json:"windows"`
}

// PublicAgendaResponse данные публичной страницы бронирования
type PublicAgendaResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description *string            `json:"description,omitempty"`
	LunchBreak  *LunchBreakDTO     `json:"lunch_break"`
	Services    []PublicServiceDTO `json:"services"`
	Windows     []WindowDTO        `json:"windows"`
}

// Методы конвертации

// ToDomain конвертирует DTO перерыва в domain модель
func (l *LunchBreakDTO) ToDomain() *domain.LunchBreak {
	if l == nil {
		return nil
	}
	return &domain.LunchBreak{Start: l.Start, End: l.End}
}

// FromDomainLunchBreak конвертирует domain перерыв в DTO
func FromDomainLunchBreak(l *domain.LunchBreak) *LunchBreakDTO {
	if l == nil {
		return nil
	}
	return &LunchBreakDTO{Start: l.Start, End: l.End}
}

// ToDomain конвертирует DTO окна в domain модель
func (w WindowDTO) ToDomain(agendaID uuid.UUID) domain.AvailabilityWindow {
	return domain.AvailabilityWindow{
		AgendaID:  agendaID,
		DayOfWeek: time.Weekday(w.DayOfWeek),
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
	}
}

// FromDomainWindows конвертирует список окон в DTO
func FromDomainWindows(windows []domain.AvailabilityWindow) []WindowDTO {
	result := make([]WindowDTO, 0, len(windows))
	for _, w := range windows {
		id := w.ID
		result = append(result, WindowDTO{
			ID:        &id,
			DayOfWeek: int(w.DayOfWeek),
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}
	return result
}

// FromDomainAgenda конвертирует domain модель в DTO
func FromDomainAgenda(a *domain.Agenda) *AgendaResponse {
	if a == nil {
		return nil
	}

	return &AgendaResponse{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		IsActive:    a.IsActive,
		LunchBreak:  FromDomainLunchBreak(a.LunchBreak),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// FromDomainAgendaList конвертирует список агенд в DTO
func FromDomainAgendaList(agendas []*domain.Agenda) *AgendaListResponse {
	resp := &AgendaListResponse{
		Agendas: make([]AgendaResponse, 0, len(agendas)),
	}

	for _, a := range agendas {
		if agendaResp := FromDomainAgenda(a); agendaResp != nil {
			resp.Agendas = append(resp.Agendas, *agendaResp)
		}
	}

	return resp
}

// FromDomainPublic собирает публичную страницу агенды
func FromDomainPublic(a *domain.Agenda, services []*domain.Service, windows []domain.AvailabilityWindow) *PublicAgendaResponse {
	resp := &PublicAgendaResponse{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		LunchBreak:  FromDomainLunchBreak(a.LunchBreak),
		Services:    make([]PublicServiceDTO, 0, len(services)),
		Windows:     make([]WindowDTO, 0, len(windows)),
	}

	for _, s := range services {
		resp.Services = append(resp.Services, PublicServiceDTO{
			ID:              s.ID,
			Name:            s.Name,
			Description:     s.Description,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
	}

	// id окон наружу не отдаются
	for _, w := range windows {
		resp.Windows = append(resp.Windows, WindowDTO{
			DayOfWeek: int(w.DayOfWeek),
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}

	return resp
}
