package create_agenda

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/agendas"
	"github.com/m04kA/SMC-AgendaService/internal/service/agendas/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	service AgendaService
	logger  Logger
}

func NewHandler(service AgendaService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/agendas
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /agendas - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateAgendaRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /agendas - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	agenda, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, agendas.ErrInvalidInput):
			h.logger.Warn("POST /agendas - Validation failed: owner_id=%s: %v", ownerID, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, agendas.ErrInvalidInput))

		default:
			h.logger.Error("POST /agendas - Failed to create agenda: owner_id=%s, error=%v", ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /agendas - Agenda created successfully: agenda_id=%s, slug=%s", agenda.ID, agenda.Slug)
	handlers.RespondJSON(w, http.StatusCreated, agenda)
}
