package get_public_agenda

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/service/agendas"
)

const (
	msgInvalidSlug     = "некорректная ссылка на агенду"
	msgPageUnavailable = "эта страница бронирования больше недоступна"

	maxSlugLength = 160
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

// Handle GET /api/v1/public/agendas/{slug}
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(strings.TrimSpace(mux.Vars(r)["slug"]))
	if slug == "" || len(slug) > maxSlugLength {
		h.logger.Warn("GET /public/agendas/{slug} - Invalid slug: %q", slug)
		handlers.RespondBadRequest(w, msgInvalidSlug)
		return
	}

	agenda, err := h.service.GetPublic(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, agendas.ErrAgendaNotFound):
			h.logger.Warn("GET /public/agendas/{slug} - Booking page unavailable: slug=%s", slug)
			handlers.RespondNotFound(w, msgPageUnavailable)

		default:
			h.logger.Error("GET /public/agendas/{slug} - Failed to get agenda: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /public/agendas/{slug} - Agenda retrieved: slug=%s, services=%d, windows=%d",
		slug, len(agenda.Services), len(agenda.Windows))
	handlers.RespondJSON(w, http.StatusOK, agenda)
}
