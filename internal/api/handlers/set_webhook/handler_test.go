package set_webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
	"github.com/m04kA/SMC-AgendaService/internal/api/middleware"
	"github.com/m04kA/SMC-AgendaService/internal/service/settings"
	"github.com/m04kA/SMC-AgendaService/internal/service/settings/models"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/m04kA/SMC-AgendaService/pkg/ptr"
)

type stubService struct {
	got  *models.SetWebhookRequest
	resp *models.WebhookResponse
	err  error
}

func (s *stubService) SetWebhook(_ context.Context, req *models.SetWebhookRequest) (*models.WebhookResponse, error) {
	s.got = req
	return s.resp, s.err
}

func serve(svc *stubService, ownerID *uuid.UUID, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.Nop())
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/webhook", strings.NewReader(body))
	if ownerID != nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), *ownerID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Saved(t *testing.T) {
	ownerID := uuid.New()
	svc := &stubService{resp: &models.WebhookResponse{WebhookURL: ptr.Ptr("https://hooks.zapier.com/abc")}}

	rec := serve(svc, &ownerID, `{"webhook_url":"https://hooks.zapier.com/abc"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, ownerID, svc.got.OwnerID)
	assert.Equal(t, "https://hooks.zapier.com/abc", svc.got.WebhookURL)
}

func TestHandle_Cleared(t *testing.T) {
	ownerID := uuid.New()
	svc := &stubService{resp: &models.WebhookResponse{}}

	rec := serve(svc, &ownerID, `{"webhook_url":""}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.WebhookURL)
}

func TestHandle_Errors(t *testing.T) {
	ownerID := uuid.New()

	t.Run("no owner", func(t *testing.T) {
		rec := serve(&stubService{}, nil, `{"webhook_url":""}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(&stubService{}, &ownerID, `{"webhook_url":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejected url", func(t *testing.T) {
		svc := &stubService{err: fmt.Errorf("%w: scheme must be https", settings.ErrInvalidWebhookURL)}
		rec := serve(svc, &ownerID, `{"webhook_url":"http://127.0.0.1/hook"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp handlers.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, codeInvalidWebhookURL, resp.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		rec := serve(&stubService{err: settings.ErrInternal}, &ownerID, `{"webhook_url":""}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
