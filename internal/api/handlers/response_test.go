package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "slot_conflict", "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "slot_conflict", body.Code)
	assert.Equal(t, "занято", body.Message)
}

func TestRespondInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondInternalError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInternalError)
	assert.NotContains(t, rec.Body.String(), "code")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Ana"}`, false},
		{"unknown field", `{"name":"Ana","extra":1}`, true},
		{"trailing object", `{"name":"Ana"}{"name":"Bia"}`, true},
		{"malformed", `{"name":`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(r, &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ana", p.Name)
		})
	}
}

func TestErrorDetail(t *testing.T) {
	sentinel := errors.New("create_booking: validation error")

	assert.Equal(t, "guest_name is required", ErrorDetail(fmt.Errorf("%w: guest_name is required", sentinel), sentinel))
	assert.Equal(t, "create_booking: validation error", ErrorDetail(sentinel, sentinel))
}
