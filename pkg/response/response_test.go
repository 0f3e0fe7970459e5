package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"healthcare-portal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRejectionsCarryKind(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		kind   apperror.Kind
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "Invalid request body") }, http.StatusBadRequest, apperror.KindInvalidRequest},
		{"validation", func(w http.ResponseWriter) { ValidationError(w, map[string]string{"date": "date is required"}) }, http.StatusBadRequest, apperror.KindInvalidRequest},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "") }, http.StatusUnauthorized, apperror.KindUnauthenticated},
		{"forbidden", func(w http.ResponseWriter) { Forbidden(w, "") }, http.StatusForbidden, apperror.KindForbidden},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "") }, http.StatusNotFound, apperror.KindNotFound},
		{"conflict", func(w http.ResponseWriter) { AppError(w, apperror.Conflict("slot taken"), "x") }, http.StatusConflict, apperror.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			env := decodeError(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.kind, env.Error.Kind)
			assert.NotEmpty(t, env.Error.Reason)
		})
	}
}

func TestValidationError_Fields(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"notes": "notes must be at most 500 characters"})

	env := decodeError(t, rec)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, "notes must be at most 500 characters", env.Error.Fields["notes"])
}

func TestAppError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	AppError(rec, errors.New("pq: connection reset"), "Failed to create appointment")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "Failed to create appointment", env.Message)
	assert.Equal(t, apperror.KindInternal, env.Error.Kind)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
