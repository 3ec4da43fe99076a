package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"giftregistry/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: bad amount", domain.ErrInvalidInput), http.StatusBadRequest, ErrCodeBadRequest},
		{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{fmt.Errorf("article: %w", domain.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{domain.ErrOverfund, http.StatusConflict, ErrCodeOverfunded},
		{domain.ErrConflict, http.StatusConflict, ErrCodeConflict},
		{domain.ErrLocked, http.StatusConflict, ErrCodeLocked},
		{fmt.Errorf("create transfer: %w", domain.ErrExternalService), http.StatusBadGateway, ErrCodeExternalService},
		{errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code := ErrorStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestWriteServiceError_HidesInternalMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	WriteServiceError(rr, req, logger, errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var envelope APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "internal error", envelope.Error.Message)
	assert.Nil(t, envelope.Data)
}
