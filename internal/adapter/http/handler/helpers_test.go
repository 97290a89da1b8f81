package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/settleup/internal/adapter/http/dto"
	"github.com/iho/settleup/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"empty participant", domain.ErrEmptyParticipantID, http.StatusBadRequest},
		{"wrapped empty participant", fmt.Errorf("debt 3: %w", domain.ErrEmptyParticipantID), http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"too many records", dto.ErrTooManyRecords, http.StatusRequestEntityTooLarge},
		{"not conserved", domain.ErrBalanceNotConserved, http.StatusUnprocessableEntity},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapDomainError(tt.err))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad", "details")

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "bad", resp.Error)
	assert.Equal(t, "details", resp.Message)
}

func TestDecodeBody(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var v map[string]any
		err := decodeBody(httptest.NewRecorder(), req, &v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
		var v map[string]any
		require.NoError(t, decodeBody(httptest.NewRecorder(), req, &v))
		assert.EqualValues(t, 1, v["a"])
	})
}
