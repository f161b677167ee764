package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/ticket-registration-service/internal/repository"
	"github.com/maxviazov/ticket-registration-service/internal/service"
	"github.com/maxviazov/ticket-registration-service/pkg/response"
)

func TestMapError(t *testing.T) {
	invalid := service.NewInvalidInputError([]service.FieldError{{Field: "email", Message: "must be a valid email address"}})

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"nil", nil, http.StatusOK, "ok"},
		{"invalid", invalid, http.StatusBadRequest, "invalid_input"},
		{"wrapped not found", fmt.Errorf("get ticket: %w", repository.ErrNotFound), http.StatusNotFound, "not_found"},
		{"already exists", repository.ErrAlreadyExists, http.StatusConflict, "already_exists"},
		{"conflict", repository.ErrConflict, http.StatusConflict, "conflict"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := response.MapError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, payload.Error)
		})
	}

	_, payload := response.MapError(invalid)
	assert.Equal(t, []service.FieldError{{Field: "email", Message: "must be a valid email address"}}, payload.FieldErrors)
}

func TestNotFoundHandler(t *testing.T) {
	w := httptest.NewRecorder()
	response.NotFoundHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"not_found"}`, w.Body.String())
}

func TestWriteJSON_UnencodableFallsBackTo500(t *testing.T) {
	w := httptest.NewRecorder()
	response.WriteJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}
