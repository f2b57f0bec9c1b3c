package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"ttchat/internal/entities"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", entities.NewValidationError("Please save configuration first"), http.StatusBadRequest},
		{"plan limit", &entities.PlanLimitError{Plan: entities.PlanTrial}, http.StatusForbidden},
		{"email taken", entities.ErrEmailTaken, http.StatusBadRequest},
		{"bad credentials", entities.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", entities.ErrUnauthorized, http.StatusUnauthorized},
		{"not found", entities.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("lookup"), entities.ErrNotFound), http.StatusNotFound},
		{"unexpected", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tc.err)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, zap.NewNop(), errors.New("pq: connection refused"))
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "Server error")
}
