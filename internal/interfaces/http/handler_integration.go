package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ttchat/internal/usecases"
)

type IntegrationHandler struct {
	integrations *usecases.IntegrationUsecase
	clientURL    string
	logger       *zap.Logger
}

func NewIntegrationHandler(integrations *usecases.IntegrationUsecase, clientURL string, logger *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations, clientURL: clientURL, logger: logger}
}

func (h *IntegrationHandler) Start(c *gin.Context) {
	authURL, err := h.integrations.StartURL(c.Param("provider"), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback lands here from the broker. Errors redirect back to the
// frontend with a status flag instead of failing hard; the browser is
// mid-flow and has nowhere else to go.
func (h *IntegrationHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	err := h.integrations.HandleCallback(c.Request.Context(), provider, c.Query("code"), c.Query("state"))
	status := "success"
	if err != nil {
		h.logger.Error("oauth callback failed",
			zap.String("provider", provider),
			zap.Error(err))
		status = "error"
	}

	c.Redirect(http.StatusFound,
		fmt.Sprintf("%s/onboarding?integration=%s&status=%s", h.clientURL, provider, status))
}

func (h *IntegrationHandler) Status(c *gin.Context) {
	status, err := h.integrations.Status(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ResolveToken is the server-to-server endpoint: a static X-API-Key
// instead of a bearer token, and a freshly minted provider token in the
// response.
func (h *IntegrationHandler) ResolveToken(c *gin.Context) {
	resolution, err := h.integrations.ResolveToken(c.Request.Context(), c.Query("ref"), c.GetHeader("X-API-Key"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resolution)
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	provider := c.Param("provider")
	if err := h.integrations.Disconnect(c.Request.Context(), tenantID(c), provider); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": provider + " disconnected successfully"})
}
