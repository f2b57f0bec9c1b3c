package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"ttchat/internal/usecases"
)

type OnboardingHandler struct {
	activation *usecases.ActivationUsecase
	logger     *zap.Logger
}

func NewOnboardingHandler(activation *usecases.ActivationUsecase, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{activation: activation, logger: logger}
}

func (h *OnboardingHandler) Save(c *gin.Context) {
	var req usecases.SaveConfigInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	botConfig, err := h.activation.Save(c.Request.Context(), tenantID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Configuration saved successfully",
		"botConfig": botConfig,
	})
}

func (h *OnboardingHandler) Activate(c *gin.Context) {
	result, err := h.activation.Activate(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OnboardingHandler) GetConfig(c *gin.Context) {
	cfg, err := h.activation.GetConfig(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// ChatLinkQR renders the tenant's direct chat link as a QR code for the
// onboarding page.
func (h *OnboardingHandler) ChatLinkQR(c *gin.Context) {
	png, err := qrcode.Encode(h.activation.ChatLink(tenantID(c)), qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
