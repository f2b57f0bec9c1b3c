package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ttchat/internal/usecases"
)

type WidgetHandler struct {
	widgets *usecases.WidgetUsecase
	logger  *zap.Logger
}

func NewWidgetHandler(widgets *usecases.WidgetUsecase, logger *zap.Logger) *WidgetHandler {
	return &WidgetHandler{widgets: widgets, logger: logger}
}

func (h *WidgetHandler) List(c *gin.Context) {
	widgets, err := h.widgets.List(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, widgets)
}

func (h *WidgetHandler) Get(c *gin.Context) {
	widget, err := h.widgets.Get(c.Request.Context(), tenantID(c), c.Param("widgetId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}

func (h *WidgetHandler) Create(c *gin.Context) {
	var req struct {
		Name        string         `json:"name" binding:"required,min=1"`
		Description string         `json:"description"`
		Config      map[string]any `json:"config"`
		WebhookURL  string         `json:"webhookUrl" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	widget, err := h.widgets.Create(c.Request.Context(), tenantID(c), usecases.CreateWidgetInput{
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config,
		WebhookURL:  req.WebhookURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Widget created successfully",
		"widget":  widget,
	})
}

func (h *WidgetHandler) Update(c *gin.Context) {
	var req struct {
		Name        *string        `json:"name" binding:"omitempty,min=1"`
		Description *string        `json:"description"`
		Config      map[string]any `json:"config"`
		WebhookURL  *string        `json:"webhookUrl" binding:"omitempty,url"`
		IsActive    *bool          `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	widget, err := h.widgets.Update(c.Request.Context(), tenantID(c), c.Param("widgetId"), usecases.UpdateWidgetInput{
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config,
		WebhookURL:  req.WebhookURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Widget updated successfully",
		"widget":  widget,
	})
}

func (h *WidgetHandler) Delete(c *gin.Context) {
	if err := h.widgets.Delete(c.Request.Context(), tenantID(c), c.Param("widgetId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Widget deleted successfully"})
}

func (h *WidgetHandler) RegenerateKey(c *gin.Context) {
	apiKey, err := h.widgets.RegenerateKey(c.Request.Context(), tenantID(c), c.Param("widgetId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "API key regenerated successfully",
		"apiKey":  apiKey,
	})
}

func (h *WidgetHandler) Embed(c *gin.Context) {
	embed, err := h.widgets.Embed(c.Request.Context(), tenantID(c), c.Param("widgetId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, embed)
}
