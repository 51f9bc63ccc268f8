package handlers

import (
	"net/http"
	"strings"

	"github.com/TheDucklet/FinancialTelegramBot/internal/api/middleware"
	"github.com/TheDucklet/FinancialTelegramBot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SubscriptionHandler обработчик подписок на валютные пары
type SubscriptionHandler struct {
	service *service.BotService
	logger  *logrus.Logger
}

// NewSubscriptionHandler создает новый обработчик подписок
func NewSubscriptionHandler(service *service.BotService, logger *logrus.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger,
	}
}

// SubscribeRequest запрос на подписку
type SubscribeRequest struct {
	Pair      string   `json:"pair" binding:"required"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// Subscribe подписывает пользователя на валютную пару
// @Summary Subscribe to a currency pair
// @Description Subscribe with an optional price threshold for alerts
// @Tags subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Subscription data"
// @Success 201 {object} storages.Subscription
// @Failure 400 {object} map[string]string
// @Router /api/v1/subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), userID, req.Pair, req.Threshold)
	if err != nil {
		if strings.Contains(err.Error(), "threshold must be positive") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// List возвращает подписки пользователя
// @Summary List subscriptions
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {array} storages.Subscription
// @Router /api/v1/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	subs, err := h.service.Subscriptions(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Failed to list subscriptions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// Unsubscribe удаляет подписку на пару
// @Summary Unsubscribe from a currency pair
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Param pair path string true "Currency pair"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/subscriptions/{pair} [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), userID, c.Param("pair")); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		h.logger.Errorf("Failed to delete subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription removed"})
}
