package handlers

import (
	"net/http"

	"github.com/TheDucklet/FinancialTelegramBot/internal/api/middleware"
	"github.com/TheDucklet/FinancialTelegramBot/internal/service"
	"github.com/TheDucklet/FinancialTelegramBot/internal/storages"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SettingsHandler обработчик настроек пользователя
type SettingsHandler struct {
	service *service.BotService
	logger  *logrus.Logger
}

// NewSettingsHandler создает новый обработчик настроек
func NewSettingsHandler(service *service.BotService, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger,
	}
}

// SettingsRequest запрос на обновление настроек
type SettingsRequest struct {
	Notifications   *bool  `json:"notifications" binding:"required"`
	DefaultCurrency string `json:"default_currency" binding:"required"`
	DataSource      string `json:"data_source" binding:"required"`
}

// Get возвращает настройки пользователя
// @Summary Get user settings
// @Tags settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} storages.UserSettings
// @Failure 401 {object} map[string]string
// @Router /api/v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Failed to get settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update обновляет настройки пользователя
// @Summary Update user settings
// @Tags settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SettingsRequest true "Settings"
// @Success 200 {object} storages.UserSettings
// @Failure 400 {object} map[string]string
// @Router /api/v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	settings := &storages.UserSettings{
		UserID:          userID,
		Notifications:   *req.Notifications,
		DefaultCurrency: req.DefaultCurrency,
		DataSource:      req.DataSource,
	}

	if err := h.service.UpdateSettings(c.Request.Context(), settings); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
