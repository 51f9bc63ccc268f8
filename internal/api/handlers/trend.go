package handlers

import (
	"net/http"

	"github.com/TheDucklet/FinancialTelegramBot/internal/api/middleware"
	"github.com/TheDucklet/FinancialTelegramBot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TrendHandler обработчик для истории цен и анализа тренда
type TrendHandler struct {
	service *service.BotService
	logger  *logrus.Logger
}

// NewTrendHandler создает новый обработчик трендов
func NewTrendHandler(service *service.BotService, logger *logrus.Logger) *TrendHandler {
	return &TrendHandler{
		service: service,
		logger:  logger,
	}
}

// Trend возвращает историю цены и оценку тренда
// @Summary Price trend for a symbol
// @Description Build a price history over a window and fit a trend line
// @Tags trend
// @Security BearerAuth
// @Produce json
// @Param symbol path string true "Currency code"
// @Param window query string false "History window, e.g. 24h, 30d, 1y"
// @Success 200 {object} service.TrendReport
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/trend/{symbol} [get]
func (h *TrendHandler) Trend(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.service.Trend(c.Request.Context(), userID, c.Param("symbol"), c.Query("window"))
	if err != nil {
		h.logger.Warnf("Trend request failed: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
