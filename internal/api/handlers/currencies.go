package handlers

import (
	"net/http"

	"github.com/TheDucklet/FinancialTelegramBot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CurrencyHandler обработчик каталога валют
type CurrencyHandler struct {
	service *service.BotService
	logger  *logrus.Logger
}

// NewCurrencyHandler создает новый обработчик каталога
func NewCurrencyHandler(service *service.BotService, logger *logrus.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		service: service,
		logger:  logger,
	}
}

// ListFiat возвращает каталог фиатных валют
// @Summary List supported fiat currencies
// @Tags currencies
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.CurrencyInfo
// @Router /api/v1/currencies/fiat [get]
func (h *CurrencyHandler) ListFiat(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": h.service.ListFiat()})
}

// ListCrypto возвращает список криптовалют, торгуемых к USDT
// @Summary List crypto assets
// @Tags currencies
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.CurrencyInfo
// @Failure 502 {object} map[string]string
// @Router /api/v1/currencies/crypto [get]
func (h *CurrencyHandler) ListCrypto(c *gin.Context) {
	list, err := h.service.ListCrypto(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list crypto assets: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "listing source unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": list})
}

// Check возвращает сведения о валюте по коду
// @Summary Check a currency code
// @Tags currencies
// @Security BearerAuth
// @Produce json
// @Param code path string true "Currency code"
// @Success 200 {object} service.CurrencyInfo
// @Failure 400 {object} map[string]string
// @Router /api/v1/currencies/check/{code} [get]
func (h *CurrencyHandler) Check(c *gin.Context) {
	info, err := h.service.CheckCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
