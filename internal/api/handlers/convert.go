package handlers

import (
	"net/http"

	"github.com/TheDucklet/FinancialTelegramBot/internal/api/middleware"
	"github.com/TheDucklet/FinancialTelegramBot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ConvertHandler обработчик для конвертации и сравнения цен
type ConvertHandler struct {
	service *service.BotService
	logger  *logrus.Logger
}

// NewConvertHandler создает новый обработчик конвертации
func NewConvertHandler(service *service.BotService, logger *logrus.Logger) *ConvertHandler {
	return &ConvertHandler{
		service: service,
		logger:  logger,
	}
}

// ConvertRequest запрос на конвертацию
type ConvertRequest struct {
	From   string  `json:"from" binding:"required"`
	To     string  `json:"to" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Convert конвертирует сумму между валютами
// @Summary Convert currency
// @Description Convert an amount between fiat and crypto currencies
// @Tags convert
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion data"
// @Success 200 {object} service.ConversionResult
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/convert [post]
func (h *ConvertHandler) Convert(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.service.Convert(c.Request.Context(), userID, req.Amount, req.From, req.To)
	if err != nil {
		h.logger.Warnf("Conversion failed: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Compare сравнивает цену символа на всех источниках
// @Summary Compare prices across sources
// @Description Query all price sources for a symbol and report the spread
// @Tags convert
// @Security BearerAuth
// @Produce json
// @Param symbol path string true "Crypto symbol"
// @Success 200 {object} providers.Comparison
// @Failure 400 {object} map[string]string
// @Router /api/v1/compare/{symbol} [get]
func (h *ConvertHandler) Compare(c *gin.Context) {
	cmp, err := h.service.Compare(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cmp)
}

// PopularFiat возвращает курсы ходовых фиатных валют к рублю
// @Summary Popular fiat rates
// @Tags convert
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.PopularRates
// @Failure 502 {object} map[string]string
// @Router /api/v1/rates/fiat [get]
func (h *ConvertHandler) PopularFiat(c *gin.Context) {
	res, err := h.service.PopularFiatRates(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Popular fiat rates failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "rates source unavailable"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// PopularCrypto возвращает долларовые цены ходовых криптовалют
// @Summary Popular crypto prices
// @Tags convert
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.PopularRates
// @Failure 502 {object} map[string]string
// @Router /api/v1/rates/crypto [get]
func (h *ConvertHandler) PopularCrypto(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	res, err := h.service.PopularCryptoPrices(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Popular crypto prices failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "price source unavailable"})
		return
	}

	c.JSON(http.StatusOK, res)
}
