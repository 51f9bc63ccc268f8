package handlers

import (
	"errors"
	"net/http"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/TheDucklet/FinancialTelegramBot/internal/rates"
	"github.com/TheDucklet/FinancialTelegramBot/internal/trend"
	"github.com/gin-gonic/gin"
)

// respondError переводит ошибку сервисного слоя в HTTP статус.
// Детали внутренних ошибок клиенту не раскрываются.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, currency.ErrUnknownCurrency), errors.Is(err, providers.ErrUnknownSource):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, trend.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no data available for requested period"})
	case errors.Is(err, rates.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "rates source unavailable"})
	case errors.Is(err, providers.ErrPriceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "price source unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
