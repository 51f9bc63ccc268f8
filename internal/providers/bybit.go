package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// unsupportedBybitSymbols символы, которые ByBit не поддерживает.
// Запрос по ним завершается сразу, без обращения к сети.
var unsupportedBybitSymbols = map[string]bool{
	"SHIB": true,
}

// BybitClient клиент спотового API ByBit
type BybitClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewBybitClient создает новый клиент ByBit
func NewBybitClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *BybitClient {
	return &BybitClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name возвращает название источника
func (c *BybitClient) Name() string {
	return SourceBybit.String()
}

// SpotPrice возвращает текущую цену пары <symbol>USDT.
// Ненулевой ret_code в ответе означает ошибку на стороне биржи.
func (c *BybitClient) SpotPrice(ctx context.Context, symbol string) (float64, error) {
	if unsupportedBybitSymbols[symbol] {
		return 0, fmt.Errorf("%w: bybit does not support %s", ErrPriceUnavailable, symbol)
	}

	url := fmt.Sprintf("%s/spot/v1/ticker/24hr?symbol=%sUSDT", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("ByBit request failed for %s: %v", symbol, err)
		return 0, fmt.Errorf("%w: bybit request failed", ErrPriceUnavailable)
	}
	defer resp.Body.Close()

	var data struct {
		RetCode *int `json:"ret_code"`
		Result  struct {
			LastPrice string `json:"lastPrice"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("%w: bybit returned malformed response", ErrPriceUnavailable)
	}

	if data.RetCode == nil || *data.RetCode != 0 {
		return 0, fmt.Errorf("%w: bybit returned an error for %s", ErrPriceUnavailable, symbol)
	}

	price, err := strconv.ParseFloat(data.Result.LastPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bybit returned invalid price %q", ErrPriceUnavailable, data.Result.LastPrice)
	}

	return price, nil
}
