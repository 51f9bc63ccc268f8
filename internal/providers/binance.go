package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// BinanceClient клиент спотового API Binance
type BinanceClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewBinanceClient создает новый клиент Binance
func NewBinanceClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *BinanceClient {
	return &BinanceClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name возвращает название источника
func (c *BinanceClient) Name() string {
	return SourceBinance.String()
}

// SpotPrice возвращает текущую цену пары <symbol>USDT.
// Отсутствие поля price в ответе означает, что пара не найдена.
func (c *BinanceClient) SpotPrice(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%sUSDT", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("Binance request failed for %s: %v", symbol, err)
		return 0, fmt.Errorf("%w: binance request failed", ErrPriceUnavailable)
	}
	defer resp.Body.Close()

	var data struct {
		Price string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("%w: binance returned malformed response", ErrPriceUnavailable)
	}

	if data.Price == "" {
		return 0, fmt.Errorf("%w: pair %sUSDT not found on binance", ErrPriceUnavailable, symbol)
	}

	price, err := strconv.ParseFloat(data.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: binance returned invalid price %q", ErrPriceUnavailable, data.Price)
	}

	return price, nil
}

// ListUSDTBaseAssets возвращает отсортированный список базовых активов,
// торгуемых на бирже против USDT
func (c *BinanceClient) ListUSDTBaseAssets(ctx context.Context) ([]string, error) {
	url := c.baseURL + "/api/v3/exchangeInfo"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("Binance exchangeInfo request failed: %v", err)
		return nil, fmt.Errorf("%w: binance request failed", ErrPriceUnavailable)
	}
	defer resp.Body.Close()

	var data struct {
		Symbols []struct {
			BaseAsset  string `json:"baseAsset"`
			QuoteAsset string `json:"quoteAsset"`
		} `json:"symbols"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: binance returned malformed response", ErrPriceUnavailable)
	}

	seen := make(map[string]bool)
	var assets []string
	for _, sym := range data.Symbols {
		if sym.QuoteAsset != "USDT" || seen[sym.BaseAsset] {
			continue
		}
		seen[sym.BaseAsset] = true
		assets = append(assets, sym.BaseAsset)
	}
	sort.Strings(assets)

	return assets, nil
}
