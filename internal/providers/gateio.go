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

// GateioClient клиент спотового API Gate.io
type GateioClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGateioClient создает новый клиент Gate.io
func NewGateioClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *GateioClient {
	return &GateioClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name возвращает название источника
func (c *GateioClient) Name() string {
	return SourceGateio.String()
}

// SpotPrice возвращает текущую цену пары <symbol>_USDT.
// Gate.io отвечает списком тикеров, пустой список означает отсутствие данных.
func (c *GateioClient) SpotPrice(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/api/v4/spot/tickers?currency_pair=%s_USDT", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("Gate.io request failed for %s: %v", symbol, err)
		return 0, fmt.Errorf("%w: gate.io request failed", ErrPriceUnavailable)
	}
	defer resp.Body.Close()

	var data []struct {
		Last string `json:"last"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("%w: gate.io returned malformed response", ErrPriceUnavailable)
	}

	if len(data) == 0 {
		return 0, fmt.Errorf("%w: no data from gate.io for %s", ErrPriceUnavailable, symbol)
	}

	price, err := strconv.ParseFloat(data[0].Last, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: gate.io returned invalid price %q", ErrPriceUnavailable, data[0].Last)
	}

	return price, nil
}
