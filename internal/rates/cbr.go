package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUpstreamUnavailable возвращается, когда источник курсов недоступен
var ErrUpstreamUnavailable = errors.New("rates source unavailable")

// Rate курс валюты к рублю: Value рублей за Nominal единиц валюты
type Rate struct {
	Nominal int
	Value   float64
}

// Table таблица курсов ЦБ РФ: код валюты -> курс.
// Рубль в таблице не хранится, его курс всегда 1.0.
type Table map[string]Rate

// TableSource определяет источник таблицы курсов
type TableSource interface {
	FetchTable(ctx context.Context) (Table, error)
}

// CBRClient HTTP клиент для API ЦБ РФ (cbr-xml-daily)
type CBRClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewCBRClient создает новый клиент ЦБ РФ
func NewCBRClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *CBRClient {
	return &CBRClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// cbrResponse формат ответа daily_json.js
type cbrResponse struct {
	Date   string `json:"Date"`
	Valute map[string]struct {
		Nominal int     `json:"Nominal"`
		Value   float64 `json:"Value"`
	} `json:"Valute"`
}

// FetchTable загружает дневную таблицу курсов
func (c *CBRClient) FetchTable(ctx context.Context) (Table, error) {
	url := c.baseURL + "/daily_json.js"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("CBR request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Errorf("CBR returned status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var data cbrResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.Errorf("CBR response decode failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if len(data.Valute) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", ErrUpstreamUnavailable)
	}

	table := make(Table, len(data.Valute))
	for code, v := range data.Valute {
		nominal := v.Nominal
		if nominal < 1 {
			nominal = 1
		}
		// Рубль хранить не нужно, его курс неявный
		if code == "RUB" {
			continue
		}
		table[code] = Rate{Nominal: nominal, Value: v.Value}
	}

	c.logger.Debugf("Fetched CBR rate table: %d currencies, date %s", len(table), data.Date)
	return table, nil
}
