package trend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
)

// ErrNoData возвращается, когда источник истории отдал пустой или
// некорректный ответ
var ErrNoData = errors.New("no data available")

// klineLimit максимальное число баров за один запрос к истории торгов
const klineLimit = 1000

// fineWindowHours порог в часах, ниже которого строятся минутные
// или часовые бары вместо дневных
const fineWindowHours = 48

// Point точка временного ряда
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series временной ряд, упорядоченный по возрастанию времени
type Series []Point

// Values возвращает значения ряда
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// SeriesBuilder строит временные ряды цен по символу и периоду.
// История криптовалют берется из свечей биржи, история фиатных валют
// из дневных курсов exchangerate.host.
type SeriesBuilder struct {
	klineURL   string
	fxURL      string
	httpClient *http.Client
	logger     *logrus.Logger
	now        func() time.Time
}

// NewSeriesBuilder создает новый построитель рядов
func NewSeriesBuilder(klineURL, fxURL string, timeout time.Duration, logger *logrus.Logger) *SeriesBuilder {
	return &SeriesBuilder{
		klineURL:   klineURL,
		fxURL:      fxURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// Build строит ряд для символа за указанный период.
// Для фиатных валют pivot задает валюту котировки.
func (b *SeriesBuilder) Build(ctx context.Context, symbol string, class currency.Class, w Window, src providers.Source, pivot string) (Series, error) {
	symbol = currency.Normalize(symbol)

	switch class {
	case currency.ClassCrypto:
		return b.buildCrypto(ctx, symbol, w, src)
	case currency.ClassFiat:
		return b.buildFiat(ctx, symbol, w, pivot)
	default:
		return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, symbol)
	}
}

// chooseInterval выбирает интервал свечей и число баров.
// Короткие периоды на Binance дают минутные или часовые бары, все остальные
// комбинации используют дневные бары истории торгов.
func chooseInterval(w Window, src providers.Source) (interval string, limit int) {
	if src == providers.SourceBinance {
		if w.Unit == UnitMinutes && w.Magnitude < fineWindowHours*60 {
			return "1m", w.Magnitude
		}
		if w.Unit == UnitHours && w.Magnitude < fineWindowHours {
			return "1h", w.Magnitude
		}
		return "1d", w.dailyBars()
	}

	// Gate.io и ByBit отдают только дневную историю, короткие периоды
	// деградируют до суточного окна
	if w.Unit == UnitMinutes || w.Unit == UnitHours {
		return "1d", 24
	}
	return "1d", w.dailyBars()
}

// buildCrypto строит ряд по свечам биржи
func (b *SeriesBuilder) buildCrypto(ctx context.Context, symbol string, w Window, src providers.Source) (Series, error) {
	interval, limit := chooseInterval(w, src)
	if limit > klineLimit {
		limit = klineLimit
	}

	url := fmt.Sprintf("%s/api/v3/klines?symbol=%sUSDT&interval=%s&limit=%d",
		b.klineURL, symbol, interval, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Warnf("Kline request failed for %s: %v", symbol, err)
		return nil, fmt.Errorf("%w: kline request failed", ErrNoData)
	}
	defer resp.Body.Close()

	var entries [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: malformed kline response", ErrNoData)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty kline response for %s", ErrNoData, symbol)
	}

	labelFormat := "02-01"
	if interval == "1m" || interval == "1h" {
		labelFormat = "15:04"
	}

	series := make(Series, 0, len(entries))
	for _, entry := range entries {
		if len(entry) < 5 {
			return nil, fmt.Errorf("%w: malformed kline entry", ErrNoData)
		}
		openTime, ok := entry[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: malformed kline entry", ErrNoData)
		}
		closeStr, ok := entry[4].(string)
		if !ok {
			return nil, fmt.Errorf("%w: malformed kline entry", ErrNoData)
		}
		var closePrice float64
		if _, err := fmt.Sscanf(closeStr, "%f", &closePrice); err != nil {
			return nil, fmt.Errorf("%w: malformed kline entry", ErrNoData)
		}

		series = append(series, Point{
			Label: time.UnixMilli(int64(openTime)).Format(labelFormat),
			Value: closePrice,
		})
	}

	b.logger.Debugf("Built crypto series for %s: %d points, interval %s", symbol, len(series), interval)
	return series, nil
}

// buildFiat строит ряд по дневным курсам за диапазон дат
func (b *SeriesBuilder) buildFiat(ctx context.Context, symbol string, w Window, pivot string) (Series, error) {
	pivot = currency.Normalize(pivot)

	days := w.Days()
	end := b.now()
	start := end.AddDate(0, 0, -(days - 1))

	url := fmt.Sprintf("%s/timeseries?start_date=%s&end_date=%s&base=%s&symbols=%s",
		b.fxURL, start.Format("2006-01-02"), end.Format("2006-01-02"), symbol, pivot)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Warnf("FX history request failed for %s: %v", symbol, err)
		return nil, fmt.Errorf("%w: history request failed", ErrNoData)
	}
	defer resp.Body.Close()

	var data struct {
		Rates map[string]map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: malformed history response", ErrNoData)
	}

	if len(data.Rates) == 0 {
		return nil, fmt.Errorf("%w: no history for %s -> %s", ErrNoData, symbol, pivot)
	}

	dates := make([]string, 0, len(data.Rates))
	for date := range data.Rates {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	series := make(Series, 0, len(dates))
	for _, date := range dates {
		value, ok := data.Rates[date][pivot]
		if !ok {
			continue
		}
		label := date
		if day, err := time.Parse("2006-01-02", date); err == nil {
			label = day.Format("02-01")
		}
		series = append(series, Point{Label: label, Value: value})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no history for %s -> %s", ErrNoData, symbol, pivot)
	}

	b.logger.Debugf("Built fiat series for %s -> %s: %d points", symbol, pivot, len(series))
	return series, nil
}
