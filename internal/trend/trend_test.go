package trend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestParseWindow(t *testing.T) {
	cases := []struct {
		in   string
		want Window
	}{
		{"24h", Window{24, UnitHours}},
		{"90m", Window{90, UnitMinutes}},
		{"30min", Window{30, UnitMinutes}},
		{"30d", Window{30, UnitDays}},
		{"6mo", Window{6, UnitMonths}},
		{"2months", Window{2, UnitMonths}},
		{"1y", Window{1, UnitYears}},
		{"3 years", Window{3, UnitYears}},
		// Неизвестная единица и пустая строка трактуются как дни
		{"7x", Window{7, UnitDays}},
		{"", Window{0, UnitDays}},
		{"h24", Window{24, UnitHours}},
	}

	for _, tc := range cases {
		if got := ParseWindow(tc.in); got != tc.want {
			t.Fatalf("ParseWindow(%q): expected %+v, got %+v", tc.in, tc.want, got)
		}
	}
}

func TestDefaultWindow(t *testing.T) {
	if got := DefaultWindow(currency.ClassCrypto); got != (Window{24, UnitHours}) {
		t.Fatalf("Expected 24 hours for crypto, got %+v", got)
	}
	if got := DefaultWindow(currency.ClassFiat); got != (Window{30, UnitDays}) {
		t.Fatalf("Expected 30 days for fiat, got %+v", got)
	}
}

func TestWindowDays(t *testing.T) {
	cases := []struct {
		w    Window
		want int
	}{
		{Window{90, UnitMinutes}, 1},
		{Window{24, UnitHours}, 1},
		{Window{14, UnitDays}, 14},
		{Window{2, UnitMonths}, 60},
		{Window{1, UnitYears}, 365},
	}

	for _, tc := range cases {
		if got := tc.w.Days(); got != tc.want {
			t.Fatalf("Days(%+v): expected %d, got %d", tc.w, tc.want, got)
		}
	}
}

func TestChooseInterval(t *testing.T) {
	cases := []struct {
		w        Window
		src      providers.Source
		interval string
		limit    int
	}{
		{Window{90, UnitMinutes}, providers.SourceBinance, "1m", 90},
		{Window{24, UnitHours}, providers.SourceBinance, "1h", 24},
		{Window{48, UnitHours}, providers.SourceBinance, "1d", 48},
		{Window{30, UnitDays}, providers.SourceBinance, "1d", 30},
		{Window{6, UnitMonths}, providers.SourceBinance, "1d", 180},
		// Не-Binance источники дают только дневные бары
		{Window{24, UnitHours}, providers.SourceGateio, "1d", 24},
		{Window{90, UnitMinutes}, providers.SourceBybit, "1d", 24},
		{Window{1, UnitYears}, providers.SourceGateio, "1d", 365},
	}

	for _, tc := range cases {
		interval, limit := chooseInterval(tc.w, tc.src)
		if interval != tc.interval || limit != tc.limit {
			t.Fatalf("chooseInterval(%+v, %v): expected (%s, %d), got (%s, %d)",
				tc.w, tc.src, tc.interval, tc.limit, interval, limit)
		}
	}
}

func klinePayload(start time.Time, step time.Duration, closes []float64) string {
	out := "["
	for i, c := range closes {
		if i > 0 {
			out += ","
		}
		ts := start.Add(time.Duration(i) * step).UnixMilli()
		out += fmt.Sprintf(`[%d,"0","0","0","%f",0]`, ts, c)
	}
	return out + "]"
}

func TestBuildCryptoHourly(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("symbol") != "BTCUSDT" || q.Get("interval") != "1h" || q.Get("limit") != "24" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, klinePayload(start, time.Hour, []float64{100, 110, 121}))
	}))
	defer server.Close()

	builder := NewSeriesBuilder(server.URL, "", 3*time.Second, testLogger())
	series, err := builder.Build(context.Background(), "btc", currency.ClassCrypto,
		Window{24, UnitHours}, providers.SourceBinance, "USD")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(series) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series))
	}
	if series[0].Label != "10:00" {
		t.Fatalf("Expected hour label 10:00, got %q", series[0].Label)
	}
	if series[2].Value != 121 {
		t.Fatalf("Expected last close 121, got %v", series[2].Value)
	}
}

func TestBuildCryptoDailyLabels(t *testing.T) {
	start := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, klinePayload(start, 24*time.Hour, []float64{1, 2, 3}))
	}))
	defer server.Close()

	builder := NewSeriesBuilder(server.URL, "", 3*time.Second, testLogger())
	series, err := builder.Build(context.Background(), "ETH", currency.ClassCrypto,
		Window{30, UnitDays}, providers.SourceBinance, "USD")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if series[0].Label != "30-08" {
		t.Fatalf("Expected day label 30-08, got %q", series[0].Label)
	}
}

func TestBuildCryptoEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	builder := NewSeriesBuilder(server.URL, "", 3*time.Second, testLogger())
	_, err := builder.Build(context.Background(), "BTC", currency.ClassCrypto,
		Window{24, UnitHours}, providers.SourceBinance, "USD")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
}

func TestBuildCryptoErrorObject(t *testing.T) {
	// Binance отвечает объектом с ошибкой вместо массива свечей
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":-1121,"msg":"Invalid symbol."}`)
	}))
	defer server.Close()

	builder := NewSeriesBuilder(server.URL, "", 3*time.Second, testLogger())
	_, err := builder.Build(context.Background(), "NOPE", currency.ClassCrypto,
		Window{24, UnitHours}, providers.SourceBinance, "USD")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
}

func TestBuildFiat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("base") != "EUR" || q.Get("symbols") != "USD" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("start_date") != "2026-08-03" || q.Get("end_date") != "2026-09-01" {
			t.Errorf("Unexpected date range: %s - %s", q.Get("start_date"), q.Get("end_date"))
		}
		fmt.Fprint(w, `{"rates":{
			"2026-08-30":{"USD":1.10},
			"2026-08-29":{"USD":1.09},
			"2026-08-31":{"USD":1.11}
		}}`)
	}))
	defer server.Close()

	builder := NewSeriesBuilder("", server.URL, 3*time.Second, testLogger())
	builder.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}

	series, err := builder.Build(context.Background(), "EUR", currency.ClassFiat,
		Window{30, UnitDays}, providers.SourceBinance, "usd")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Даты отсортированы по возрастанию
	if len(series) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series))
	}
	if series[0].Label != "29-08" || series[2].Label != "31-08" {
		t.Fatalf("Expected sorted labels 29-08..31-08, got %q..%q", series[0].Label, series[2].Label)
	}
	if series[1].Value != 1.10 {
		t.Fatalf("Expected middle value 1.10, got %v", series[1].Value)
	}
}

func TestBuildFiatNoHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rates":{}}`)
	}))
	defer server.Close()

	builder := NewSeriesBuilder("", server.URL, 3*time.Second, testLogger())
	_, err := builder.Build(context.Background(), "EUR", currency.ClassFiat,
		Window{30, UnitDays}, providers.SourceBinance, "USD")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
}

func TestBuildUnknownClass(t *testing.T) {
	builder := NewSeriesBuilder("", "", 3*time.Second, testLogger())
	_, err := builder.Build(context.Background(), "XYZ", currency.ClassUnknown,
		Window{30, UnitDays}, providers.SourceBinance, "USD")
	if !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("Expected ErrUnknownCurrency, got %v", err)
	}
}

func makeSeries(values ...float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Point{Label: fmt.Sprintf("p%d", i), Value: v}
	}
	return s
}

func TestAnalyzeRisingSeries(t *testing.T) {
	line, err := Analyze(makeSeries(100, 110, 121))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if line.Slope <= 0 {
		t.Fatalf("Expected positive slope, got %v", line.Slope)
	}
	if !line.ChangeDefined {
		t.Fatal("Expected defined percent change")
	}
	if math.Abs(line.PercentChange-21.0) > 1e-9 {
		t.Fatalf("Expected percent change 21.0, got %v", line.PercentChange)
	}
}

func TestAnalyzeExactFit(t *testing.T) {
	// Идеальная прямая y = 2x + 5
	line, err := Analyze(makeSeries(5, 7, 9, 11))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(line.Slope-2) > 1e-9 {
		t.Fatalf("Expected slope 2, got %v", line.Slope)
	}
	if math.Abs(line.Intercept-5) > 1e-9 {
		t.Fatalf("Expected intercept 5, got %v", line.Intercept)
	}
}

func TestAnalyzeZeroFirstValue(t *testing.T) {
	line, err := Analyze(makeSeries(0, 10, 20))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if line.ChangeDefined {
		t.Fatal("Expected undefined percent change when first value is zero")
	}
}

func TestAnalyzeTooShort(t *testing.T) {
	if _, err := Analyze(makeSeries(42)); !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
	if _, err := Analyze(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
}

func TestLabelIndices(t *testing.T) {
	// Короткий ряд подписывается целиком
	got := LabelIndices(5)
	if len(got) != 5 || got[0] != 0 || got[4] != 4 {
		t.Fatalf("Expected identity indices for short series, got %v", got)
	}

	// Длинный ряд прореживается до 12 подписей
	got = LabelIndices(100)
	if len(got) != 12 {
		t.Fatalf("Expected 12 indices, got %d", len(got))
	}
	if got[0] != 0 || got[11] != 99 {
		t.Fatalf("Expected first and last point covered, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("Expected strictly increasing indices, got %v", got)
		}
	}

	if got := LabelIndices(0); got != nil {
		t.Fatalf("Expected nil for empty series, got %v", got)
	}
}
