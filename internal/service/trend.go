package service

import (
	"context"
	"fmt"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/TheDucklet/FinancialTelegramBot/internal/trend"
)

// TrendReport история цены и результат анализа тренда
type TrendReport struct {
	Symbol string          `json:"symbol"`
	Window string          `json:"window"`
	Source string          `json:"source,omitempty"`
	Points trend.Series    `json:"points"`
	Labels []string        `json:"labels"`
	Line   trend.TrendLine `json:"line"`
}

// Trend строит историю цены за период и оценивает ее направление.
// Пустой период означает период по умолчанию для класса актива.
func (s *BotService) Trend(ctx context.Context, userID int64, symbol, window string) (*TrendReport, error) {
	symbol = currency.Normalize(symbol)
	class := currency.Classify(symbol)
	if class == currency.ClassUnknown {
		return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, symbol)
	}

	var w trend.Window
	if window == "" {
		w = trend.DefaultWindow(class)
	} else {
		w = trend.ParseWindow(window)
	}

	// Источник котировок и валюта фиатной истории берутся из одних и
	// тех же настроек, загружаем их один раз
	src := providers.SourceBinance
	pivot := "USD"
	settings, err := s.storage.GetSettings(ctx, userID)
	if err != nil {
		s.logger.Warnf("Failed to get settings for user %d: %v", userID, err)
	} else {
		src = s.sourceFromSettings(settings)
		if settings.DefaultCurrency != "" {
			pivot = settings.DefaultCurrency
		}
	}

	series, err := s.seriesBuilder.Build(ctx, symbol, class, w, src, pivot)
	if err != nil {
		return nil, err
	}

	line, err := trend.Analyze(series)
	if err != nil {
		return nil, err
	}

	report := &TrendReport{
		Symbol: symbol,
		Window: fmt.Sprintf("%d %s", w.Magnitude, w.Unit),
		Points: series,
		Line:   line,
	}
	if class == currency.ClassCrypto {
		report.Source = src.String()
	}

	// Разреженная шкала подписей для оси времени
	for _, idx := range trend.LabelIndices(len(series)) {
		report.Labels = append(report.Labels, series[idx].Label)
	}

	s.logger.Infof("Trend for %s over %s: change=%.2f%%, points=%d",
		symbol, report.Window, line.PercentChange, len(series))

	return report, nil
}
