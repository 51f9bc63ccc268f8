package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
)

// Resolver выбирает источник цены по закрытому перечню Source
type Resolver struct {
	sources map[Source]PriceSource
	logger  *logrus.Logger
}

// Config содержит адреса источников цен
type Config struct {
	BinanceURL string
	GateioURL  string
	BybitURL   string
	Timeout    time.Duration
}

// NewResolver создает резолвер с клиентами всех источников
func NewResolver(cfg *Config, logger *logrus.Logger) *Resolver {
	return &Resolver{
		sources: map[Source]PriceSource{
			SourceBinance: NewBinanceClient(cfg.BinanceURL, cfg.Timeout, logger),
			SourceGateio:  NewGateioClient(cfg.GateioURL, cfg.Timeout, logger),
			SourceBybit:   NewBybitClient(cfg.BybitURL, cfg.Timeout, logger),
		},
		logger: logger,
	}
}

// NewResolverWithSources создает резолвер с готовыми источниками
func NewResolverWithSources(sources map[Source]PriceSource, logger *logrus.Logger) *Resolver {
	return &Resolver{sources: sources, logger: logger}
}

// SpotPrice возвращает спотовую цену символа в USD с указанного источника
func (r *Resolver) SpotPrice(ctx context.Context, symbol string, src Source) (float64, error) {
	symbol = currency.Normalize(symbol)

	source, ok := r.sources[src]
	if !ok {
		return 0, fmt.Errorf("%w: no client for source %s", ErrPriceUnavailable, src)
	}

	price, err := source.SpotPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}

	r.logger.Debugf("Spot price %s = %.8f USD (source: %s)", symbol, price, source.Name())
	return price, nil
}
