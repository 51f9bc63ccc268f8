package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrPriceUnavailable возвращается, когда источник не смог отдать цену.
// Причина всегда человекочитаемая, транспортные ошибки наружу не выходят.
var ErrPriceUnavailable = errors.New("price unavailable")

// ErrUnknownSource возвращается при разборе неизвестного названия источника
var ErrUnknownSource = errors.New("unknown data source")

// Source закрытый перечень источников цен криптовалют
type Source int

const (
	SourceBinance Source = iota
	SourceGateio
	SourceBybit
)

// String возвращает строковое представление источника
func (s Source) String() string {
	switch s {
	case SourceBinance:
		return "BINANCE"
	case SourceGateio:
		return "GATEIO"
	case SourceBybit:
		return "BYBIT"
	default:
		return "UNKNOWN"
	}
}

// AllSources возвращает все поддерживаемые источники
func AllSources() []Source {
	return []Source{SourceBinance, SourceGateio, SourceBybit}
}

// ParseSource разбирает название источника без учета регистра
func ParseSource(name string) (Source, error) {
	switch strings.ToUpper(name) {
	case "BINANCE":
		return SourceBinance, nil
	case "GATEIO":
		return SourceGateio, nil
	case "BYBIT":
		return SourceBybit, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
}

// PriceSource определяет контракт источника спотовых цен.
// Символ передается без котируемой валюты, пара всегда строится против USDT.
type PriceSource interface {
	Name() string
	SpotPrice(ctx context.Context, symbol string) (float64, error)
}
