package rates

import (
	"context"
	"fmt"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
)

// Converter конвертирует фиатные валюты через рублевый курс ЦБ РФ
type Converter struct {
	cache *Cache
}

// NewConverter создает новый конвертер
func NewConverter(cache *Cache) *Converter {
	return &Converter{cache: cache}
}

// Convert переводит сумму из одной фиатной валюты в другую.
// Округление не выполняется, этим занимается слой представления.
func (cv *Converter) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = currency.Normalize(from)
	to = currency.Normalize(to)

	table, err := cv.cache.Rates(ctx)
	if err != nil {
		return 0, err
	}

	rateFrom, err := rubRate(table, from)
	if err != nil {
		return 0, err
	}

	rubAmount := amount * rateFrom
	if to == "RUB" {
		return rubAmount, nil
	}

	rateTo, err := rubRate(table, to)
	if err != nil {
		return 0, err
	}

	return rubAmount / rateTo, nil
}

// rubRate возвращает курс валюты к рублю с учетом номинала
func rubRate(table Table, code string) (float64, error) {
	if code == "RUB" {
		return 1.0, nil
	}
	rate, ok := table[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, code)
	}
	return rate.Value / float64(rate.Nominal), nil
}
