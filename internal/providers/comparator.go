package providers

import (
	"context"
	"sync"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
)

// Comparison результат сравнения цен по всем источникам.
// Spread заполнен только при HasData == true.
type Comparison struct {
	Symbol    string             `json:"symbol"`
	Prices    map[string]float64 `json:"prices"`
	Failed    map[string]string  `json:"failed,omitempty"`
	Spread    float64            `json:"spread"`
	SpreadPct float64            `json:"spread_pct"`
	HasData   bool               `json:"has_data"`
}

// Compare опрашивает все источники параллельно и считает разницу между
// максимальной и минимальной ценой. Отказ одного источника не прерывает
// остальные запросы.
func (r *Resolver) Compare(ctx context.Context, symbol string) Comparison {
	symbol = currency.Normalize(symbol)

	type result struct {
		source Source
		price  float64
		err    error
	}

	results := make(chan result, len(r.sources))
	var wg sync.WaitGroup

	for src := range r.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			price, err := r.SpotPrice(ctx, symbol, src)
			results <- result{source: src, price: price, err: err}
		}(src)
	}

	wg.Wait()
	close(results)

	cmp := Comparison{
		Symbol: symbol,
		Prices: make(map[string]float64),
		Failed: make(map[string]string),
	}

	for res := range results {
		if res.err != nil {
			r.logger.Warnf("Compare %s: source %s failed: %v", symbol, res.source, res.err)
			cmp.Failed[res.source.String()] = res.err.Error()
			continue
		}
		cmp.Prices[res.source.String()] = res.price
	}

	if len(cmp.Prices) == 0 {
		return cmp
	}

	var min, max float64
	first := true
	for _, price := range cmp.Prices {
		if first {
			min, max = price, price
			first = false
			continue
		}
		if price < min {
			min = price
		}
		if price > max {
			max = price
		}
	}

	cmp.HasData = true
	cmp.Spread = max - min
	if min != 0 {
		cmp.SpreadPct = cmp.Spread / min * 100
	}

	return cmp
}
