package service

import (
	"context"
	"fmt"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/TheDucklet/FinancialTelegramBot/pkg"
)

// ConversionResult результат конвертации суммы между валютами
type ConversionResult struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Result    float64 `json:"result"`
	Formatted string  `json:"formatted"`
	Source    string  `json:"source,omitempty"`
}

// Пары для обзорных листингов курсов
var (
	popularFiat   = []string{"USD", "EUR", "GBP", "CNY", "JPY"}
	popularCrypto = []string{"BTC", "ETH", "BNB", "SOL", "XRP"}
)

// Convert конвертирует сумму из одной валюты в другую.
// Фиатные валюты пересчитываются через таблицу ЦБ, криптовалюты
// через спотовую цену в USD на источнике из настроек пользователя.
func (s *BotService) Convert(ctx context.Context, userID int64, amount float64, from, to string) (*ConversionResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	from = currency.Normalize(from)
	to = currency.Normalize(to)

	fromClass := currency.Classify(from)
	toClass := currency.Classify(to)
	if fromClass == currency.ClassUnknown {
		return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, from)
	}
	if toClass == currency.ClassUnknown {
		return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, to)
	}

	res := &ConversionResult{From: from, To: to, Amount: amount}

	// Оба кода фиатные, хватает таблицы ЦБ
	if fromClass == currency.ClassFiat && toClass == currency.ClassFiat {
		converted, err := s.converter.Convert(ctx, amount, from, to)
		if err != nil {
			return nil, err
		}
		res.Result = converted
		res.Formatted = pkg.FormatAmount(converted)
		return res, nil
	}

	src := s.userSource(ctx, userID)
	res.Source = src.String()

	// Приводим исходную сумму к долларам
	var usdAmount float64
	if fromClass == currency.ClassCrypto {
		price, err := s.resolver.SpotPrice(ctx, from, src)
		if err != nil {
			return nil, err
		}
		usdAmount = amount * price
	} else {
		converted, err := s.converter.Convert(ctx, amount, from, "USD")
		if err != nil {
			return nil, err
		}
		usdAmount = converted
	}

	// И пересчитываем доллары в целевую валюту
	switch {
	case to == "USD":
		res.Result = usdAmount
	case toClass == currency.ClassFiat:
		converted, err := s.converter.Convert(ctx, usdAmount, "USD", to)
		if err != nil {
			return nil, err
		}
		res.Result = converted
	default:
		price, err := s.resolver.SpotPrice(ctx, to, src)
		if err != nil {
			return nil, err
		}
		if price == 0 {
			return nil, fmt.Errorf("%w: zero price for %s", providers.ErrPriceUnavailable, to)
		}
		res.Result = usdAmount / price
	}

	res.Formatted = pkg.FormatAmount(res.Result)
	s.logger.Infof("Conversion: %.8f %s -> %.8f %s", amount, from, res.Result, to)
	return res, nil
}

// Compare сравнивает цену символа на всех источниках
func (s *BotService) Compare(ctx context.Context, symbol string) (providers.Comparison, error) {
	symbol = currency.Normalize(symbol)
	if currency.Classify(symbol) != currency.ClassCrypto {
		return providers.Comparison{}, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, symbol)
	}
	return s.resolver.Compare(ctx, symbol), nil
}

// PopularRates обзорный листинг курсов относительно базовой валюты.
// Отказ по отдельному коду не прерывает остальные запросы.
type PopularRates struct {
	Base   string             `json:"base"`
	Rates  map[string]float64 `json:"rates"`
	Failed map[string]string  `json:"failed,omitempty"`
}

// PopularFiatRates возвращает курсы ходовых фиатных валют к рублю
func (s *BotService) PopularFiatRates(ctx context.Context) (*PopularRates, error) {
	res := &PopularRates{
		Base:   "RUB",
		Rates:  make(map[string]float64),
		Failed: make(map[string]string),
	}

	for _, code := range popularFiat {
		value, err := s.converter.Convert(ctx, 1, code, "RUB")
		if err != nil {
			s.logger.Warnf("Popular fiat rate %s failed: %v", code, err)
			res.Failed[code] = err.Error()
			continue
		}
		res.Rates[code] = value
	}

	if len(res.Rates) == 0 {
		return nil, fmt.Errorf("no fiat rates available")
	}
	return res, nil
}

// PopularCryptoPrices возвращает долларовые цены ходовых криптовалют
// на источнике из настроек пользователя
func (s *BotService) PopularCryptoPrices(ctx context.Context, userID int64) (*PopularRates, error) {
	src := s.userSource(ctx, userID)

	res := &PopularRates{
		Base:   "USD",
		Rates:  make(map[string]float64),
		Failed: make(map[string]string),
	}

	for _, code := range popularCrypto {
		price, err := s.resolver.SpotPrice(ctx, code, src)
		if err != nil {
			s.logger.Warnf("Popular crypto price %s on %s failed: %v", code, src, err)
			res.Failed[code] = err.Error()
			continue
		}
		res.Rates[code] = price
	}

	if len(res.Rates) == 0 {
		return nil, fmt.Errorf("no crypto prices available")
	}
	return res, nil
}
