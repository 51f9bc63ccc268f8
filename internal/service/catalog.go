package service

import (
	"context"
	"fmt"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
)

// CurrencyInfo описание валюты из каталога
type CurrencyInfo struct {
	Code  string `json:"code"`
	Name  string `json:"name,omitempty"`
	Class string `json:"class"`
}

// ListFiat возвращает каталог поддерживаемых фиатных валют
func (s *BotService) ListFiat() []CurrencyInfo {
	codes := currency.FiatCodes()
	list := make([]CurrencyInfo, 0, len(codes))
	for _, code := range codes {
		name, _ := currency.Name(code)
		list = append(list, CurrencyInfo{Code: code, Name: name, Class: currency.ClassFiat.String()})
	}
	return list
}

// ListCrypto возвращает базовые активы Binance, торгуемые к USDT.
// Имена подставляются из каталога, для незнакомых кодов остаются пустыми.
func (s *BotService) ListCrypto(ctx context.Context) ([]CurrencyInfo, error) {
	assets, err := s.lister.ListUSDTBaseAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list crypto assets: %w", err)
	}

	list := make([]CurrencyInfo, 0, len(assets))
	for _, code := range assets {
		list = append(list, CurrencyInfo{
			Code:  code,
			Name:  currency.CryptoName(code),
			Class: currency.ClassCrypto.String(),
		})
	}
	return list, nil
}

// CheckCode возвращает сведения о валюте по ее коду
func (s *BotService) CheckCode(code string) (*CurrencyInfo, error) {
	code = currency.Normalize(code)
	name, err := currency.Name(code)
	if err != nil {
		return nil, err
	}
	return &CurrencyInfo{
		Code:  code,
		Name:  name,
		Class: currency.Classify(code).String(),
	}, nil
}
