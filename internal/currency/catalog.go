package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCurrency возвращается, когда код валюты не известен справочнику
var ErrUnknownCurrency = errors.New("unknown currency")

// Class определяет класс актива
type Class int

const (
	ClassUnknown Class = iota
	ClassFiat
	ClassCrypto
)

// String возвращает строковое представление класса
func (c Class) String() string {
	switch c {
	case ClassFiat:
		return "fiat"
	case ClassCrypto:
		return "crypto"
	default:
		return "unknown"
	}
}

// fiatNames справочник поддерживаемых фиатных валют
var fiatNames = map[string]string{
	"USD": "US Dollar", "EUR": "Euro", "JPY": "Japanese Yen", "GBP": "British Pound",
	"AUD": "Australian Dollar", "CAD": "Canadian Dollar", "CHF": "Swiss Franc",
	"CNY": "Chinese Yuan", "SEK": "Swedish Krona", "NZD": "New Zealand Dollar",
	"MXN": "Mexican Peso", "SGD": "Singapore Dollar", "HKD": "Hong Kong Dollar",
	"NOK": "Norwegian Krone", "KRW": "South Korean Won", "TRY": "Turkish Lira",
	"INR": "Indian Rupee", "RUB": "Russian Ruble", "BRL": "Brazilian Real",
	"ZAR": "South African Rand", "DKK": "Danish Krone", "PLN": "Polish Zloty",
	"THB": "Thai Baht", "IDR": "Indonesian Rupiah", "HUF": "Hungarian Forint",
}

// cryptoNames справочник поддерживаемых криптовалют
var cryptoNames = map[string]string{
	"BTC": "Bitcoin", "ETH": "Ethereum", "USDT": "Tether", "BNB": "Binance Coin",
	"XRP": "XRP", "ADA": "Cardano", "DOGE": "Dogecoin", "SOL": "Solana",
	"DOT": "Polkadot", "MATIC": "Polygon", "LTC": "Litecoin", "SHIB": "Shiba Inu",
	"TRX": "TRON", "AVAX": "Avalanche", "UNI": "Uniswap", "LINK": "Chainlink",
	"ATOM": "Cosmos", "ALGO": "Algorand", "XLM": "Stellar", "FTT": "FTX Token",
	"NEAR": "NEAR Protocol", "VET": "VeChain", "ICP": "Internet Computer",
	"MANA": "Decentraland", "EOS": "EOS", "AXS": "Axie Infinity",
}

// Normalize приводит код валюты к каноническому виду
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Classify определяет класс актива по коду
func Classify(code string) Class {
	code = Normalize(code)
	if _, ok := fiatNames[code]; ok {
		return ClassFiat
	}
	if _, ok := cryptoNames[code]; ok {
		return ClassCrypto
	}
	return ClassUnknown
}

// Name возвращает человекочитаемое название валюты
func Name(code string) (string, error) {
	code = Normalize(code)
	if name, ok := fiatNames[code]; ok {
		return name, nil
	}
	if name, ok := cryptoNames[code]; ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
}

// CryptoName возвращает название криптовалюты или пустую строку
func CryptoName(code string) string {
	return cryptoNames[Normalize(code)]
}

// FiatCodes возвращает отсортированный список кодов фиатных валют
func FiatCodes() []string {
	codes := make([]string, 0, len(fiatNames))
	for code := range fiatNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CryptoCodes возвращает отсортированный список кодов криптовалют
func CryptoCodes() []string {
	codes := make([]string, 0, len(cryptoNames))
	for code := range cryptoNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
