package service

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
	"github.com/TheDucklet/FinancialTelegramBot/internal/rates"
	"github.com/TheDucklet/FinancialTelegramBot/internal/storages"
	"github.com/TheDucklet/FinancialTelegramBot/internal/trend"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MockStorage - мок для Storage
type MockStorage struct {
	users    map[string]*storages.User
	settings map[int64]*storages.UserSettings
	subs     map[int64]map[string]*storages.Subscription
	nextID   int64

	getSettingsCalls int
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		users:    make(map[string]*storages.User),
		settings: make(map[int64]*storages.UserSettings),
		subs:     make(map[int64]map[string]*storages.Subscription),
	}
}

func (m *MockStorage) CreateUser(ctx context.Context, user *storages.User) error {
	user.ID = int64(len(m.users) + 1)
	m.users[user.Username] = user
	return nil
}

func (m *MockStorage) GetUserByUsername(ctx context.Context, username string) (*storages.User, error) {
	if user, exists := m.users[username]; exists {
		return user, nil
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*storages.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MockStorage) GetUserByID(ctx context.Context, userID int64) (*storages.User, error) {
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *MockStorage) GetSettings(ctx context.Context, userID int64) (*storages.UserSettings, error) {
	m.getSettingsCalls++
	if s, exists := m.settings[userID]; exists {
		return s, nil
	}
	return storages.DefaultSettings(userID), nil
}

func (m *MockStorage) SaveSettings(ctx context.Context, settings *storages.UserSettings) error {
	m.settings[settings.UserID] = settings
	return nil
}

func (m *MockStorage) CreateSubscription(ctx context.Context, sub *storages.Subscription) error {
	if m.subs[sub.UserID] == nil {
		m.subs[sub.UserID] = make(map[string]*storages.Subscription)
	}
	m.nextID++
	sub.ID = m.nextID
	sub.CreatedAt = time.Now()
	m.subs[sub.UserID][sub.Pair] = sub
	return nil
}

func (m *MockStorage) GetSubscriptions(ctx context.Context, userID int64) ([]storages.Subscription, error) {
	var result []storages.Subscription
	for _, sub := range m.subs[userID] {
		result = append(result, *sub)
	}
	return result, nil
}

func (m *MockStorage) DeleteSubscription(ctx context.Context, userID int64, pair string) error {
	if userSubs, exists := m.subs[userID]; exists {
		if _, ok := userSubs[pair]; ok {
			delete(userSubs, pair)
			return nil
		}
	}
	return fmt.Errorf("subscription not found")
}

func (m *MockStorage) GetThresholdSubscriptions(ctx context.Context) ([]storages.Subscription, error) {
	var result []storages.Subscription
	for _, userSubs := range m.subs {
		for _, sub := range userSubs {
			if sub.Threshold != nil {
				result = append(result, *sub)
			}
		}
	}
	return result, nil
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }
func (m *MockStorage) Close() error                   { return nil }

// staticTable отдает фиксированную таблицу курсов
type staticTable struct {
	table rates.Table
}

func (s *staticTable) FetchTable(ctx context.Context) (rates.Table, error) {
	return s.table, nil
}

// fixedSource отдает одну и ту же цену или ошибку
type fixedSource struct {
	name  string
	price float64
	err   error
}

func (f *fixedSource) Name() string { return f.name }

func (f *fixedSource) SpotPrice(ctx context.Context, symbol string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

// fixedLister отдает фиксированный список активов
type fixedLister struct {
	assets []string
	err    error
}

func (f *fixedLister) ListUSDTBaseAssets(ctx context.Context) ([]string, error) {
	return f.assets, f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestService(storage storages.Storage) *BotService {
	source := &staticTable{table: rates.Table{
		"USD": {Nominal: 1, Value: 90.0},
		"EUR": {Nominal: 1, Value: 100.0},
	}}
	converter := rates.NewConverter(rates.NewCache(source, time.Minute, testLogger()))

	resolver := providers.NewResolverWithSources(map[providers.Source]providers.PriceSource{
		providers.SourceBinance: &fixedSource{name: "BINANCE", price: 60000},
		providers.SourceGateio:  &fixedSource{name: "GATEIO", price: 60300},
	}, testLogger())

	lister := &fixedLister{assets: []string{"BTC", "ETH", "NEWCOIN"}}

	return NewBotService(storage, converter, resolver, nil, lister, testLogger())
}

func TestRegisterUser(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	if err := svc.RegisterUser(ctx, "testuser", "test@example.com", "password123"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Повторная регистрация того же имени
	if err := svc.RegisterUser(ctx, "testuser", "another@example.com", "password123"); err == nil {
		t.Fatal("Expected error for duplicate username")
	}
}

func TestAuthenticateUser(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	storage.CreateUser(ctx, &storages.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
	})

	user, err := svc.AuthenticateUser(ctx, "testuser", password)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Username != "testuser" {
		t.Fatalf("Expected username 'testuser', got '%s'", user.Username)
	}

	if _, err := svc.AuthenticateUser(ctx, "testuser", "wrongpassword"); err == nil {
		t.Fatal("Expected error for wrong password")
	}
}

func TestConvertFiatToFiat(t *testing.T) {
	svc := newTestService(NewMockStorage())

	res, err := svc.Convert(context.Background(), 1, 100, "USD", "EUR")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// 100 USD = 9000 RUB = 90 EUR
	if math.Abs(res.Result-90.0) > 1e-9 {
		t.Fatalf("Expected 90.0, got %v", res.Result)
	}
	if res.Source != "" {
		t.Fatalf("Expected no source for fiat conversion, got %q", res.Source)
	}
}

func TestConvertCryptoToUSD(t *testing.T) {
	svc := newTestService(NewMockStorage())

	res, err := svc.Convert(context.Background(), 1, 2, "BTC", "USD")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Result != 120000 {
		t.Fatalf("Expected 120000, got %v", res.Result)
	}
	if res.Source != "BINANCE" {
		t.Fatalf("Expected source BINANCE, got %q", res.Source)
	}
}

func TestConvertCryptoToFiatPivot(t *testing.T) {
	svc := newTestService(NewMockStorage())

	// 1 BTC = 60000 USD = 5400000 RUB = 54000 EUR
	res, err := svc.Convert(context.Background(), 1, 1, "BTC", "EUR")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(res.Result-54000) > 1e-6 {
		t.Fatalf("Expected 54000, got %v", res.Result)
	}
}

func TestConvertUsesUserSource(t *testing.T) {
	storage := NewMockStorage()
	storage.settings[1] = &storages.UserSettings{
		UserID:          1,
		Notifications:   true,
		DefaultCurrency: "USD",
		DataSource:      "GATEIO",
	}
	svc := newTestService(storage)

	res, err := svc.Convert(context.Background(), 1, 1, "BTC", "USD")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Result != 60300 {
		t.Fatalf("Expected Gate.io price 60300, got %v", res.Result)
	}
	if res.Source != "GATEIO" {
		t.Fatalf("Expected source GATEIO, got %q", res.Source)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	svc := newTestService(NewMockStorage())

	if _, err := svc.Convert(context.Background(), 1, 10, "XYZ", "USD"); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("Expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := svc.Convert(context.Background(), 1, 10, "USD", "XYZ"); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("Expected ErrUnknownCurrency, got %v", err)
	}
}

func TestConvertNegativeAmount(t *testing.T) {
	svc := newTestService(NewMockStorage())

	if _, err := svc.Convert(context.Background(), 1, -5, "USD", "EUR"); err == nil {
		t.Fatal("Expected error for negative amount")
	}
}

func TestCompareRejectsNonCrypto(t *testing.T) {
	svc := newTestService(NewMockStorage())

	if _, err := svc.Compare(context.Background(), "USD"); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("Expected ErrUnknownCurrency, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	svc := newTestService(NewMockStorage())

	cmp, err := svc.Compare(context.Background(), "btc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !cmp.HasData {
		t.Fatal("Expected comparison data")
	}
	if cmp.Symbol != "BTC" {
		t.Fatalf("Expected normalized symbol BTC, got %q", cmp.Symbol)
	}
}

func TestGetSettingsDefaults(t *testing.T) {
	svc := newTestService(NewMockStorage())

	settings, err := svc.GetSettings(context.Background(), 42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !settings.Notifications || settings.DefaultCurrency != "USD" || settings.DataSource != "BINANCE" {
		t.Fatalf("Unexpected defaults: %+v", settings)
	}
}

func TestUpdateSettings(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	settings := &storages.UserSettings{
		UserID:          1,
		Notifications:   false,
		DefaultCurrency: "eur",
		DataSource:      "gateio",
	}
	if err := svc.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Коды приводятся к каноническому виду
	saved := storage.settings[1]
	if saved.DefaultCurrency != "EUR" || saved.DataSource != "GATEIO" {
		t.Fatalf("Expected normalized settings, got %+v", saved)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	svc := newTestService(NewMockStorage())
	ctx := context.Background()

	err := svc.UpdateSettings(ctx, &storages.UserSettings{
		UserID: 1, DefaultCurrency: "BTC", DataSource: "BINANCE",
	})
	if !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("Expected ErrUnknownCurrency for crypto default currency, got %v", err)
	}

	err = svc.UpdateSettings(ctx, &storages.UserSettings{
		UserID: 1, DefaultCurrency: "USD", DataSource: "KRAKEN",
	})
	if !errors.Is(err, providers.ErrUnknownSource) {
		t.Fatalf("Expected ErrUnknownSource, got %v", err)
	}
}

func TestSubscriptions(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	threshold := 70000.0
	sub, err := svc.Subscribe(ctx, 1, "btc", &threshold)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sub.Pair != "BTC" {
		t.Fatalf("Expected normalized pair BTC, got %q", sub.Pair)
	}

	subs, err := svc.Subscriptions(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("Expected 1 subscription, got %d", len(subs))
	}

	if err := svc.Unsubscribe(ctx, 1, "BTC"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := svc.Unsubscribe(ctx, 1, "BTC"); err == nil {
		t.Fatal("Expected error for missing subscription")
	}
}

func TestSubscribeValidation(t *testing.T) {
	svc := newTestService(NewMockStorage())
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, 1, "XYZ", nil); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("Expected ErrUnknownCurrency, got %v", err)
	}

	bad := -1.0
	if _, err := svc.Subscribe(ctx, 1, "BTC", &bad); err == nil {
		t.Fatal("Expected error for negative threshold")
	}
}

func TestListCrypto(t *testing.T) {
	svc := newTestService(NewMockStorage())

	list, err := svc.ListCrypto(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(list))
	}
	if list[0].Code != "BTC" || list[0].Name != "Bitcoin" {
		t.Fatalf("Expected named BTC entry, got %+v", list[0])
	}
	// Незнакомый бирже код остается без названия
	if list[2].Code != "NEWCOIN" || list[2].Name != "" {
		t.Fatalf("Expected unnamed NEWCOIN entry, got %+v", list[2])
	}
}

func TestListFiat(t *testing.T) {
	svc := newTestService(NewMockStorage())

	list := svc.ListFiat()
	if len(list) == 0 {
		t.Fatal("Expected non-empty fiat list")
	}
	for _, info := range list {
		if info.Class != "fiat" || info.Name == "" {
			t.Fatalf("Unexpected entry: %+v", info)
		}
	}
}

func TestCheckCode(t *testing.T) {
	svc := newTestService(NewMockStorage())

	info, err := svc.CheckCode("eth")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if info.Code != "ETH" || info.Name != "Ethereum" || info.Class != "crypto" {
		t.Fatalf("Unexpected info: %+v", info)
	}

	if _, err := svc.CheckCode("XYZ"); !errors.Is(err, currency.ErrUnknownCurrency) {
		t.Fatalf("Expected ErrUnknownCurrency, got %v", err)
	}
}

func TestTrendLoadsSettingsOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
		out := "["
		for i, c := range []float64{100, 110, 121} {
			if i > 0 {
				out += ","
			}
			ts := start.Add(time.Duration(i) * 24 * time.Hour).UnixMilli()
			out += fmt.Sprintf(`[%d,"0","0","0","%f",0]`, ts, c)
		}
		fmt.Fprint(w, out+"]")
	}))
	defer server.Close()

	storage := NewMockStorage()
	storage.settings[1] = &storages.UserSettings{
		UserID:          1,
		Notifications:   true,
		DefaultCurrency: "USD",
		DataSource:      "GATEIO",
	}

	source := &staticTable{table: rates.Table{"USD": {Nominal: 1, Value: 90.0}}}
	converter := rates.NewConverter(rates.NewCache(source, time.Minute, testLogger()))
	resolver := providers.NewResolverWithSources(map[providers.Source]providers.PriceSource{
		providers.SourceGateio: &fixedSource{name: "GATEIO", price: 60300},
	}, testLogger())
	builder := trend.NewSeriesBuilder(server.URL, "", 3*time.Second, testLogger())
	svc := NewBotService(storage, converter, resolver, builder, &fixedLister{}, testLogger())

	report, err := svc.Trend(context.Background(), 1, "BTC", "3d")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Source != "GATEIO" {
		t.Fatalf("Expected source GATEIO from settings, got %q", report.Source)
	}
	if len(report.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(report.Points))
	}

	// Настройки нужны и для источника, и для базовой валюты,
	// но запрашиваются один раз
	if storage.getSettingsCalls != 1 {
		t.Fatalf("Expected 1 settings lookup, got %d", storage.getSettingsCalls)
	}
}

func TestPopularFiatRates(t *testing.T) {
	svc := newTestService(NewMockStorage())

	res, err := svc.PopularFiatRates(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Base != "RUB" {
		t.Fatalf("Expected base RUB, got %q", res.Base)
	}
	if res.Rates["USD"] != 90.0 {
		t.Fatalf("Expected USD rate 90.0, got %v", res.Rates["USD"])
	}
	// Валюты вне тестовой таблицы попадают в список отказов
	if _, ok := res.Failed["GBP"]; !ok {
		t.Fatal("Expected GBP in failed map")
	}
}

func TestPopularCryptoPrices(t *testing.T) {
	svc := newTestService(NewMockStorage())

	res, err := svc.PopularCryptoPrices(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Base != "USD" {
		t.Fatalf("Expected base USD, got %q", res.Base)
	}
	if res.Rates["BTC"] != 60000 {
		t.Fatalf("Expected BTC price 60000, got %v", res.Rates["BTC"])
	}
}
