package kafka

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/TheDucklet/FinancialTelegramBot/internal/alerts"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// flakyStorage отдает ошибку первые failures вызовов SaveAlertBatch
type flakyStorage struct {
	failures int
	calls    int
	saved    []alerts.Alert
}

func (s *flakyStorage) SaveAlert(ctx context.Context, alert *alerts.Alert) error {
	s.saved = append(s.saved, *alert)
	return nil
}

func (s *flakyStorage) SaveAlertBatch(ctx context.Context, batch []alerts.Alert) error {
	s.calls++
	if s.calls <= s.failures {
		return fmt.Errorf("storage unavailable")
	}
	s.saved = append(s.saved, batch...)
	return nil
}

func (s *flakyStorage) GetAlertsByUser(ctx context.Context, userID int64, limit int) ([]alerts.Alert, error) {
	return s.saved, nil
}

func (s *flakyStorage) GetRecentAlerts(ctx context.Context, limit int) ([]alerts.Alert, error) {
	return s.saved, nil
}

func (s *flakyStorage) GetStatistics(ctx context.Context) (*alerts.Statistics, error) {
	return &alerts.Statistics{}, nil
}

func (s *flakyStorage) Ping(ctx context.Context) error  { return nil }
func (s *flakyStorage) Close(ctx context.Context) error { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestConsumer(storage alerts.Storage, retryAttempts int) *Consumer {
	return &Consumer{
		storage:       storage,
		logger:        testLogger(),
		batchSize:     10,
		retryAttempts: retryAttempts,
		retryDelay:    time.Millisecond,
		startTime:     time.Now(),
	}
}

func TestParseMessage(t *testing.T) {
	c := newTestConsumer(&flakyStorage{}, 1)

	value := `{
		"user_id": 123,
		"pair": "BTC",
		"price": 71000.5,
		"threshold": 70000,
		"source": "BINANCE",
		"timestamp": "2026-09-01T15:04:05Z"
	}`

	alert, err := c.parseMessage(kafka.Message{Value: []byte(value)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if alert.UserID != 123 {
		t.Fatalf("Expected UserID 123, got %d", alert.UserID)
	}
	if alert.Pair != "BTC" {
		t.Fatalf("Expected pair 'BTC', got '%s'", alert.Pair)
	}
	if alert.Price != 71000.5 {
		t.Fatalf("Expected price 71000.5, got %.2f", alert.Price)
	}
	if alert.Threshold != 70000 {
		t.Fatalf("Expected threshold 70000, got %.2f", alert.Threshold)
	}
	if alert.Source != "BINANCE" {
		t.Fatalf("Expected source 'BINANCE', got '%s'", alert.Source)
	}
}

func TestParseMessageMalformed(t *testing.T) {
	c := newTestConsumer(&flakyStorage{}, 1)

	if _, err := c.parseMessage(kafka.Message{Value: []byte("not json")}); err == nil {
		t.Fatal("Expected error for malformed message")
	}
}

func TestSaveBatchWithRetry(t *testing.T) {
	storage := &flakyStorage{failures: 2}
	c := newTestConsumer(storage, 3)

	batch := []alerts.Alert{
		{UserID: 1, Pair: "BTC", Price: 71000.0},
		{UserID: 2, Pair: "ETH", Price: 4100.0},
	}

	if err := c.saveBatchWithRetry(context.Background(), batch); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}

	if storage.calls != 3 {
		t.Fatalf("Expected 3 attempts, got %d", storage.calls)
	}
	if len(storage.saved) != 2 {
		t.Fatalf("Expected 2 saved alerts, got %d", len(storage.saved))
	}
}

func TestSaveBatchWithRetryExhausted(t *testing.T) {
	storage := &flakyStorage{failures: 10}
	c := newTestConsumer(storage, 3)

	batch := []alerts.Alert{{UserID: 1, Pair: "BTC", Price: 71000.0}}

	if err := c.saveBatchWithRetry(context.Background(), batch); err == nil {
		t.Fatal("Expected error after exhausted retries")
	}

	if storage.calls != 3 {
		t.Fatalf("Expected 3 attempts, got %d", storage.calls)
	}
	if len(storage.saved) != 0 {
		t.Fatalf("Expected no saved alerts, got %d", len(storage.saved))
	}
}

func TestConsumerStatistics(t *testing.T) {
	c := newTestConsumer(&flakyStorage{}, 1)

	c.incrementProcessed(5)
	c.incrementFailed()

	stats := c.GetStatistics()
	if stats["messages_processed"].(int64) != 5 {
		t.Fatalf("Expected 5 processed, got %v", stats["messages_processed"])
	}
	if stats["messages_failed"].(int64) != 1 {
		t.Fatalf("Expected 1 failed, got %v", stats["messages_failed"])
	}
	if _, ok := stats["uptime_seconds"]; !ok {
		t.Fatal("Expected uptime_seconds in statistics")
	}
}
