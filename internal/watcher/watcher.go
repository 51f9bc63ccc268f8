package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/TheDucklet/FinancialTelegramBot/internal/kafka"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/TheDucklet/FinancialTelegramBot/internal/storages"
	"github.com/sirupsen/logrus"
)

// AlertPublisher публикует уведомления о пересечении ценового порога
type AlertPublisher interface {
	SendPriceAlert(ctx context.Context, alert kafka.PriceAlertMessage) error
}

// Watcher фоновый опрос подписок с ценовым порогом.
// При пересечении порога публикует уведомление в Kafka.
type Watcher struct {
	storage  storages.Storage
	resolver *providers.Resolver
	producer AlertPublisher
	interval time.Duration
	logger   *logrus.Logger

	// Пары, по которым порог уже сработал. Сбрасывается, когда цена
	// возвращается под порог, чтобы не слать одно и то же уведомление
	// каждый цикл.
	fired map[int64]bool

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New создает новый watcher
func New(
	storage storages.Storage,
	resolver *providers.Resolver,
	producer AlertPublisher,
	interval time.Duration,
	logger *logrus.Logger,
) *Watcher {
	return &Watcher{
		storage:  storage,
		resolver: resolver,
		producer: producer,
		interval: interval,
		logger:   logger,
		fired:    make(map[int64]bool),
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновый цикл опроса
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Infof("Price watcher started, interval=%v", w.interval)

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Price watcher stopped by context")
				return
			case <-w.stopChan:
				w.logger.Info("Price watcher stopped")
				return
			case <-ticker.C:
				w.checkSubscriptions(ctx)
			}
		}
	}()
}

// Stop останавливает watcher и дожидается завершения цикла
func (w *Watcher) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

// checkSubscriptions проверяет все подписки с порогом
func (w *Watcher) checkSubscriptions(ctx context.Context) {
	subs, err := w.storage.GetThresholdSubscriptions(ctx)
	if err != nil {
		w.logger.Errorf("Watcher: failed to get subscriptions: %v", err)
		return
	}

	if len(subs) == 0 {
		return
	}

	w.logger.Debugf("Watcher: checking %d subscriptions", len(subs))

	// Настройки запрашиваем один раз на пользователя
	settingsByUser := make(map[int64]*storages.UserSettings)

	for _, sub := range subs {
		settings, ok := settingsByUser[sub.UserID]
		if !ok {
			settings, err = w.storage.GetSettings(ctx, sub.UserID)
			if err != nil {
				w.logger.Warnf("Watcher: failed to get settings for user %d: %v", sub.UserID, err)
				continue
			}
			settingsByUser[sub.UserID] = settings
		}

		if !settings.Notifications {
			continue
		}

		w.checkSubscription(ctx, sub, settings)
	}
}

// checkSubscription сравнивает текущую цену пары с порогом подписки
func (w *Watcher) checkSubscription(ctx context.Context, sub storages.Subscription, settings *storages.UserSettings) {
	src, err := providers.ParseSource(settings.DataSource)
	if err != nil {
		src = providers.SourceBinance
	}

	price, err := w.resolver.SpotPrice(ctx, sub.Pair, src)
	if err != nil {
		w.logger.Warnf("Watcher: price for %s on %s failed: %v", sub.Pair, src, err)
		return
	}

	if price < *sub.Threshold {
		delete(w.fired, sub.ID)
		return
	}

	if w.fired[sub.ID] {
		return
	}

	alert := kafka.PriceAlertMessage{
		UserID:    sub.UserID,
		Pair:      sub.Pair,
		Price:     price,
		Threshold: *sub.Threshold,
		Source:    src.String(),
		Timestamp: time.Now(),
	}

	if err := w.producer.SendPriceAlert(ctx, alert); err != nil {
		w.logger.Errorf("Watcher: failed to send alert for %s: %v", sub.Pair, err)
		return
	}

	w.fired[sub.ID] = true
	w.logger.Infof("Watcher: threshold crossed for %s: price=%.8f, threshold=%.8f (user %d)",
		sub.Pair, price, *sub.Threshold, sub.UserID)
}
