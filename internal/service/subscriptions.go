package service

import (
	"context"
	"fmt"

	"github.com/TheDucklet/FinancialTelegramBot/internal/currency"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/TheDucklet/FinancialTelegramBot/internal/storages"
)

// GetSettings возвращает настройки пользователя
func (s *BotService) GetSettings(ctx context.Context, userID int64) (*storages.UserSettings, error) {
	settings, err := s.storage.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings сохраняет настройки пользователя
func (s *BotService) UpdateSettings(ctx context.Context, settings *storages.UserSettings) error {
	settings.DefaultCurrency = currency.Normalize(settings.DefaultCurrency)
	if currency.Classify(settings.DefaultCurrency) != currency.ClassFiat {
		return fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, settings.DefaultCurrency)
	}

	src, err := providers.ParseSource(settings.DataSource)
	if err != nil {
		return err
	}
	settings.DataSource = src.String()

	if err := s.storage.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Infof("Settings updated: UserID=%d, Currency=%s, Source=%s",
		settings.UserID, settings.DefaultCurrency, settings.DataSource)
	return nil
}

// Subscribe подписывает пользователя на валютную пару.
// Повторная подписка на ту же пару обновляет порог.
func (s *BotService) Subscribe(ctx context.Context, userID int64, pair string, threshold *float64) (*storages.Subscription, error) {
	pair = currency.Normalize(pair)
	if currency.Classify(pair) == currency.ClassUnknown {
		return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, pair)
	}

	if threshold != nil && *threshold <= 0 {
		return nil, fmt.Errorf("threshold must be positive")
	}

	sub := &storages.Subscription{
		UserID:    userID,
		Pair:      pair,
		Threshold: threshold,
	}
	if err := s.storage.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	s.logger.Infof("Subscription created: UserID=%d, Pair=%s", userID, pair)
	return sub, nil
}

// Subscriptions возвращает подписки пользователя
func (s *BotService) Subscriptions(ctx context.Context, userID int64) ([]storages.Subscription, error) {
	subs, err := s.storage.GetSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}
	return subs, nil
}

// Unsubscribe удаляет подписку пользователя на пару
func (s *BotService) Unsubscribe(ctx context.Context, userID int64, pair string) error {
	pair = currency.Normalize(pair)
	if err := s.storage.DeleteSubscription(ctx, userID, pair); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	s.logger.Infof("Subscription removed: UserID=%d, Pair=%s", userID, pair)
	return nil
}
