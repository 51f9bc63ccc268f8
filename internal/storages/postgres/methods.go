package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TheDucklet/FinancialTelegramBot/internal/storages"
)

// CreateUser создает нового пользователя
func (s *PostgresStorage) CreateUser(ctx context.Context, user *storages.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		now,
		now,
	).Scan(&user.ID)

	if err != nil {
		s.logger.Errorf("Failed to create user: %v", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	s.logger.Infof("Created user: %s (ID: %d)", user.Username, user.ID)
	return nil
}

// GetUserByUsername возвращает пользователя по имени
func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*storages.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var user storages.User
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}

	if err != nil {
		s.logger.Errorf("Failed to get user by username: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail возвращает пользователя по email
func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*storages.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user storages.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}

	if err != nil {
		s.logger.Errorf("Failed to get user by email: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserByID возвращает пользователя по ID
func (s *PostgresStorage) GetUserByID(ctx context.Context, userID int64) (*storages.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user storages.User
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}

	if err != nil {
		s.logger.Errorf("Failed to get user by ID: %v", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetSettings возвращает настройки пользователя.
// Если настройки не сохранялись, возвращаются значения по умолчанию.
func (s *PostgresStorage) GetSettings(ctx context.Context, userID int64) (*storages.UserSettings, error) {
	query := `
		SELECT user_id, notifications, default_currency, data_source, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var settings storages.UserSettings
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.Notifications,
		&settings.DefaultCurrency,
		&settings.DataSource,
		&settings.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return storages.DefaultSettings(userID), nil
	}

	if err != nil {
		s.logger.Errorf("Failed to get settings: %v", err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &settings, nil
}

// SaveSettings сохраняет настройки пользователя
func (s *PostgresStorage) SaveSettings(ctx context.Context, settings *storages.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, notifications, default_currency, data_source, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			notifications = EXCLUDED.notifications,
			default_currency = EXCLUDED.default_currency,
			data_source = EXCLUDED.data_source,
			updated_at = EXCLUDED.updated_at
	`

	settings.UpdatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, query,
		settings.UserID,
		settings.Notifications,
		settings.DefaultCurrency,
		settings.DataSource,
		settings.UpdatedAt,
	)

	if err != nil {
		s.logger.Errorf("Failed to save settings: %v", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// CreateSubscription создает подписку на валютную пару.
// Повторная подписка на ту же пару обновляет порог цены.
func (s *PostgresStorage) CreateSubscription(ctx context.Context, sub *storages.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, pair, threshold, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, pair) DO UPDATE SET threshold = EXCLUDED.threshold
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sub.UserID,
		sub.Pair,
		sub.Threshold,
		time.Now(),
	).Scan(&sub.ID, &sub.CreatedAt)

	if err != nil {
		s.logger.Errorf("Failed to create subscription: %v", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	s.logger.Infof("Created subscription: UserID=%d, Pair=%s", sub.UserID, sub.Pair)
	return nil
}

// GetSubscriptions возвращает подписки пользователя
func (s *PostgresStorage) GetSubscriptions(ctx context.Context, userID int64) ([]storages.Subscription, error) {
	query := `
		SELECT id, user_id, pair, threshold, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		s.logger.Errorf("Failed to get subscriptions: %v", err)
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []storages.Subscription
	for rows.Next() {
		var sub storages.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Pair, &sub.Threshold, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}

	return subs, nil
}

// DeleteSubscription удаляет подписку пользователя на пару
func (s *PostgresStorage) DeleteSubscription(ctx context.Context, userID int64, pair string) error {
	query := `DELETE FROM subscriptions WHERE user_id = $1 AND pair = $2`

	result, err := s.db.ExecContext(ctx, query, userID, pair)
	if err != nil {
		s.logger.Errorf("Failed to delete subscription: %v", err)
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("subscription not found")
	}

	return nil
}

// GetThresholdSubscriptions возвращает все подписки с заданным порогом цены
func (s *PostgresStorage) GetThresholdSubscriptions(ctx context.Context) ([]storages.Subscription, error) {
	query := `
		SELECT id, user_id, pair, threshold, created_at
		FROM subscriptions
		WHERE threshold IS NOT NULL
		ORDER BY user_id, pair
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Errorf("Failed to get threshold subscriptions: %v", err)
		return nil, fmt.Errorf("failed to get threshold subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []storages.Subscription
	for rows.Next() {
		var sub storages.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Pair, &sub.Threshold, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}

	return subs, nil
}
