package storages

import "context"

// Storage определяет интерфейс для работы с хранилищем данных
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)

	// Settings operations
	GetSettings(ctx context.Context, userID int64) (*UserSettings, error)
	SaveSettings(ctx context.Context, settings *UserSettings) error

	// Subscription operations
	CreateSubscription(ctx context.Context, sub *Subscription) error
	GetSubscriptions(ctx context.Context, userID int64) ([]Subscription, error)
	DeleteSubscription(ctx context.Context, userID int64, pair string) error
	GetThresholdSubscriptions(ctx context.Context) ([]Subscription, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
