package storages

import "time"

// User представляет пользователя системы
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserSettings представляет настройки пользователя
type UserSettings struct {
	UserID          int64     `db:"user_id" json:"-"`
	Notifications   bool      `db:"notifications" json:"notifications"`
	DefaultCurrency string    `db:"default_currency" json:"default_currency"`
	DataSource      string    `db:"data_source" json:"data_source"`
	UpdatedAt       time.Time `db:"updated_at" json:"-"`
}

// DefaultSettings возвращает настройки по умолчанию для пользователя
func DefaultSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:          userID,
		Notifications:   true,
		DefaultCurrency: "USD",
		DataSource:      "BINANCE",
	}
}

// Subscription представляет подписку пользователя на валютную пару.
// Threshold не задан, если пользователь не указал порог цены.
type Subscription struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Pair      string    `db:"pair" json:"pair"`
	Threshold *float64  `db:"threshold" json:"threshold,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
