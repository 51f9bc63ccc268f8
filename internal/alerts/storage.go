package alerts

import "context"

// Storage определяет интерфейс хранилища истории уведомлений
type Storage interface {
	// SaveAlert сохраняет одно уведомление
	SaveAlert(ctx context.Context, alert *Alert) error

	// SaveAlertBatch сохраняет пакет уведомлений
	SaveAlertBatch(ctx context.Context, batch []Alert) error

	// GetAlertsByUser возвращает уведомления пользователя
	GetAlertsByUser(ctx context.Context, userID int64, limit int) ([]Alert, error)

	// GetRecentAlerts возвращает последние уведомления
	GetRecentAlerts(ctx context.Context, limit int) ([]Alert, error)

	// GetStatistics возвращает статистику обработки
	GetStatistics(ctx context.Context) (*Statistics, error)

	// Health check
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
