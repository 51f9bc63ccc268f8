package alerts

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Alert представляет доставленное ценовое уведомление
type Alert struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      int64              `bson:"user_id" json:"user_id"`
	Pair        string             `bson:"pair" json:"pair"`
	Price       float64            `bson:"price" json:"price"`
	Threshold   float64            `bson:"threshold" json:"threshold"`
	Source      string             `bson:"source" json:"source"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	ProcessedAt time.Time          `bson:"processed_at" json:"processed_at"`
	Status      string             `bson:"status" json:"status"` // processed, failed
}

// AlertStatus определяет статусы обработки
const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// Statistics представляет статистику обработки уведомлений
type Statistics struct {
	TotalProcessed  int64     `bson:"total_processed" json:"total_processed"`
	TotalFailed     int64     `bson:"total_failed" json:"total_failed"`
	LastProcessedAt time.Time `bson:"last_processed_at" json:"last_processed_at"`
	AveragePrice    float64   `bson:"average_price" json:"average_price"`
}
