package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/TheDucklet/FinancialTelegramBot/internal/alerts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveAlert сохраняет информацию о ценовом уведомлении
func (s *MongoStorage) SaveAlert(ctx context.Context, alert *alerts.Alert) error {
	alert.ProcessedAt = time.Now()
	alert.Status = alerts.StatusProcessed

	result, err := s.collection.InsertOne(ctx, alert)
	if err != nil {
		s.logger.Errorf("Failed to save alert: %v", err)
		return fmt.Errorf("failed to save alert: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		alert.ID = oid
	}

	s.logger.Debugf("Saved alert: UserID=%d, Pair=%s, Price=%.8f",
		alert.UserID, alert.Pair, alert.Price)

	return nil
}

// SaveAlertBatch сохраняет пакет уведомлений
func (s *MongoStorage) SaveAlertBatch(ctx context.Context, batch []alerts.Alert) error {
	if len(batch) == 0 {
		return nil
	}

	// Подготовка документов для вставки
	documents := make([]interface{}, len(batch))
	now := time.Now()

	for i := range batch {
		batch[i].ProcessedAt = now
		batch[i].Status = alerts.StatusProcessed
		documents[i] = batch[i]
	}

	// Вставка пакетом
	result, err := s.collection.InsertMany(ctx, documents)
	if err != nil {
		s.logger.Errorf("Failed to save alert batch: %v", err)
		return fmt.Errorf("failed to save alert batch: %w", err)
	}

	s.logger.Infof("Saved batch of %d alerts (inserted: %d)",
		len(batch), len(result.InsertedIDs))

	return nil
}

// GetAlertsByUser получает уведомления пользователя
func (s *MongoStorage) GetAlertsByUser(ctx context.Context, userID int64, limit int) ([]alerts.Alert, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Errorf("Failed to query alerts: %v", err)
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var result []alerts.Alert
	if err := cursor.All(ctx, &result); err != nil {
		s.logger.Errorf("Failed to decode alerts: %v", err)
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}

	s.logger.Debugf("Retrieved %d alerts for user %d", len(result), userID)
	return result, nil
}

// GetRecentAlerts получает последние уведомления
func (s *MongoStorage) GetRecentAlerts(ctx context.Context, limit int) ([]alerts.Alert, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "processed_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		s.logger.Errorf("Failed to query recent alerts: %v", err)
		return nil, fmt.Errorf("failed to query recent alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var result []alerts.Alert
	if err := cursor.All(ctx, &result); err != nil {
		s.logger.Errorf("Failed to decode alerts: %v", err)
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}

	s.logger.Debugf("Retrieved %d recent alerts", len(result))
	return result, nil
}

// GetStatistics возвращает статистику обработки
func (s *MongoStorage) GetStatistics(ctx context.Context) (*alerts.Statistics, error) {
	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id": nil,
				"total_processed": bson.M{
					"$sum": bson.M{
						"$cond": []interface{}{
							bson.M{"$eq": []string{"$status", alerts.StatusProcessed}},
							1,
							0,
						},
					},
				},
				"total_failed": bson.M{
					"$sum": bson.M{
						"$cond": []interface{}{
							bson.M{"$eq": []string{"$status", alerts.StatusFailed}},
							1,
							0,
						},
					},
				},
				"average_price":  bson.M{"$avg": "$price"},
				"last_processed": bson.M{"$max": "$processed_at"},
			},
		},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		s.logger.Errorf("Failed to get statistics: %v", err)
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalProcessed  int64     `bson:"total_processed"`
		TotalFailed     int64     `bson:"total_failed"`
		AveragePrice    float64   `bson:"average_price"`
		LastProcessedAt time.Time `bson:"last_processed"`
	}

	if err := cursor.All(ctx, &results); err != nil {
		s.logger.Errorf("Failed to decode statistics: %v", err)
		return nil, fmt.Errorf("failed to decode statistics: %w", err)
	}

	stats := &alerts.Statistics{}
	if len(results) > 0 {
		stats.TotalProcessed = results[0].TotalProcessed
		stats.TotalFailed = results[0].TotalFailed
		stats.AveragePrice = results[0].AveragePrice
		stats.LastProcessedAt = results[0].LastProcessedAt
	}

	s.logger.Debugf("Statistics: Processed=%d, Failed=%d, AvgPrice=%.4f",
		stats.TotalProcessed, stats.TotalFailed, stats.AveragePrice)

	return stats, nil
}
