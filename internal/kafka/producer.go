package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// PriceAlertMessage сообщение о срабатывании ценового порога подписки
type PriceAlertMessage struct {
	UserID    int64     `json:"user_id"`
	Pair      string    `json:"pair"`
	Price     float64   `json:"price"`
	Threshold float64   `json:"threshold"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Producer Kafka producer для отправки уведомлений о ценах
type Producer struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string, topic string, logger *logrus.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Асинхронная отправка для производительности
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	}

	logger.Infof("Kafka producer initialized for topic: %s", topic)

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// SendPriceAlert отправляет уведомление о пересечении ценового порога
func (p *Producer) SendPriceAlert(ctx context.Context, alert PriceAlertMessage) error {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	// Сериализуем сообщение в JSON
	messageBytes, err := json.Marshal(alert)
	if err != nil {
		p.logger.Errorf("Failed to marshal Kafka message: %v", err)
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Отправляем сообщение в Kafka
	kafkaMessage := kafka.Message{
		Key:   []byte(fmt.Sprintf("user_%d", alert.UserID)),
		Value: messageBytes,
		Time:  alert.Timestamp,
	}

	if err := p.writer.WriteMessages(ctx, kafkaMessage); err != nil {
		p.logger.Errorf("Failed to send message to Kafka: %v", err)
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.Infof("Sent price alert to Kafka: UserID=%d, Pair=%s, Price=%.8f (threshold %.8f)",
		alert.UserID, alert.Pair, alert.Price, alert.Threshold)

	return nil
}

// Close закрывает Kafka producer
func (p *Producer) Close() error {
	if p.writer != nil {
		p.logger.Info("Closing Kafka producer")
		return p.writer.Close()
	}
	return nil
}
