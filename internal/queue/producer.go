package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher 发布目录变更事件。
type Publisher interface {
	Publish(ctx context.Context, evt CatalogEvent) error
}

// NopPublisher 未配置 Kafka 时使用。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CatalogEvent) error { return nil }

// Producer 封装 Kafka 写入器。
type Producer struct {
	w *kafka.Writer
}

// NewProducer 创建生产者：
// - Hash + Key: 同类型事件落在同一分区，保持相对顺序。
// - RequireAll: 等待 ISR 副本确认。
// - MaxAttempts/Timeout: 控制重试与超时边界，避免拖慢后台请求。
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 3 * time.Second,
			ReadTimeout:  3 * time.Second,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Close 释放 writer 资源。
func (p *Producer) Close() error { return p.w.Close() }

// Publish 同步写入一条事件，key 为事件类型。
func (p *Producer) Publish(ctx context.Context, evt CatalogEvent) error {
	if err := evt.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Type),
		Value: b,
	})
}
