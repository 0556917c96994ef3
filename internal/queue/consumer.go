package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Revalidator 通知店面刷新某个路径的页面缓存。
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Consumer 消费目录事件并转发给店面。
// 语义：全部路径通知成功后才提交 offset，失败则保留消息等待重试。
type Consumer struct {
	r           *kafka.Reader
	revalidator Revalidator
}

func NewConsumer(brokers []string, topic, groupID string, revalidator Revalidator) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 1e6,
		}),
		revalidator: revalidator,
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
				zap.L().Error("consumer fetch", zap.Error(err))
			}
			return
		}

		// 同一条消息重试到成功为止，之后才提交 offset
		for attempt := 1; ; attempt++ {
			err := c.handle(ctx, m)
			if err == nil {
				break
			}
			zap.L().Warn("consumer handle",
				zap.Int64("offset", m.Offset),
				zap.Int("attempt", attempt),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay(attempt)):
			}
		}
		if err := c.r.CommitMessages(ctx, m); err != nil {
			zap.L().Error("consumer commit", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

func retryDelay(attempt int) time.Duration {
	d := time.Duration(attempt) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// handle 脏消息直接丢弃（返回 nil），通知失败返回错误。
func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	var evt CatalogEvent
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		zap.L().Warn("consumer unmarshal, dropping message", zap.Error(err))
		return nil
	}
	if err := evt.Validate(); err != nil {
		zap.L().Warn("consumer invalid event, dropping message", zap.Error(err))
		return nil
	}
	for _, path := range evt.Paths {
		if err := c.revalidator.Revalidate(ctx, path); err != nil {
			return fmt.Errorf("revalidate %s: %w", path, err)
		}
	}
	zap.L().Info("storefront revalidated",
		zap.String("event_id", evt.EventID),
		zap.String("type", evt.Type),
		zap.Strings("paths", evt.Paths))
	return nil
}
