package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 目录变更事件类型。
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventSettingsUpdated = "settings.updated"
)

// CatalogEvent 是写入 Kafka 的目录变更事件，下游据 Paths 做按需重新验证。
type CatalogEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	ProductIDs []string  `json:"product_ids,omitempty"`
	Paths      []string  `json:"paths"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCatalogEvent 生成带 event_id 与时间戳的事件。
func NewCatalogEvent(eventType string, productIDs []string, paths ...string) CatalogEvent {
	return CatalogEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ProductIDs: productIDs,
		Paths:      paths,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate 做最小字段校验，防止消费者处理脏消息。
func (e CatalogEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	switch e.Type {
	case EventProductCreated, EventProductUpdated, EventProductDeleted, EventSettingsUpdated:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if len(e.Paths) == 0 {
		return fmt.Errorf("paths must not be empty")
	}
	for _, p := range e.Paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("path %q must be absolute", p)
		}
	}
	return nil
}
