package queue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRevalidator struct {
	paths []string
	err   error
}

func (r *recordingRevalidator) Revalidate(_ context.Context, path string) error {
	if r.err != nil {
		return r.err
	}
	r.paths = append(r.paths, path)
	return nil
}

func TestCatalogEventValidate(t *testing.T) {
	evt := NewCatalogEvent(EventProductUpdated, []string{"id"}, "/admin/products", "/admin/products/edit/id")
	assert.NoError(t, evt.Validate())

	bad := evt
	bad.Type = "order.created"
	assert.Error(t, bad.Validate())

	bad = evt
	bad.Paths = nil
	assert.Error(t, bad.Validate())

	bad = evt
	bad.Paths = []string{"admin"}
	assert.Error(t, bad.Validate())

	bad = evt
	bad.EventID = ""
	assert.Error(t, bad.Validate())
}

func TestConsumerHandle(t *testing.T) {
	rv := &recordingRevalidator{}
	c := &Consumer{revalidator: rv}

	evt := NewCatalogEvent(EventProductCreated, nil, "/admin/products")
	b, err := json.Marshal(evt)
	require.NoError(t, err)

	require.NoError(t, c.handle(context.Background(), kafka.Message{Value: b}))
	assert.Equal(t, []string{"/admin/products"}, rv.paths)

	// 脏消息丢弃，不返回错误
	assert.NoError(t, c.handle(context.Background(), kafka.Message{Value: []byte("{")}))
	assert.NoError(t, c.handle(context.Background(), kafka.Message{Value: []byte(`{"type":"x"}`)}))

	rv.err = errors.New("down")
	assert.Error(t, c.handle(context.Background(), kafka.Message{Value: b}))
}

func TestWebhookRevalidator(t *testing.T) {
	var gotPath, gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Query().Get("path")
		gotSecret = r.Header.Get("X-Revalidate-Secret")
		if gotPath == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhookRevalidator(srv.URL+"/api/revalidate", "shh")
	require.NoError(t, w.Revalidate(context.Background(), "/admin/settings"))
	assert.Equal(t, "/admin/settings", gotPath)
	assert.Equal(t, "shh", gotSecret)

	assert.Error(t, w.Revalidate(context.Background(), "/fail"))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), CatalogEvent{}))
}
