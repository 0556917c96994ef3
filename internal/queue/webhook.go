package queue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// WebhookRevalidator 调用店面的按需重新验证接口：POST {endpoint}?path=/x
type WebhookRevalidator struct {
	endpoint string
	secret   string
	client   *http.Client
}

func NewWebhookRevalidator(endpoint, secret string) *WebhookRevalidator {
	return &WebhookRevalidator{
		endpoint: endpoint,
		secret:   secret,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (w *WebhookRevalidator) Revalidate(ctx context.Context, path string) error {
	u, err := url.Parse(w.endpoint)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("path", path)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return err
	}
	if w.secret != "" {
		req.Header.Set("X-Revalidate-Secret", w.secret)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("storefront responded %d", resp.StatusCode)
	}
	return nil
}
