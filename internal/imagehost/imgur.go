package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured 未配置 Imgur Client-ID。
var ErrNotConfigured = errors.New("image host is not configured")

// Client 上传图片到 Imgur，返回托管后的链接。
type Client struct {
	clientID     string
	endpoint     string
	rehostPrefix string
	http         *http.Client
}

func NewClient(clientID, endpoint, rehostPrefix string) *Client {
	return &Client{
		clientID:     clientID,
		endpoint:     endpoint,
		rehostPrefix: rehostPrefix,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		Link  string `json:"link"`
		Error any    `json:"error"`
	} `json:"data"`
}

// Rehost 对以 rehostPrefix 开头的 URL 做转存；任何失败都返回原 URL，不丢数据。
func (c *Client) Rehost(ctx context.Context, originalURL string) string {
	if c == nil || c.rehostPrefix == "" || !strings.HasPrefix(originalURL, c.rehostPrefix) {
		return originalURL
	}
	if c.clientID == "" {
		zap.L().Warn("IMGUR_CLIENT_ID not set, skipping rehost", zap.String("url", originalURL))
		return originalURL
	}
	link, err := c.UploadURL(ctx, originalURL)
	if err != nil {
		zap.L().Error("imgur rehost failed", zap.String("url", originalURL), zap.Error(err))
		return originalURL
	}
	zap.L().Info("image rehosted", zap.String("from", originalURL), zap.String("to", link))
	return link
}

// UploadURL 以 URL 引用方式上传。
func (c *Client) UploadURL(ctx context.Context, imageURL string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("image", imageURL)
	_ = mw.WriteField("type", "url")
	if err := mw.Close(); err != nil {
		return "", err
	}
	return c.post(ctx, mw.FormDataContentType(), &body)
}

// Upload 上传二进制图片。
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	_ = mw.WriteField("type", "file")
	if err := mw.Close(); err != nil {
		return "", err
	}
	return c.post(ctx, mw.FormDataContentType(), &body)
}

func (c *Client) post(ctx context.Context, contentType string, body io.Reader) (string, error) {
	if c.clientID == "" {
		return "", ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Client-ID "+c.clientID)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgur request: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("imgur response %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode/100 != 2 || !out.Success {
		return "", fmt.Errorf("imgur responded %d: %v", resp.StatusCode, out.Data.Error)
	}
	if out.Data.Link == "" {
		return "", errors.New("imgur response missing link")
	}
	return out.Data.Link, nil
}
