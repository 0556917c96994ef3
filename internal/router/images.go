package router

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"nuvyra_admin/internal/imagehost"
	"nuvyra_admin/internal/validation"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 10 << 20

// uploadImage 上传图片：multipart 的 file 字段优先，否则按 url 字段转存。
// 转存失败时把原始 url 放在 data 里返回。
func uploadImage(client *imagehost.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			fail(c, imagehost.ErrNotConfigured)
			return
		}
		if fh, err := c.FormFile("file"); err == nil {
			if fh.Size > maxImageBytes {
				fail(c, validation.NewError("file", "must be at most 10 MB"))
				return
			}
			f, err := fh.Open()
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			defer f.Close()
			data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			link, err := client.Upload(c.Request.Context(), fh.Filename, data)
			if err != nil {
				uploadFailed(c, err, "")
				return
			}
			ok(c, gin.H{"url": link})
			return
		}

		var req struct {
			URL string `json:"url" form:"url" validate:"required,url"`
		}
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		req.URL = strings.TrimSpace(req.URL)
		if err := validation.Struct(req); err != nil {
			fail(c, err)
			return
		}
		link, err := client.UploadURL(c.Request.Context(), req.URL)
		if err != nil {
			uploadFailed(c, err, req.URL)
			return
		}
		ok(c, gin.H{"url": link})
	}
}

func uploadFailed(c *gin.Context, err error, original string) {
	status := http.StatusBadGateway
	if errors.Is(err, imagehost.ErrNotConfigured) {
		status = http.StatusServiceUnavailable
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"code": status, "msg": "image upload failed: " + err.Error(), "data": gin.H{"url": original}})
}
