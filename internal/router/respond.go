package router

import (
	"errors"
	"net/http"

	"nuvyra_admin/internal/imagehost"
	"nuvyra_admin/internal/integrity"
	"nuvyra_admin/internal/service"
	"nuvyra_admin/internal/validation"

	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": msg})
}

// fail 把服务层错误映射为 HTTP 状态：
// 校验 400，不存在 404，未登录 401，功能关闭 503，外部服务 502，其它 500。
func fail(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "validation failed", "errors": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "not found"})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": err.Error()})
	case errors.Is(err, service.ErrFeatureDisabled), errors.Is(err, imagehost.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": 503, "msg": err.Error()})
	case errors.Is(err, integrity.ErrNonConforming), errors.Is(err, integrity.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"code": 502, "msg": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
	}
}
