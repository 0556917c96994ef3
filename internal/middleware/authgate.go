package middleware

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nuvyra_admin/internal/auth"
	"nuvyra_admin/internal/model"
)

const (
	LoginPath   = "/login"
	LandingPath = "/admin/products"

	adminContextKey = "admin"
)

// Authenticator 根据会话令牌返回当前管理员，无效时返回错误。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.AdminUser, error)
}

// IsAdminPath reports whether path is under the protected /admin tree.
func IsAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// AuthGate 统一的会话拦截，只作用于 /、/login 和 /admin/*：
//   - 未登录访问 /admin/* -> 302 /login?redirect=<原路径>
//   - 已登录访问 /login   -> 302 /admin/products
//   - /                   -> 按登录状态 302 到 /admin/products 或 /login
//
// 其它组合原样放行；已登录时管理员写入 context。
func AuthGate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		admin := IsAdminPath(path)
		if !admin && path != LoginPath && path != "/" {
			c.Next()
			return
		}

		var current *model.AdminUser
		if token, err := c.Cookie(auth.CookieName); err == nil && token != "" {
			u, err := a.Authenticate(c.Request.Context(), token)
			if err != nil {
				zap.L().Debug("session rejected", zap.String("path", path), zap.Error(err))
			} else {
				current = u
			}
		}

		switch {
		case path == "/":
			if current != nil {
				c.Redirect(http.StatusFound, LandingPath)
			} else {
				c.Redirect(http.StatusFound, LoginPath)
			}
			c.Abort()
			return
		case admin && current == nil:
			c.Redirect(http.StatusFound, LoginPath+"?redirect="+url.QueryEscape(path))
			c.Abort()
			return
		case path == LoginPath && current != nil:
			c.Redirect(http.StatusFound, LandingPath)
			c.Abort()
			return
		}

		if current != nil {
			c.Set(adminContextKey, current)
		}
		c.Next()
	}
}

// CurrentAdmin 取出 AuthGate 写入的管理员。
func CurrentAdmin(c *gin.Context) (*model.AdminUser, bool) {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.AdminUser)
	return u, ok
}

// SafeRedirect 只接受 /admin 下的站内路径，其它一律回到默认落地页。
func SafeRedirect(target string) string {
	if target == "" || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return LandingPath
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return LandingPath
	}
	u.Path = path.Clean("/" + u.Path)
	if !IsAdminPath(u.Path) {
		return LandingPath
	}
	return u.RequestURI()
}
