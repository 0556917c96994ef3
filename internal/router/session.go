package router

import (
	"net/http"

	"nuvyra_admin/internal/auth"
	"nuvyra_admin/internal/config"
	"nuvyra_admin/internal/middleware"
	"nuvyra_admin/internal/service"
	"nuvyra_admin/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Redirect string `json:"redirect" form:"redirect"`
}

// loginHint 未登录访问 /login 时告诉前端登录后回到哪里。
func loginHint() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{"redirect": middleware.SafeRedirect(c.Query("redirect"))})
	}
}

// signIn 校验凭据、写入会话 cookie，并返回经过过滤的跳转地址。
func signIn(svc *service.AuthService, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		if req.Redirect == "" {
			req.Redirect = c.Query("redirect")
		}
		if err := validation.Struct(req); err != nil {
			fail(c, err)
			return
		}
		sess, err := svc.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.CookieName, sess.Token, int(cfg.SessionTTL.Seconds()), "/", "", cfg.SessionSecure, true)
		ok(c, gin.H{
			"email":    sess.Admin.Email,
			"redirect": middleware.SafeRedirect(req.Redirect),
		})
	}
}

// signOut 吊销会话并清除 cookie；吊销失败也会清 cookie。
func signOut(svc *service.AuthService, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(auth.CookieName); err == nil && token != "" {
			if err := svc.SignOut(c.Request.Context(), token); err != nil {
				zap.L().Error("sign out failed", zap.Error(err))
			}
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.CookieName, "", -1, "/", "", cfg.SessionSecure, true)
		ok(c, gin.H{"redirect": middleware.LoginPath})
	}
}

func currentAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, found := middleware.CurrentAdmin(c)
		if !found {
			fail(c, service.ErrUnauthenticated)
			return
		}
		ok(c, u)
	}
}
