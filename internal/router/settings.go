package router

import (
	"net/http"

	"nuvyra_admin/internal/service"
	"nuvyra_admin/internal/validation"

	"github.com/gin-gonic/gin"
)

func getSettings(svc *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.Get(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, s)
	}
}

// updateSettings 关键词逗号分隔，横幅每行一个。
func updateSettings(svc *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form validation.SettingsForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		s, err := svc.Update(c.Request.Context(), form)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "settings updated", "data": s})
	}
}
