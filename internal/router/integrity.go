package router

import (
	"fmt"
	"net/http"

	"nuvyra_admin/internal/integrity"
	"nuvyra_admin/internal/service"

	"github.com/gin-gonic/gin"
)

func scanIntegrity(svc *service.IntegrityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Scan(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, res)
	}
}

// applyIntegrity 应用扫描得到的修正；任何一行不合法则全部不写。
func applyIntegrity(svc *service.IntegrityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CorrectedProductData []integrity.CorrectedProduct `json:"correctedProductData"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		if len(req.CorrectedProductData) == 0 {
			badRequest(c, "correctedProductData must not be empty")
			return
		}
		res, err := svc.Apply(c.Request.Context(), req.CorrectedProductData)
		if err != nil && res.Succeeded == 0 {
			fail(c, err)
			return
		}
		msg := fmt.Sprintf("%d of %d corrections applied", res.Succeeded, res.Requested)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": msg + ": " + err.Error(), "data": res})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": msg, "data": res})
	}
}
