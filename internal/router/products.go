package router

import (
	"fmt"
	"net/http"

	"nuvyra_admin/internal/repository"
	"nuvyra_admin/internal/service"
	"nuvyra_admin/internal/validation"

	"github.com/gin-gonic/gin"
)

// listProducts 支持 category / is_active 过滤与 sort_by / sort_order 排序。
func listProducts(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := repository.ProductFilter{
			Category:  c.Query("category"),
			SortBy:    c.Query("sort_by"),
			SortOrder: c.Query("sort_order"),
		}
		if raw := c.Query("is_active"); raw != "" {
			v, err := validation.ParseBool(raw)
			if err != nil {
				fail(c, validation.NewError("is_active", "must be true or false"))
				return
			}
			f.IsActive = &v
		}
		list, err := svc.List(c.Request.Context(), f)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, list)
	}
}

func listCategories(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := svc.Categories(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, cats)
	}
}

func getProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, p)
	}
}

func createProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form validation.ProductForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		p, err := svc.Create(c.Request.Context(), form)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"code": 0, "msg": "product created", "data": p})
	}
}

func updateProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form validation.ProductForm
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), form)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "product updated", "data": p})
	}
}

func deleteProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "product deleted"})
	}
}

// toggleProduct 切换单个布尔字段，body: {"field":"is_active","value":true}
func toggleProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Field string               `json:"field"`
			Value *validation.FlexBool `json:"value"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		if req.Value == nil {
			fail(c, validation.NewError("value", "is required"))
			return
		}
		p, err := svc.Toggle(c.Request.Context(), c.Param("id"), req.Field, bool(*req.Value))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, p)
	}
}

type bulkRequest struct {
	IDs      []string             `json:"ids"`
	IsActive *validation.FlexBool `json:"is_active"`
}

func bindBulk(c *gin.Context) (bulkRequest, bool) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return req, false
	}
	if len(req.IDs) == 0 {
		fail(c, validation.NewError("ids", "is required"))
		return req, false
	}
	return req, true
}

// bulkResponse 部分失败不是错误，用 "M of N" 的形式如实返回。
func bulkResponse(c *gin.Context, res service.BulkResult, err error, verb string) {
	msg := fmt.Sprintf("%d of %d products %s", res.Succeeded, res.Requested, verb)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": msg + ": " + err.Error(), "data": res})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": msg, "data": res})
}

func bulkDelete(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, valid := bindBulk(c)
		if !valid {
			return
		}
		res, err := svc.BulkDelete(c.Request.Context(), req.IDs)
		bulkResponse(c, res, err, "deleted")
	}
}

func bulkSetActive(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, valid := bindBulk(c)
		if !valid {
			return
		}
		if req.IsActive == nil {
			fail(c, validation.NewError("is_active", "is required"))
			return
		}
		res, err := svc.BulkSetActive(c.Request.Context(), req.IDs, bool(*req.IsActive))
		bulkResponse(c, res, err, "updated")
	}
}
