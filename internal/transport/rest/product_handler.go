package rest

import (
	"strconv"
	"strings"

	"shopviet-be/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productHandler struct {
	products   product.Service
	production bool
}

func (h *productHandler) list(c *gin.Context) {
	filter := product.ListFilter{ActiveOnly: true}
	filter.Limit, filter.Page = pagination(c)

	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			catID := uint(id)
			filter.CategoryID = &catID
		}
	}
	if s := strings.TrimSpace(c.Query("search")); s != "" {
		filter.Search = &s
	}
	if b := strings.TrimSpace(c.Query("brand")); b != "" {
		filter.Brand = &b
	}
	if raw := c.Query("min_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &d
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &d
		}
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		filter.Featured = &featured
	}
	filter.SortBy = c.Query("sort_by")
	filter.SortDesc = c.Query("sort_dir") != "asc"

	items, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{
		"products": items,
		"meta":     Meta{Total: total, Page: filter.Page, Limit: filter.Limit},
	})
}

// get resolves the path segment as a numeric id first, then as a slug.
func (h *productHandler) get(c *gin.Context) {
	raw := c.Param("id")
	if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
		p, err := h.products.Get(c.Request.Context(), uint(id))
		if err != nil {
			respondError(c, err, h.production)
			return
		}
		respondOK(c, "", p)
		return
	}

	p, err := h.products.GetBySlug(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", p)
}

func (h *productHandler) create(c *gin.Context) {
	var input product.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondCreated(c, "Tạo sản phẩm thành công", p)
}

func (h *productHandler) update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input product.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.products.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật sản phẩm thành công", p)
}

func (h *productHandler) delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã ẩn sản phẩm", nil)
}

func (h *productHandler) setStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Quantity int `json:"quantity" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.products.SetStock(c.Request.Context(), id, input.Quantity)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật tồn kho thành công", p)
}
