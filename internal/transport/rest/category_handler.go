package rest

import (
	"shopviet-be/internal/category"

	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categories category.Service
	production bool
}

func (h *categoryHandler) list(c *gin.Context) {
	activeOnly := c.Query("include_inactive") != "true"
	items, err := h.categories.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", items)
}

func (h *categoryHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", cat)
}

func (h *categoryHandler) create(c *gin.Context) {
	var input category.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondCreated(c, "Tạo danh mục thành công", cat)
}

func (h *categoryHandler) update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input category.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	cat, err := h.categories.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật danh mục thành công", cat)
}

func (h *categoryHandler) delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Xóa danh mục thành công", nil)
}
