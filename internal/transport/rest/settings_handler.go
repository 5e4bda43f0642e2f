package rest

import (
	"shopviet-be/internal/settings"

	"github.com/gin-gonic/gin"
)

type settingsHandler struct {
	settings   settings.Service
	production bool
}

// publicCategories are the setting groups safe to expose without auth.
var publicCategories = []settings.Category{
	settings.CategoryStore,
	settings.CategoryShipping,
}

func (h *settingsHandler) listPublic(c *gin.Context) {
	out := make([]*settings.Setting, 0)
	for _, cat := range publicCategories {
		cat := cat
		items, err := h.settings.All(c.Request.Context(), &cat)
		if err != nil {
			respondError(c, err, h.production)
			return
		}
		out = append(out, items...)
	}
	respondOK(c, "", out)
}

func (h *settingsHandler) listAdmin(c *gin.Context) {
	var category *settings.Category
	if raw := c.Query("category"); raw != "" {
		cat := settings.Category(raw)
		category = &cat
	}

	items, err := h.settings.All(c.Request.Context(), category)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", items)
}

func (h *settingsHandler) update(c *gin.Context) {
	key := c.Param("key")
	var input struct {
		Value       any     `json:"value" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	s, err := h.settings.Update(c.Request.Context(), key, input.Value, input.Description)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật cài đặt thành công", s)
}

func (h *settingsHandler) updateBulk(c *gin.Context) {
	var input struct {
		Updates map[string]any `json:"updates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	n, err := h.settings.UpdateBulk(c.Request.Context(), input.Updates)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật cài đặt thành công", gin.H{"updated": n})
}

func (h *settingsHandler) create(c *gin.Context) {
	var input struct {
		Key         string  `json:"key" binding:"required"`
		Value       any     `json:"value" binding:"required"`
		DataType    string  `json:"data_type" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	s, err := h.settings.Create(c.Request.Context(), input.Key, input.Value,
		settings.DataType(input.DataType), settings.Category(input.Category), input.Description)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondCreated(c, "Tạo cài đặt thành công", s)
}

func (h *settingsHandler) delete(c *gin.Context) {
	if err := h.settings.Delete(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã xóa cài đặt", nil)
}
