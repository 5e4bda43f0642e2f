package rest

import (
	"shopviet-be/internal/cart"
	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type cartHandler struct {
	carts      cart.Service
	production bool
}

func (h *cartHandler) get(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	ct, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", ct)
}

func (h *cartHandler) addItem(c *gin.Context) {
	var input cart.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	ct, err := h.carts.AddItem(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã thêm vào giỏ hàng", ct)
}

func (h *cartHandler) updateItem(c *gin.Context) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	ct, err := h.carts.UpdateItemQuantity(c.Request.Context(), userID, itemID, input.Quantity)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã cập nhật giỏ hàng", ct)
}

func (h *cartHandler) removeItem(c *gin.Context) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	ct, err := h.carts.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã xóa khỏi giỏ hàng", ct)
}

func (h *cartHandler) clear(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	if err := h.carts.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã xóa toàn bộ giỏ hàng", nil)
}
