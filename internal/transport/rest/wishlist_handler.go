package rest

import (
	"fmt"

	"shopviet-be/internal/utils"
	"shopviet-be/internal/wishlist"

	"github.com/gin-gonic/gin"
)

type wishlistHandler struct {
	wishlists  wishlist.Service
	production bool
}

func (h *wishlistHandler) list(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	items, err := h.wishlists.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{"items": items, "total": len(items)})
}

func (h *wishlistHandler) add(c *gin.Context) {
	var input wishlist.AddInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	id, err := h.wishlists.Add(c.Request.Context(), userID, input.ProductID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã thêm vào danh sách yêu thích", gin.H{"id": id})
}

func (h *wishlistHandler) remove(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	if err := h.wishlists.Remove(c.Request.Context(), userID, productID); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã xóa khỏi danh sách yêu thích", nil)
}

func (h *wishlistHandler) check(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	exists, err := h.wishlists.Contains(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{"is_in_wishlist": exists})
}

func (h *wishlistHandler) clear(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	count, err := h.wishlists.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, fmt.Sprintf("Đã xóa %d sản phẩm khỏi danh sách yêu thích", count), nil)
}
