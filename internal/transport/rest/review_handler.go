package rest

import (
	"shopviet-be/internal/review"
	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type reviewHandler struct {
	reviews    review.Service
	production bool
}

func (h *reviewHandler) listByProduct(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit, page := pagination(c)

	items, total, err := h.reviews.ListByProduct(c.Request.Context(), productID, limit, page)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{
		"reviews": items,
		"meta":    Meta{Total: total, Page: page, Limit: limit},
	})
}

func (h *reviewHandler) create(c *gin.Context) {
	var input review.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	r, err := h.reviews.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondCreated(c, "Đánh giá của bạn đang chờ duyệt", r)
}

func (h *reviewHandler) listAdmin(c *gin.Context) {
	var filter review.AdminListFilter
	filter.Limit, filter.Page = pagination(c)
	if raw := c.Query("status"); raw != "" {
		st := review.Status(raw)
		filter.Status = &st
	}

	items, total, err := h.reviews.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{
		"reviews": items,
		"meta":    Meta{Total: total, Page: filter.Page, Limit: filter.Limit},
	})
}

func (h *reviewHandler) approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := h.reviews.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã duyệt đánh giá", r)
}

func (h *reviewHandler) reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := h.reviews.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã từ chối đánh giá", r)
}
