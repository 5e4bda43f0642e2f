package rest

import (
	"shopviet-be/internal/notification"
	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type notificationHandler struct {
	notifications notification.Service
	production    bool
}

func (h *notificationHandler) listMine(c *gin.Context) {
	limit, page := pagination(c)
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	items, total, err := h.notifications.ListMine(c.Request.Context(), userID, limit, page)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{
		"notifications": items,
		"meta":          Meta{Total: total, Page: page, Limit: limit},
	})
}

func (h *notificationHandler) markRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	if err := h.notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã đánh dấu là đã đọc", nil)
}

func (h *notificationHandler) unreadCount(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{"unread": count})
}
