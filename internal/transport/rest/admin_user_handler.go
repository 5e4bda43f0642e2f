package rest

import (
	"strings"

	"shopviet-be/internal/user"
	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type adminUserHandler struct {
	users      user.Service
	production bool
}

func (h *adminUserHandler) list(c *gin.Context) {
	var filter user.AdminListFilter
	filter.Limit, filter.Page = pagination(c)

	if raw := c.Query("role"); raw != "" && raw != "all" {
		if raw != user.RoleUser && raw != user.RoleAdmin {
			respondBadRequest(c, "unknown role")
			return
		}
		filter.Role = &raw
	}
	switch c.Query("status") {
	case "":
	case "active":
		active := true
		filter.Active = &active
	case "blocked":
		active := false
		filter.Active = &active
	default:
		respondBadRequest(c, "unknown status")
		return
	}
	if s := strings.TrimSpace(c.Query("search")); s != "" {
		filter.Search = utils.StrPtr(s)
	}

	users, total, err := h.users.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{
		"users": users,
		"meta":  Meta{Total: total, Page: filter.Page, Limit: filter.Limit},
	})
}

func (h *adminUserHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", u)
}

func (h *adminUserHandler) updateRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	actorID, _ := utils.GetUserIDFromContext(ctx)
	u, err := h.users.UpdateRole(ctx, actorID, id, input.Role)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật quyền thành công", u)
}

func (h *adminUserHandler) updateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Status string `json:"status" binding:"required,oneof=active blocked"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	actorID, _ := utils.GetUserIDFromContext(ctx)
	u, err := h.users.SetActive(ctx, actorID, id, input.Status == "active")
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật trạng thái thành công", u)
}

func (h *adminUserHandler) delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	actorID, _ := utils.GetUserIDFromContext(ctx)
	if err := h.users.Delete(ctx, actorID, id); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã xóa người dùng", nil)
}
