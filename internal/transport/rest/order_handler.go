package rest

import (
	"strings"
	"time"

	"shopviet-be/internal/order"
	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type orderHandler struct {
	orders     order.Service
	production bool
}

func (h *orderHandler) create(c *gin.Context) {
	var input order.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if input.CustomerEmail == "" {
		input.CustomerEmail = utils.GetUserEmailFromContext(ctx)
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	o, err := h.orders.Create(ctx, userID, input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondCreated(c, "Đặt hàng thành công", o)
}

func (h *orderHandler) listMine(c *gin.Context) {
	var filter order.ListFilter
	filter.Limit, filter.Page = pagination(c)
	if raw := c.Query("status"); raw != "" {
		st := order.Status(raw)
		if !order.ValidStatus(st) {
			respondBadRequest(c, "unknown order status")
			return
		}
		filter.Status = &st
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	orders, total, err := h.orders.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{
		"orders": orders,
		"meta":   Meta{Total: total, Page: filter.Page, Limit: filter.Limit},
	})
}

func (h *orderHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)
	o, err := h.orders.Get(ctx, id, userID, utils.IsAdmin(ctx))
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", o)
}

func (h *orderHandler) cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = c.ShouldBindJSON(&input)

	ctx := c.Request.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)
	o, err := h.orders.Cancel(ctx, id, userID, utils.IsAdmin(ctx), input.Reason)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã hủy đơn hàng", o)
}

func (h *orderHandler) listAdmin(c *gin.Context) {
	var filter order.AdminListFilter
	filter.Limit, filter.Page = pagination(c)

	if raw := c.Query("status"); raw != "" {
		st := order.Status(raw)
		if !order.ValidStatus(st) {
			respondBadRequest(c, "unknown order status")
			return
		}
		filter.Status = &st
	}
	if raw := c.Query("payment_status"); raw != "" {
		ps := order.PaymentStatus(raw)
		filter.PaymentStatus = &ps
	}
	if s := strings.TrimSpace(c.Query("search")); s != "" {
		filter.Search = &s
	}
	if raw := c.Query("date_from"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			filter.DateFrom = &ts
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			// Inclusive upper bound for the whole day.
			end := ts.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &end
		}
	}

	orders, total, err := h.orders.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", gin.H{
		"orders": orders,
		"meta":   Meta{Total: total, Page: filter.Page, Limit: filter.Limit},
	})
}

func (h *orderHandler) updateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	to := order.Status(input.Status)
	if !order.ValidStatus(to) {
		respondBadRequest(c, "unknown order status")
		return
	}

	ctx := c.Request.Context()
	var (
		o   *order.Order
		err error
	)
	if to == order.StatusCancelled {
		// Cancellation goes through the dedicated path so the reason is
		// recorded and stock restored.
		adminID, _ := utils.GetUserIDFromContext(ctx)
		o, err = h.orders.Cancel(ctx, id, adminID, true, input.Reason)
	} else {
		o, err = h.orders.UpdateStatus(ctx, id, to)
	}
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật trạng thái đơn hàng thành công", o)
}

func (h *orderHandler) delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã xóa đơn hàng", nil)
}

func (h *orderHandler) statistics(c *gin.Context) {
	stats, err := h.orders.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", stats)
}
