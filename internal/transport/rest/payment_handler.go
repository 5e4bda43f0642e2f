package rest

import (
	"errors"
	"fmt"
	"net/http"

	"shopviet-be/internal/order"
	"shopviet-be/internal/payment"
	"shopviet-be/internal/utils"
	"shopviet-be/internal/vnpay"

	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	payments    payment.Service
	frontendURL string
	production  bool
}

func (h *paymentHandler) create(c *gin.Context) {
	var input payment.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	res, err := h.payments.Create(c.Request.Context(), userID, input, c.ClientIP())
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Tạo liên kết thanh toán thành công", res)
}

// returnURL handles the browser leg of the gateway flow. The outcome
// is communicated by redirecting to the storefront result pages, never
// by JSON, since the user agent is mid-navigation.
func (h *paymentHandler) returnURL(c *gin.Context) {
	res, err := h.payments.Reconcile(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.Redirect(http.StatusFound, h.frontendURL+"/payment/failure")
		return
	}

	if res.Success {
		c.Redirect(http.StatusFound, fmt.Sprintf(
			"%s/payment/success?orderNumber=%s", h.frontendURL, res.OrderNumber))
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf(
		"%s/payment/failure?orderNumber=%s&code=%s", h.frontendURL, res.OrderNumber, res.ResponseCode))
}

// callback is the server-to-server IPN leg. The gateway expects its
// own response contract, so this endpoint answers with RspCode rather
// than the regular envelope.
func (h *paymentHandler) callback(c *gin.Context) {
	_, err := h.payments.Reconcile(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrBadSignature):
			c.JSON(http.StatusOK, gin.H{"RspCode": "97", "Message": "Invalid Checksum"})
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusOK, gin.H{"RspCode": "01", "Message": "Order Not Found"})
		case errors.Is(err, payment.ErrReplayedCallback):
			c.JSON(http.StatusOK, gin.H{"RspCode": "02", "Message": "Order Already Confirmed"})
		default:
			c.JSON(http.StatusOK, gin.H{"RspCode": "99", "Message": "Unknown Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"RspCode": "00", "Message": "Confirm Success"})
}

func (h *paymentHandler) banks(c *gin.Context) {
	respondOK(c, "", vnpay.SupportedBanks())
}

func (h *paymentHandler) status(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)
	view, err := h.payments.Status(ctx, orderID, userID, utils.IsAdmin(ctx))
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", view)
}

func (h *paymentHandler) refund(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	view, err := h.payments.MarkRefunded(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đã ghi nhận hoàn tiền", view)
}
