package rest

import (
	"errors"
	"net/http"

	"shopviet-be/internal/cart"
	"shopviet-be/internal/category"
	"shopviet-be/internal/logger"
	"shopviet-be/internal/notification"
	"shopviet-be/internal/order"
	"shopviet-be/internal/payment"
	"shopviet-be/internal/product"
	"shopviet-be/internal/review"
	"shopviet-be/internal/settings"
	"shopviet-be/internal/user"
	"shopviet-be/internal/wishlist"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Meta carries pagination info for list endpoints.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

var notFoundErrs = []error{
	user.ErrUserNotFound,
	product.ErrProductNotFound,
	product.ErrVariantNotFound,
	category.ErrCategoryNotFound,
	cart.ErrCartNotFound,
	cart.ErrItemNotFound,
	order.ErrOrderNotFound,
	review.ErrReviewNotFound,
	notification.ErrNotificationNotFound,
	settings.ErrNotFound,
	wishlist.ErrItemNotFound,
	wishlist.ErrProductNotFound,
}

var forbiddenErrs = []error{
	order.ErrNotOrderOwner,
	cart.ErrItemNotOwned,
	notification.ErrNotRecipient,
	user.ErrAccountDisabled,
	user.ErrCannotModifySelf,
}

var badRequestErrs = []error{
	user.ErrEmailExists,
	user.ErrInvalidRole,
	user.ErrUserHasActiveOrders,
	wishlist.ErrProductInactive,
	product.ErrInvalidPrice,
	product.ErrInvalidStock,
	category.ErrDuplicateSlug,
	category.ErrCategoryInUse,
	cart.ErrInvalidQuantity,
	cart.ErrProductInactive,
	cart.ErrNotEnoughStock,
	order.ErrEmptyOrder,
	order.ErrProductUnavailable,
	order.ErrInsufficientStock,
	order.ErrInvalidTransition,
	order.ErrSameStatus,
	order.ErrTerminalStatus,
	order.ErrCannotCancel,
	order.ErrCannotDelete,
	order.ErrInvalidStatus,
	payment.ErrAlreadyPaid,
	payment.ErrReplayedCallback,
	payment.ErrBadSignature,
	payment.ErrNotPaid,
	payment.ErrOrderCancelled,
	review.ErrAlreadyReviewed,
	review.ErrPurchaseRequired,
	review.ErrInvalidRating,
	review.ErrAlreadyModerated,
	settings.ErrInvalidType,
	settings.ErrInvalidCategory,
	settings.ErrInvalidValue,
}

func matchAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError maps domain sentinels onto the HTTP error taxonomy.
// Unexpected errors log at error level and, in production, hide the
// underlying message.
func respondError(c *gin.Context, err error, production bool) {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: err.Error()})
	case matchAny(err, forbiddenErrs):
		c.JSON(http.StatusForbidden, Response{Success: false, Message: err.Error()})
	case matchAny(err, notFoundErrs):
		c.JSON(http.StatusNotFound, Response{Success: false, Message: err.Error()})
	case matchAny(err, badRequestErrs):
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
	default:
		logger.FromCtx(c.Request.Context()).Error("unhandled request error",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
		msg := err.Error()
		if production {
			msg = "internal server error"
		}
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: msg})
	}
}
