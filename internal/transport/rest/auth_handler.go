package rest

import (
	"shopviet-be/internal/user"
	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type authHandler struct {
	users      user.Service
	production bool
}

func (h *authHandler) register(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	token, u, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondCreated(c, "Đăng ký thành công", gin.H{"token": token, "user": u})
}

func (h *authHandler) login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	token, u, err := h.users.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Đăng nhập thành công", gin.H{"token": token, "user": u})
}

func (h *authHandler) me(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "", u)
}

func (h *authHandler) updateProfile(c *gin.Context) {
	var input user.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())
	u, err := h.users.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	respondOK(c, "Cập nhật hồ sơ thành công", u)
}
