package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayakatsir/web-development-assignments/internal/application"
	"github.com/mayakatsir/web-development-assignments/pkg/response"
	"github.com/mayakatsir/web-development-assignments/pkg/validation"
)

// AuthHandler exposes register, login, refresh-token and logout.
// Binding failures answer with the flow's own message; the service repeats
// the presence checks for callers that bypass HTTP.
type AuthHandler struct {
	Svc *application.AuthService
}

func NewAuthHandler(svc *application.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgRegisterMissing, validation.ToDetails(err))
		return
	}
	pair, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status := http.StatusBadRequest
		if application.KindOf(err) == application.KindInternal {
			status = http.StatusUnauthorized
		}
		response.Error(c, status, application.MessageOf(err, application.MsgRegistrationFailed), nil)
		return
	}
	response.OK(c, pair)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgLoginMissing, validation.ToDetails(err))
		return
	}
	pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, http.StatusBadRequest, application.MessageOf(err, application.MsgLoginFailed), nil)
		return
	}
	response.OK(c, pair)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgRefreshRequired, validation.ToDetails(err))
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, http.StatusBadRequest, application.MessageOf(err, application.MsgInvalidRefresh), nil)
		return
	}
	response.OK(c, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgRefreshRequired, validation.ToDetails(err))
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, http.StatusBadRequest, application.MessageOf(err, application.MsgInvalidRefresh), nil)
		return
	}
	response.Message(c, http.StatusOK, application.MsgLoggedOut)
}
