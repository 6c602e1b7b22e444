package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayakatsir/web-development-assignments/internal/application"
	"github.com/mayakatsir/web-development-assignments/pkg/response"
	"github.com/mayakatsir/web-development-assignments/pkg/validation"
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,nonblank"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,nonblank"`
}

// userID returns the :id param, or writes 400 and false when it is not a valid id.
func userID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validation.IsUUID(id) {
		response.Error(c, http.StatusBadRequest, "id: "+id+" is not valid", nil)
		return "", false
	}
	return id, true
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgRegisterMissing, validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, u)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, gin.H{"users": users})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, gin.H{"user": u})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, err := h.Svc.Update(c.Request.Context(), id, application.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Successfully updated user with id: "+id)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeCRUDError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Successfully deleted user with id: "+id)
}
