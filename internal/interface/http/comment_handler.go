package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayakatsir/web-development-assignments/internal/application"
	"github.com/mayakatsir/web-development-assignments/pkg/response"
	"github.com/mayakatsir/web-development-assignments/pkg/validation"
)

type CommentHandler struct {
	Svc *application.CommentService
}

func NewCommentHandler(svc *application.CommentService) *CommentHandler {
	return &CommentHandler{Svc: svc}
}

type createCommentRequest struct {
	Sender  string `json:"sender" binding:"required"`
	Content string `json:"content"`
	PostID  string `json:"postID" binding:"required"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

func commentID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validation.IsUUID(id) {
		response.Error(c, http.StatusBadRequest, "Invalid comment ID: "+id, nil)
		return "", false
	}
	return id, true
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgCommentMissing, validation.ToDetails(err))
		return
	}
	if !validation.IsUUID(req.PostID) {
		response.Error(c, http.StatusBadRequest, "Invalid postID: "+req.PostID+" param", nil)
		return
	}
	cm, err := h.Svc.Create(c.Request.Context(), application.CreateCommentInput{
		PostID:  req.PostID,
		Sender:  req.Sender,
		Content: req.Content,
	})
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, cm)
}

func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, gin.H{"comments": comments})
}

func (h *CommentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !validation.IsUUID(id) {
		response.Error(c, http.StatusBadRequest, "Invalid id: "+id+" param", nil)
		return
	}
	cm, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, cm)
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID := c.Param("postId")
	if !validation.IsUUID(postID) {
		response.Error(c, http.StatusBadRequest, "Invalid postId: "+postID+" param", nil)
		return
	}
	comments, err := h.Svc.ListByPost(c.Request.Context(), postID)
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, gin.H{"comments": comments})
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := commentID(c)
	if !ok {
		return
	}
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Svc.Update(c.Request.Context(), id, req.Content)
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, cm)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := commentID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeCRUDError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Successfully deleted comment "+id)
}
