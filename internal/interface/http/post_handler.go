package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mayakatsir/web-development-assignments/internal/application"
	"github.com/mayakatsir/web-development-assignments/internal/interface/middleware"
	"github.com/mayakatsir/web-development-assignments/pkg/response"
	"github.com/mayakatsir/web-development-assignments/pkg/validation"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 100
	maxImageBytes     = 5 << 20
)

type PostHandler struct {
	Svc *application.PostService
}

func NewPostHandler(svc *application.PostService) *PostHandler {
	return &PostHandler{Svc: svc}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Sender  *string `json:"sender"`
}

func postID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validation.IsUUID(id) {
		response.Error(c, http.StatusBadRequest, "Invalid post ID: "+id, nil)
		return "", false
	}
	return id, true
}

// Create stores a new post. Without an explicit sender the caller is the author.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, application.MsgPostMissing, validation.ToDetails(err))
		return
	}
	if req.Sender == "" {
		req.Sender, _ = middleware.UserIDFromContext(c.Request.Context())
	}
	p, err := h.Svc.Create(c.Request.Context(), application.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Sender:  req.Sender,
	})
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Svc.List(c.Request.Context(), c.Query("sender"))
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, gin.H{"posts": posts})
}

func (h *PostHandler) Search(c *gin.Context) {
	size := defaultSearchSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, http.StatusBadRequest, "Invalid size: "+raw, nil)
			return
		}
		size = min(n, maxSearchSize)
	}
	posts, err := h.Svc.SearchPosts(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, gin.H{"posts": posts})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, application.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Sender:  req.Sender,
	})
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeCRUDError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Successfully deleted post "+id)
}

// UploadImage accepts a multipart "image" file and stores it as the post image.
func (h *PostHandler) UploadImage(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "image file is unreadable", nil)
		return
	}
	defer f.Close()

	p, err := h.Svc.AttachImage(c.Request.Context(), id, f, fh.Filename, fh.Header.Get("Content-Type"))
	if errors.Is(err, application.ErrImagesDisabled) {
		response.Error(c, http.StatusServiceUnavailable, "image upload is not configured", nil)
		return
	}
	if err != nil {
		writeCRUDError(c, err)
		return
	}
	response.OK(c, p)
}
