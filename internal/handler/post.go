package handler

import (
	"errors"
	"net/http"
	"strconv"

	"modqueue/internal/middleware"
	"modqueue/internal/models"
	"modqueue/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PostHandler serves post submission and moderation.
type PostHandler struct {
	DB *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{DB: db}
}

type createPostReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreatePost submits a new post; it starts in PENDING.
func (h *PostHandler) CreatePost(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		util.Unauthenticated(c)
		return
	}

	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Title and content are required")
		return
	}

	post := models.Post{
		Title:   req.Title,
		Content: req.Content,
		Status:  models.PostPending,
		UserID:  p.UserID,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// MyPosts lists the principal's own posts, newest first, with an
// optional status filter and page/limit pagination.
func (h *PostHandler) MyPosts(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		util.Unauthenticated(c)
		return
	}

	query := h.DB.Where("user_id = ?", p.UserID)
	if status := c.Query("status"); status != "" {
		if !models.PostStatus(status).Valid() {
			util.Message(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	offset, limit := util.Pagination(c)

	var posts []models.Post
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

// adminPost is a Post with its author attached for moderation views.
type adminPost struct {
	models.Post
	Author gin.H `json:"author"`
}

// AllPosts lists every post with its author, for the moderation queue.
func (h *PostHandler) AllPosts(c *gin.Context) {
	query := h.DB.Model(&models.Post{})
	if status := c.Query("status"); status != "" {
		if !models.PostStatus(status).Valid() {
			util.Message(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	offset, limit := util.Pagination(c)

	var posts []models.Post
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	out := make([]adminPost, 0, len(posts))
	for _, post := range posts {
		out = append(out, adminPost{
			Post: post,
			Author: gin.H{
				"id":    post.User.ID,
				"email": post.User.Email,
			},
		})
	}

	c.JSON(http.StatusOK, out)
}

// ApprovePost marks a post APPROVED and clears any rejection reason.
func (h *PostHandler) ApprovePost(c *gin.Context) {
	post, ok := h.findPost(c)
	if !ok {
		return
	}

	if err := h.DB.Model(post).Updates(map[string]interface{}{
		"status":           models.PostApproved,
		"rejection_reason": nil,
	}).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to approve post")
		return
	}
	post.Status = models.PostApproved
	post.RejectionReason = nil

	c.JSON(http.StatusOK, post)
}

type rejectPostReq struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectPost marks a post REJECTED with a mandatory reason.
func (h *PostHandler) RejectPost(c *gin.Context) {
	var req rejectPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Reason is required")
		return
	}

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	if err := h.DB.Model(post).Updates(map[string]interface{}{
		"status":           models.PostRejected,
		"rejection_reason": req.Reason,
	}).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to reject post")
		return
	}
	post.Status = models.PostRejected
	post.RejectionReason = &req.Reason

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) findPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid post id")
		return nil, false
	}

	var post models.Post
	if err := h.DB.First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Message(c, http.StatusNotFound, "Post not found")
		} else {
			util.Message(c, http.StatusInternalServerError, "Failed to look up post")
		}
		return nil, false
	}
	return &post, true
}
