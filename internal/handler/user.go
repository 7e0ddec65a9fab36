package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"modqueue/internal/mailer"
	"modqueue/internal/models"
	"modqueue/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserHandler serves admin account management.
type UserHandler struct {
	DB     *gorm.DB
	Mailer mailer.Service
}

func NewUserHandler(db *gorm.DB, m mailer.Service) *UserHandler {
	return &UserHandler{DB: db, Mailer: m}
}

type createUserReq struct {
	Email string      `json:"email" binding:"required"`
	Role  models.Role `json:"role"`
}

// CreateUser provisions an account with no credential and mails the
// invitation. The account is unusable until the password is set, so a
// failed invitation surfaces as an error to the administrator.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Email is required")
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		util.Message(c, http.StatusBadRequest, "Invalid role")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", req.Email).
		Count(&count).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if count > 0 {
		util.Message(c, http.StatusConflict, "User already exists")
		return
	}

	user := models.User{
		Email:       req.Email,
		Role:        role,
		PasswordSet: false,
		IsActive:    true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := h.Mailer.SendWelcome(c.Request.Context(), user.Email); err != nil {
		logrus.WithError(err).WithField("email", user.Email).
			Error("failed to send welcome email")
		util.Message(c, http.StatusInternalServerError, "Failed to send welcome email")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers returns all accounts, newest first.
func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeactivateUser soft-deletes an account. Accounts are never hard-deleted.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var user models.User
	if err := h.DB.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Message(c, http.StatusNotFound, "User not found")
		} else {
			util.Message(c, http.StatusInternalServerError, "Failed to look up user")
		}
		return
	}

	if err := h.DB.Model(&user).Update("is_active", false).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}
	user.IsActive = false

	c.JSON(http.StatusOK, user)
}
