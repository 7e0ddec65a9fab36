package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"modqueue/internal/mailer"
	"modqueue/internal/middleware"
	"modqueue/internal/models"
	"modqueue/internal/token"
	"modqueue/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthHandler serves login, credential setup and logout.
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	JWTIssuer string
	Mailer    mailer.Service
}

func NewAuthHandler(db *gorm.DB, jwtSecret, jwtIssuer string, m mailer.Service) *AuthHandler {
	return &AuthHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		JWTIssuer: jwtIssuer,
		Mailer:    m,
	}
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and opens a new session. A deactivated
// account answers exactly like an unknown one.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	var user models.User
	err := h.DB.Where("LOWER(email) = LOWER(?)", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Message(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			util.Message(c, http.StatusInternalServerError, "Failed to look up user")
		}
		return
	}
	if !user.IsActive {
		util.Message(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// invited but not yet set up: tell the client to redirect to
	// credential setup instead of showing a login failure
	if !user.PasswordSet || user.PasswordHash == nil {
		c.JSON(http.StatusOK, gin.H{"requiresPasswordSetup": true})
		return
	}

	if !util.CheckPassword(req.Password, *user.PasswordHash) {
		util.Message(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	session := models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		LastActivity: time.Now(),
		IsValid:      true,
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	tok, err := token.Generate(h.JWTSecret, h.JWTIssuer, user.ID, user.Email, user.Role, session.ID)
	if err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tok,
		"role":  user.Role,
	})
}

type setPasswordReq struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// SetPassword is the invitation path: an account provisioned by an
// administrator sets its first password, identified by email. Refuses
// to overwrite an already configured credential.
func (h *AuthHandler) SetPassword(c *gin.Context) {
	var req setPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if len(req.NewPassword) < util.MinPasswordLength {
		util.Message(c, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	var user models.User
	err := h.DB.Where("LOWER(email) = LOWER(?)", strings.TrimSpace(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Message(c, http.StatusNotFound, "User not found")
		} else {
			util.Message(c, http.StatusInternalServerError, "Failed to look up user")
		}
		return
	}

	if user.PasswordHash != nil {
		util.Message(c, http.StatusBadRequest, "Password already set. Please use login or reset password.")
		return
	}

	hash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if err := h.setCredential(user.ID, hash); err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to set password")
		return
	}

	// cosmetic confirmation; delivery failure must not fail the request
	if h.Mailer != nil {
		if err := h.Mailer.SendPasswordSetConfirmation(c.Request.Context(), user.Email); err != nil {
			logrus.WithError(err).WithField("email", user.Email).
				Warn("failed to send password-set confirmation")
		}
	}

	util.Message(c, http.StatusOK, "Password set successfully. You can now login.")
}

type setMyPasswordReq struct {
	Password string `json:"password" binding:"required"`
}

// SetMyPassword is the self-service path: the authenticated principal
// sets its own password.
func (h *AuthHandler) SetMyPassword(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		util.Unauthenticated(c)
		return
	}

	var req setMyPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Password is required")
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if err := h.setCredential(p.UserID, hash); err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to set password")
		return
	}

	c.Status(http.StatusNoContent)
}

// Logout invalidates the principal's session. Sessions otherwise
// expire by staleness alone.
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		util.Unauthenticated(c)
		return
	}

	if err := h.DB.Model(&models.Session{}).
		Where("id = ?", p.SessionID).
		Update("is_valid", false).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to invalidate session")
		return
	}

	c.Status(http.StatusNoContent)
}

// setCredential is the shared primitive behind both setup paths.
func (h *AuthHandler) setCredential(userID uint, hash string) error {
	return h.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"password_set":  true,
		}).Error
}
