package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"modqueue/internal/models"
	"modqueue/internal/token"
	"modqueue/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InactivityLimit is the session's sliding idle window. A session whose
// last activity is older than this is rejected even if the presented
// token has not expired yet; the session is the authority.
const InactivityLimit = 5 * time.Minute

// RefreshHeader carries the rotated token back to the client on every
// successful authenticated request. Clients must persist it and use it
// for the next call.
const RefreshHeader = "x-refresh-token"

const principalKey = "principal"

// Principal is the authenticated identity forwarded to handlers.
type Principal struct {
	UserID    uint
	Email     string
	Role      models.Role
	SessionID string
}

// CurrentPrincipal returns the principal stored by Auth.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}

// Auth verifies the bearer token, enforces session validity and the
// inactivity window, touches the session and rotates the token.
func Auth(jwtSecret, jwtIssuer string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			util.Unauthenticated(c)
			return
		}

		claims, err := token.Parse(jwtSecret, tokenStr)
		if err != nil {
			util.Unauthenticated(c)
			return
		}

		var session models.Session
		if err := db.First(&session, "id = ?", claims.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Unauthenticated(c)
			} else {
				c.AbortWithStatus(http.StatusInternalServerError)
			}
			return
		}
		if !session.IsValid {
			util.Unauthenticated(c)
			return
		}

		now := time.Now()
		if now.Sub(session.LastActivity) > InactivityLimit {
			util.Unauthenticated(c)
			return
		}

		// extend the sliding window
		if err := db.Model(&session).Update("last_activity", now).Error; err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		// older tokens were issued without the email claim
		email := claims.Email
		if email == "" {
			var user models.User
			if err := db.Select("email").First(&user, claims.UserID).Error; err == nil {
				email = user.Email
			}
		}

		refreshed, err := token.Generate(jwtSecret, jwtIssuer, claims.UserID, email, claims.Role, session.ID)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Header(RefreshHeader, refreshed)

		c.Set(principalKey, &Principal{
			UserID:    claims.UserID,
			Email:     email,
			Role:      claims.Role,
			SessionID: session.ID,
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
