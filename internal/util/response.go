package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message writes a JSON body of the form {"message": ...}.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// Unauthenticated rejects the request with a bare 401. Authentication
// failures carry no body detail.
func Unauthenticated(c *gin.Context) {
	c.AbortWithStatus(http.StatusUnauthorized)
}

// Forbidden rejects an authenticated request whose role does not grant
// access to the route.
func Forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error":   "FORBIDDEN",
		"message": msg,
	})
}
