package httpapi

import (
	"errors"
	"net/http"

	followerEntity "unifollow/internal/core/follower"
	userEntity "unifollow/internal/core/user"

	"github.com/gin-gonic/gin"
)

// writeError نگاشت خطاهای دامنه به کد HTTP؛ بقیه با پیام عمومی 500 می‌شوند
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, followerEntity.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, userEntity.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, userEntity.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// currentUser شناسه و نام کاربر از context که JWTAuthMiddleware پر کرده
func currentUser(c *gin.Context) (string, string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return "", "", false
	}
	return userID, c.GetString("userName"), true
}
