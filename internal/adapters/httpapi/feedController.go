package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FeedController struct {
	nc NotificationUseCase
	ac ActivityUseCase
}

func NewFeedController(nc NotificationUseCase, ac ActivityUseCase) *FeedController {
	return &FeedController{nc: nc, ac: ac}
}

// ListNotifications صندوق اعلان کاربر جاری، جدیدترین اول
func (ctl *FeedController) ListNotifications(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	start, err := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
	if err != nil || start < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	notifications, err := ctl.nc.ListNotifications(c.Request.Context(), userID, start, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// ListActivities فعالیت‌های خصوصی فقط برای خود کاربر برگردانده می‌شوند
func (ctl *FeedController) ListActivities(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	target := c.Param("id")
	activities, err := ctl.ac.ListByUser(c.Request.Context(), target, target == userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get activities"})
		return
	}
	c.JSON(http.StatusOK, activities)
}
