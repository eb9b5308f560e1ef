package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type FollowerController struct {
	fc FollowerUseCase
	sc FollowStateUseCase
}

func NewFollowerController(fc FollowerUseCase, sc FollowStateUseCase) *FollowerController {
	return &FollowerController{fc: fc, sc: sc}
}

func (ctl *FollowerController) Follow(c *gin.Context) {
	var req struct {
		FollowedID string `json:"followed_id" binding:"required"`
	}

	// اعتبارسنجی JSON ورودی
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, userName, ok := currentUser(c)
	if !ok {
		return
	}

	if err := ctl.sc.PerformFollow(c.Request.Context(), userID, userName, req.FollowedID); err != nil {
		writeError(c, err, "could not follow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "successfully followed user"})
}

func (ctl *FollowerController) Unfollow(c *gin.Context) {
	var req struct {
		UnfollowedID string `json:"unfollowed_id" binding:"required"`
	}

	// اعتبارسنجی JSON ورودی
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, userName, ok := currentUser(c)
	if !ok {
		return
	}

	if err := ctl.sc.PerformUnfollow(c.Request.Context(), userID, userName, req.UnfollowedID); err != nil {
		writeError(c, err, "could not unfollow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "successfully unfollowed user"})
}

func (ctl *FollowerController) RemoveFollower(c *gin.Context) {
	var req struct {
		FollowerID string `json:"follower_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	userID, userName, ok := currentUser(c)
	if !ok {
		return
	}

	if err := ctl.sc.PerformRemoveFollower(c.Request.Context(), userID, userName, req.FollowerID); err != nil {
		writeError(c, err, "could not remove follower")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "follower removed"})
}

func (ctl *FollowerController) GetFollowers(c *gin.Context) {
	useCache := c.Query("fresh") != "1"
	c.JSON(http.StatusOK, ctl.fc.GetFollowers(c.Request.Context(), c.Param("id"), useCache))
}

func (ctl *FollowerController) GetFollowing(c *gin.Context) {
	useCache := c.Query("fresh") != "1"
	c.JSON(http.StatusOK, ctl.fc.GetFollowing(c.Request.Context(), c.Param("id"), useCache))
}

// CheckFollowStatus وضعیت کاربر جاری نسبت به :id
func (ctl *FollowerController) CheckFollowStatus(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctl.fc.CheckFollowStatus(c.Request.Context(), userID, c.Param("id")))
}

func (ctl *FollowerController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.fc.GetUserFollowStats(c.Request.Context(), c.Param("id")))
}

func (ctl *FollowerController) GetHistory(c *gin.Context) {
	history, err := ctl.fc.GetFollowHistory(c.Request.Context(), c.Param("id"), c.Param("targetId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get follow history"})
		return
	}
	c.JSON(http.StatusOK, history)
}
