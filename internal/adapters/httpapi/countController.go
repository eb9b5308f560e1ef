package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CountController struct {
	cc FollowCountUseCase
	sc FollowStateUseCase
}

func NewCountController(cc FollowCountUseCase, sc FollowStateUseCase) *CountController {
	return &CountController{cc: cc, sc: sc}
}

// Verify شمارش مستقل از روی تاریخچه و اصلاح در صورت اختلاف
func (ctl *CountController) Verify(c *gin.Context) {
	stats, err := ctl.sc.VerifyAndFixFollowerCounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "could not verify counts")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Sync بازنویسی شمارنده‌ها از روی آرایه‌ها
func (ctl *CountController) Sync(c *gin.Context) {
	counts, err := ctl.cc.SyncUserFollowCounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "could not sync counts")
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (ctl *CountController) Audit(c *gin.Context) {
	result, err := ctl.cc.AuditAndFixAllUserCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
