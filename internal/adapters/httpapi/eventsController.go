package httpapi

import (
	"io"

	"unifollow/internal/core/followstate"

	"github.com/gin-gonic/gin"
)

const eventBufferSize = 16

type EventsController struct{ sc FollowStateUseCase }

func NewEventsController(sc FollowStateUseCase) *EventsController {
	return &EventsController{sc: sc}
}

// StreamUserEvents رویدادهای یک کاربر به صورت SSE. ارسال غیرمسدود است و
// کلاینت کند رویدادها را از دست می‌دهد
func (ctl *EventsController) StreamUserEvents(c *gin.Context) {
	events := make(chan followstate.UserEvent, eventBufferSize)
	unsubscribe := ctl.sc.SubscribeToUser(c.Param("id"), func(e followstate.UserEvent) {
		select {
		case events <- e:
		default:
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", gin.H{"userId": c.Param("id")})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e := <-events:
			c.SSEvent(string(e.Action), e)
			return true
		}
	})
}
