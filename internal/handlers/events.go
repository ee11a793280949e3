package handlers

import (
	"io"
	"net/http"

	"github.com/YoussoufEfkiren/ToDoList/internal/auth"
	"github.com/YoussoufEfkiren/ToDoList/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// EventsHandler streams the caller's private change channel over SSE.
type EventsHandler struct {
	rdb *redis.Client
}

func NewEventsHandler(rdb *redis.Client) *EventsHandler {
	return &EventsHandler{rdb: rdb}
}

// Stream godoc
// @Summary      Server-sent change events for the caller's tasks
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  map[string]string
// @Router       /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	// Subscription lives exactly as long as the request: client
	// disconnect cancels the context and Close tears down the channel.
	sub := h.rdb.Subscribe(c.Request.Context(), events.UserChannel(userID))
	defer sub.Close()
	ch := sub.Channel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("task", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
