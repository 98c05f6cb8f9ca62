package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/events"
)

// streamEvents relays project change events to the client as Server-Sent
// Events until the client goes away or the subscription ends.
func (h *Handler) streamEvents(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := c.Param("projectId")

	p, err := h.svc.GetProject(ctx, auth.UserID(c), projectID)
	if err != nil {
		writeError(c, "stream project", err)
		return
	}

	sub, err := h.sub.Subscribe(ctx, projectID)
	if err != nil {
		if errors.Is(err, events.ErrBusDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime updates are not enabled"})
			return
		}
		writeError(c, "subscribe project events", err)
		return
	}
	defer sub.Close()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	snapshot, _ := json.Marshal(gin.H{"project": p})
	fmt.Fprintf(c.Writer, "event: project.snapshot\ndata: %s\n\n", snapshot)
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	log := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Warn("skip unencodable event", zap.Error(err))
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}
