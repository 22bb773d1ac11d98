package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-sync/internal/state"
	"github.com/noah-isme/schedule-sync/internal/store"
	"github.com/noah-isme/schedule-sync/pkg/response"
)

// StateHandler exposes the aggregate snapshot.
type StateHandler struct {
	*Bridge
}

// NewStateHandler builds a StateHandler.
func NewStateHandler(b *Bridge) *StateHandler {
	return &StateHandler{Bridge: b}
}

// StreamFrame is one server-sent state update.
type StreamFrame struct {
	Version uint64          `json:"version"`
	State   state.RootState `json:"state"`
}

// Get godoc
// @Summary Current state snapshot
// @Tags State
// @Produce json
// @Param wait query bool false "Wait until no workflow is running"
// @Success 200 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /state [get]
func (h *StateHandler) Get(c *gin.Context) {
	settled := false
	if wantsWait(c) {
		if err := h.settle(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
		settled = true
	}
	snapshot, version := h.store.Snapshot()
	response.JSON(c, http.StatusOK, snapshot, h.meta(c, version, settled))
}

// Stream godoc
// @Summary Stream state snapshots
// @Description Server-sent events. The current snapshot is sent first; later updates are coalesced so a slow client only sees the newest state.
// @Tags State
// @Produce text/event-stream
// @Success 200 {object} StreamFrame
// @Router /state/stream [get]
func (h *StateHandler) Stream(c *gin.Context) {
	updates := make(chan struct{}, 1)
	cancel := h.store.Subscribe(func(state.RootState, store.Event) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer cancel()

	c.Header("Cache-Control", "no-store")
	c.Header("X-Accel-Buffering", "no")

	snapshot, version := h.store.Snapshot()
	c.SSEvent("state", StreamFrame{Version: version, State: snapshot})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-updates:
			snapshot, version := h.store.Snapshot()
			c.SSEvent("state", StreamFrame{Version: version, State: snapshot})
			return true
		}
	})
}
