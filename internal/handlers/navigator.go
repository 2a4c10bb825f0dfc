package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/supertypo/kaspa-hashrate-app/internal/service"
	"github.com/supertypo/kaspa-hashrate-app/internal/upstream"
)

// Pointer event names accepted by the navigator endpoint.
const (
	eventPress   = "press"
	eventMove    = "move"
	eventRelease = "release"
	eventClick   = "click"
)

// pointerRequest is one abstract pointer event over the navigator track.
type pointerRequest struct {
	Event  string  `json:"event" binding:"required"` // press | move | release | click
	Handle string  `json:"handle,omitempty"`         // start | end (press only)
	X      float64 `json:"x"`                        // horizontal pixel offset within the track
}

// PointerEventRequest is an exported model for Swagger docs of the
// pointer payload.
type PointerEventRequest struct {
	// Event kind. Allowed: press, move, release, click
	Event string `json:"event" example:"press"`
	// Handle being pressed (required when event=press). Allowed: start, end
	Handle string `json:"handle,omitempty" example:"start"`
	// Horizontal pixel offset within the track
	X float64 `json:"x" example:"240"`
}

type resizeRequest struct {
	Width float64 `json:"width" binding:"required"` // track width in pixels
}

// navigatorSnapshot builds the response body shared by navigator routes.
func (h *Handler) navigatorSnapshot() gin.H {
	nav := h.services.Navigator
	startPct, endPct := nav.HandlePositions()
	return gin.H{
		"selection":  nav.Selection(),
		"drag_state": nav.DragState(),
		"window":     nav.Window(),
		"handles": gin.H{
			"start_pct": startPct,
			"end_pct":   endPct,
		},
	}
}

// @Summary      Navigator state
// @Tags         navigator
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "selection, drag_state, window, handles"
// @Router       /api/v1/navigator [get]
func (h *Handler) getNavigator(c *gin.Context) {
	c.JSON(http.StatusOK, h.navigatorSnapshot())
}

// @Summary      Send a pointer event
// @Description  Drives the navigator's drag/click state machine. press enters a drag on the given handle, move updates the dragged bound, release commits, click recenters the window.
// @Tags         navigator
// @Accept       json
// @Produce      json
// @Param        body  body  PointerEventRequest  true  "Pointer event"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/navigator/pointer [post]
func (h *Handler) postPointer(c *gin.Context) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	nav := h.services.Navigator
	var applied bool
	switch req.Event {
	case eventPress:
		handle := service.Handle(req.Handle)
		if handle != service.HandleStart && handle != service.HandleEnd {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid handle: must be start or end"})
			return
		}
		applied = nav.PressHandle(handle)
	case eventMove:
		nav.Move(req.X)
		applied = true
	case eventRelease:
		applied = nav.Release()
	case eventClick:
		applied = nav.Click(req.X)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event: must be press, move, release, or click"})
		return
	}

	resp := h.navigatorSnapshot()
	resp["applied"] = applied
	c.JSON(http.StatusOK, resp)
}

// @Summary      Set the navigator track width
// @Tags         navigator
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "width in pixels"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/navigator/resize [post]
func (h *Handler) postResize(c *gin.Context) {
	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	h.services.Navigator.Resize(req.Width)
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Reload the navigator dataset
// @Description  Re-fetches the full-resolution history and resets the selection to the whole span.
// @Tags         navigator
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/navigator/dataset [post]
func (h *Handler) postDataset(c *gin.Context) {
	ctx := c.Request.Context()

	samples, err := h.services.History.Fetch(ctx, upstream.ResolutionFull)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errUpstreamFailed, "navigator_dataset_failed", err)
		return
	}
	if len(samples) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": errNoSamplesInWin})
		return
	}

	first := samples[0].Timestamp
	last := samples[len(samples)-1].Timestamp
	h.services.Navigator.SetDataset(first, last)

	resp := h.navigatorSnapshot()
	resp["samples"] = len(samples)
	c.JSON(http.StatusOK, resp)
}
