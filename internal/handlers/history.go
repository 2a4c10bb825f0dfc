package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
	"github.com/supertypo/kaspa-hashrate-app/internal/service"
)

const (
	statusOK = "ok"

	errRangeInvalid    = "unknown range preset"
	errStartInvalid    = "invalid 'start' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'"
	errEndInvalid      = "invalid 'end' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'"
	errStartAfterEnd   = "'start' must be <= 'end'"
	errUpstreamFailed  = "failed to fetch hashrate history"
	errNoSamplesInWin  = "no samples in the selected window"
	errRenderFailed    = "failed to render chart"
	errScaleInvalid    = "invalid 'scale'; use linear or log"
	errInvalidBodyPref = "invalid body: "

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// isDateOnly reports whether the query string has no time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2024-03-01T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}

// windowFromQuery resolves ?range=<preset> or ?start/?end into a window.
// Date-only 'end' is treated as end-of-day inclusive. Writes the error
// response itself and reports ok=false on failure.
func (h *Handler) windowFromQuery(c *gin.Context, now time.Time) (models.Window, bool) {
	if preset := c.Query("range"); preset != "" {
		window, err := service.ResolveWindow(preset, now)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errRangeInvalid})
			return models.Window{}, false
		}
		return window, true
	}

	var window models.Window
	if qs := c.Query("start"); qs != "" {
		start, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errStartInvalid})
			return models.Window{}, false
		}
		window.Start = start
	}
	if qs := c.Query("end"); qs != "" {
		end, err := parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errEndInvalid})
			return models.Window{}, false
		}
		if isDateOnly(qs) {
			end = end.Add(24*time.Hour - time.Nanosecond).UTC()
		}
		window.End = end
	}
	if window.Start.IsZero() && window.End.IsZero() {
		// no parameters: the whole dataset
		window.Start = time.Unix(0, 0).UTC()
		return window, true
	}
	if !window.Start.IsZero() && !window.End.IsZero() && window.Start.After(window.End) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errStartAfterEnd})
		return models.Window{}, false
	}
	return window, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get hashrate samples
// @Description  Returns samples for a named preset (24h,7d,30d,3m,6m,1y,2y,3y,all) or an explicit start/end window.
// @Tags         hashrate
// @Produce      json
// @Param        range  query  string  false  "Range preset"  Enums(24h,7d,30d,3m,6m,1y,2y,3y,all)
// @Param        start  query  string  false  "Window start (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        end    query  string  false  "Window end; date-only treated as end of day"
// @Success      200  {object}  map[string]interface{}  "count, samples"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/hashrate [get]
func (h *Handler) getHashrate(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	window, ok := h.windowFromQuery(c, now)
	if !ok {
		return
	}

	samples, err := h.services.History.FetchWindow(ctx, window)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errUpstreamFailed, "hashrate_fetch_failed", err,
			"start", window.Start, "end", window.End)
		return
	}
	if len(samples) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoSamplesInWin})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(samples),
		"samples": samples,
	})
}

// @Summary      Render the hashrate chart
// @Description  Refreshes the chart for the requested window and streams it as PNG.
// @Tags         hashrate
// @Produce      png
// @Param        range  query  string  false  "Range preset"  Enums(24h,7d,30d,3m,6m,1y,2y,3y,all)
// @Param        start  query  string  false  "Window start"
// @Param        end    query  string  false  "Window end"
// @Param        scale  query  string  false  "Y-axis scale"  Enums(linear,log)
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/hashrate/chart.png [get]
func (h *Handler) getChart(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	scale := c.DefaultQuery("scale", models.ScaleLinear)
	if !service.ValidScale(scale) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errScaleInvalid})
		return
	}

	window, ok := h.windowFromQuery(c, now)
	if !ok {
		return
	}

	state := h.services.Widget.Refresh(ctx, window, scale)
	if state.Status == models.StatusError {
		c.JSON(http.StatusBadGateway, gin.H{"error": state.Message})
		return
	}

	png, err := h.services.Widget.RenderPNG()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRenderFailed, "chart_render_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
