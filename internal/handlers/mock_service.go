package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
	"github.com/supertypo/kaspa-hashrate-app/internal/service"
	"github.com/supertypo/kaspa-hashrate-app/internal/upstream"
)

// ---- Service Mocks ----

type mockHistory struct {
	fetchResp  []models.Sample
	fetchErr   error
	windowResp []models.Sample
	windowErr  error

	fetchCalls     int
	windowCalls    int
	lastResolution upstream.Resolution
	lastWindow     models.Window
}

func (m *mockHistory) Fetch(ctx context.Context, resolution upstream.Resolution) ([]models.Sample, error) {
	m.fetchCalls++
	m.lastResolution = resolution
	return m.fetchResp, m.fetchErr
}

func (m *mockHistory) FetchWindow(ctx context.Context, window models.Window) ([]models.Sample, error) {
	m.windowCalls++
	m.lastWindow = window
	return m.windowResp, m.windowErr
}

type mockWidget struct {
	refreshState models.ChartState
	state        models.ChartState
	png          []byte
	renderErr    error

	refreshCalls int
	lastWindow   models.Window
	lastScale    string
}

func (m *mockWidget) Refresh(ctx context.Context, window models.Window, scale string) models.ChartState {
	m.refreshCalls++
	m.lastWindow = window
	m.lastScale = scale
	return m.refreshState
}

func (m *mockWidget) State() models.ChartState {
	return m.state
}

func (m *mockWidget) RenderPNG() ([]byte, error) {
	return m.png, m.renderErr
}

type mockNavigator struct {
	selection models.SelectedRange
	dragState service.DragState
	startPct  float64
	endPct    float64
	window    models.Window

	pressOK      bool
	releaseRet   bool
	clickRet     bool
	pressCalls   int
	moveCalls    int
	releaseCalls int
	clickCalls   int
	resizeCalls  int
	lastHandle   service.Handle
	lastX        float64
	lastWidth    float64
	lastFirst    time.Time
	lastLast     time.Time
}

func (m *mockNavigator) SetDataset(first, last time.Time) {
	m.lastFirst = first
	m.lastLast = last
}
func (m *mockNavigator) Resize(width float64) {
	m.resizeCalls++
	m.lastWidth = width
}
func (m *mockNavigator) PressHandle(handle service.Handle) bool {
	m.pressCalls++
	m.lastHandle = handle
	return m.pressOK
}
func (m *mockNavigator) Move(x float64) {
	m.moveCalls++
	m.lastX = x
}
func (m *mockNavigator) Release() bool {
	m.releaseCalls++
	return m.releaseRet
}
func (m *mockNavigator) Click(x float64) bool {
	m.clickCalls++
	m.lastX = x
	return m.clickRet
}
func (m *mockNavigator) Selection() models.SelectedRange      { return m.selection }
func (m *mockNavigator) DragState() service.DragState         { return m.dragState }
func (m *mockNavigator) HandlePositions() (float64, float64)  { return m.startPct, m.endPct }
func (m *mockNavigator) Window() models.Window                { return m.window }
func (m *mockNavigator) SetOnChange(fn func(w models.Window)) {}

// newTestRouter builds a router over the given service aggregate with
// logging disabled.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}
