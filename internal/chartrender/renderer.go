package chartrender

import "github.com/supertypo/kaspa-hashrate-app/internal/models"

// Renderer is the narrow interface the core depends on; the charting
// library stays behind it.
type Renderer interface {
	Render(series []models.Sample, scaleKind string, visible models.Window) ([]byte, error)
}
