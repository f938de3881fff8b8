package profile

import (
	"github.com/ultratile/ultratile/internal/platform"
	"github.com/ultratile/ultratile/internal/title"
)

// Capture clamps: windows half-dragged off screen or shrunk below a usable
// size are snapped back so a saved profile is always restorable.
const (
	minPosition = -10
	minSize     = 250
)

// StyleReader is the one backend capability Capture needs.
type StyleReader interface {
	Style(id platform.WindowID) (platform.Style, error)
}

// Capture snapshots live windows into window specs. The stored key is the
// sanitized, titlecased title; the raw title is kept as the search key when
// sanitizing changed it, so matching still sees the full original form.
// Windows whose titles sanitize to nothing are skipped.
func Capture(styles StyleReader, wins []platform.Window) []WindowSpec {
	specs := make([]WindowSpec, 0, len(wins))
	for _, w := range wins {
		key := title.Titlecase(title.Sanitize(w.Title))
		if key == "" {
			continue
		}

		spec := WindowSpec{
			Name:     key,
			Titlebar: true,
		}
		if title.Normalize(w.Title) != title.Normalize(key) {
			spec.SearchTitle = w.Title
		}

		spec.X = clampMin(w.Bounds.X, minPosition)
		spec.Y = clampMin(w.Bounds.Y, minPosition)
		spec.Width = clampMin(w.Bounds.Width, minSize)
		spec.Height = clampMin(w.Bounds.Height, minSize)

		if st, err := styles.Style(w.ID); err == nil {
			spec.AlwaysOnTop = st.Topmost
			spec.Titlebar = st.Titlebar
		}

		specs = append(specs, spec)
	}
	return specs
}

func clampMin(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
