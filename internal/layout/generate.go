// Package layout computes window geometry for 1-4 windows from aspect-ratio
// preset tables. All math is exact integer arithmetic truncated toward zero
// at the last step, so results are reproducible pixel for pixel.
package layout

import "fmt"

// Screen describes the target monitor. TaskbarH pixels at the bottom are
// reserved: panes that dock against the taskbar use Usable() height, panes
// that overlay it use the full height.
type Screen struct {
	W        int
	H        int
	TaskbarH int
}

// Usable is the screen height minus the taskbar band.
func (s Screen) Usable() int { return s.H - s.TaskbarH }

// Pane is one generated window placement.
type Pane struct {
	X           int
	Y           int
	Width       int
	Height      int
	AlwaysOnTop bool
	Titlebar    bool
}

// Generate produces the geometry for count windows at the given preset
// index. Panes are ordered left to right (top to bottom within a column).
// Presets shaped for a wider monitor class are clamped to this screen, so
// no pane ever has negative size or extends past the screen edge.
func Generate(count, preset int, screen Screen) ([]Pane, error) {
	if count < 1 || count > MaxWindows {
		return nil, fmt.Errorf("unsupported window count: %d", count)
	}
	if n := PresetCount(count); preset < 0 || preset >= n {
		return nil, fmt.Errorf("preset index %d out of range for %d windows (have %d)", preset, count, n)
	}

	var panes []Pane
	switch count {
	case 1:
		panes = generateOne(onePresets[preset], screen)
	case 2:
		panes = generateTwo(twoPresets[preset], screen)
	case 3:
		panes = generateThree(threePresets[preset], screen)
	case 4:
		panes = generateFour(fourPresets[preset], screen)
	}

	for i := range panes {
		clampPane(&panes[i], screen)
	}
	return panes, nil
}

// generateOne shapes a single full-height pane. It overlays the taskbar and
// is pinned on top with no titlebar.
func generateOne(p AspectPreset, s Screen) []Pane {
	// width = screenH * aspectW/aspectH, truncated
	w := s.H * p.AspectW / p.AspectH

	var x int
	switch p.Anchor {
	case AnchorCenter:
		// x = (screenW - exactWidth) / 2, truncated on the exact value
		x = (s.W*p.AspectH - s.H*p.AspectW) / (2 * p.AspectH)
	case AnchorRight:
		x = (s.W*p.AspectH - s.H*p.AspectW) / p.AspectH
	default:
		// AnchorLeft and AnchorFull both start at the left edge.
		x = 0
	}

	return []Pane{{X: x, Y: 0, Width: w, Height: s.H, AlwaysOnTop: true, Titlebar: false}}
}

// generateTwo places an aspect-shaped pane and a filler pane. The shaped
// pane is full height, pinned, and frameless; the filler keeps its titlebar
// and, in the centered forms, docks against the taskbar.
func generateTwo(p AspectPreset, s Screen) []Pane {
	// shaped pane width = screenH * aspectW/aspectH; sN is its numerator
	// over denominator aspectH so positions can truncate on exact values.
	sN := s.H * p.AspectW
	ah := p.AspectH

	var (
		leftX, leftW, rightX, rightW int
		leftH, rightH                int
		shapedLeft                   bool
	)

	switch p.Anchor {
	case AnchorRight:
		// filler | shaped, both full height
		leftW = (s.W*ah - sN) / ah
		rightW = sN / ah
		rightX = leftW
		leftH, rightH = s.H, s.H
		shapedLeft = false
	case AnchorLeft:
		// shaped | filler, both full height
		leftW = sN / ah
		rightW = (s.W*ah - sN) / ah
		rightX = leftW
		leftH, rightH = s.H, s.H
		shapedLeft = true
	case AnchorCenterLeft:
		// filler | shaped centered on screen; right edge gap stays empty
		rightW = sN / ah
		leftW = (s.W*ah - sN) / (2 * ah)
		rightX = leftW
		leftH, rightH = s.Usable(), s.H
		shapedLeft = false
	case AnchorCenterRight:
		// shaped centered on screen | filler; left edge gap stays empty
		leftW = sN / ah
		rightW = (s.W*ah - sN) / (2 * ah)
		leftX = rightW
		rightX = (s.W*ah + sN) / (2 * ah)
		leftH, rightH = s.H, s.Usable()
		shapedLeft = true
	}

	left := Pane{X: leftX, Y: 0, Width: leftW, Height: leftH, AlwaysOnTop: shapedLeft, Titlebar: !shapedLeft}
	right := Pane{X: rightX, Y: 0, Width: rightW, Height: rightH, AlwaysOnTop: !shapedLeft, Titlebar: shapedLeft}
	return []Pane{left, right}
}

// generateThree shapes the center pane and splits the leftover width
// between the side panes by the preset weight. The center pane is full
// height, pinned, frameless; the sides dock against the taskbar.
func generateThree(p SplitPreset, s Screen) []Pane {
	// leftover width numerator over denominator aspectH
	auxN := s.W*p.AspectH - s.H*p.AspectW
	den := p.AspectH * p.WeightDen

	leftW := auxN * p.WeightNum / den
	centerW := s.H * p.AspectW / p.AspectH
	rightW := auxN * (p.WeightDen - p.WeightNum) / den

	// The center pane starts where the exact left width ends, which
	// truncates to leftW. The right edge truncates on the exact running
	// sum, not on a sum of truncated widths.
	centerX := leftW
	rightX := (auxN*p.WeightNum + s.H*p.AspectW*p.WeightDen) / den

	usable := s.Usable()
	return []Pane{
		{X: 0, Y: 0, Width: leftW, Height: usable, AlwaysOnTop: false, Titlebar: true},
		{X: centerX, Y: 0, Width: centerW, Height: s.H, AlwaysOnTop: true, Titlebar: false},
		{X: rightX, Y: 0, Width: rightW, Height: usable, AlwaysOnTop: false, Titlebar: true},
	}
}

// generateFour maps a quarter-grid recipe onto the screen. All four panes
// sit above the taskbar and keep their titlebars.
func generateFour(rects []quarterRect, s Screen) []Pane {
	usable := s.Usable()
	panes := make([]Pane, len(rects))
	for i, q := range rects {
		panes[i] = Pane{
			X:        q.x * s.W / 4,
			Y:        q.y * usable / 4,
			Width:    q.w * s.W / 4,
			Height:   q.h * usable / 4,
			Titlebar: true,
		}
	}
	return panes
}

// clampPane confines a pane to the screen. Preset math is exact for the
// monitor class a preset is shaped for; on narrower screens the raw result
// can spill over or go negative, and the clamp keeps it sane instead.
func clampPane(p *Pane, s Screen) {
	if p.Width < 0 {
		p.Width = 0
	}
	if p.Height < 0 {
		p.Height = 0
	}
	if p.Width > s.W {
		p.Width = s.W
	}
	if p.Height > s.H {
		p.Height = s.H
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.X > s.W-p.Width {
		p.X = s.W - p.Width
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > s.H-p.Height {
		p.Y = s.H - p.Height
	}
}
