package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ultratile/ultratile/internal/layout"
)

func summarizePanes(panes []layout.Pane) string {
	if len(panes) == 0 {
		return "no panes"
	}

	minW, minH := panes[0].Width, panes[0].Height
	maxW, maxH := minW, minH
	pinned := 0
	for _, p := range panes {
		minW, maxW = min(minW, p.Width), max(maxW, p.Width)
		minH, maxH = min(minH, p.Height), max(maxH, p.Height)
		if p.AlwaysOnTop {
			pinned++
		}
	}

	var sb strings.Builder
	if minW == maxW && minH == maxH {
		fmt.Fprintf(&sb, "%d panes • %d×%d px each", len(panes), minW, minH)
	} else {
		fmt.Fprintf(&sb, "%d panes • min %d×%d • max %d×%d", len(panes), minW, minH, maxW, maxH)
	}
	if pinned > 0 {
		fmt.Fprintf(&sb, " • %d pinned", pinned)
	}
	return sb.String()
}

// renderASCIIPreview draws the generated panes on a character canvas scaled
// down from the simulated screen. Pinned panes carry a * after their number.
func renderASCIIPreview(panes []layout.Pane, screen layout.Screen, width, height int) []string {
	if len(panes) == 0 || screen.W < 1 || screen.H < 1 || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	blank := []rune(strings.Repeat(" ", width))
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = slices.Clone(blank)
	}

	// Shade the taskbar band first so panes that overlay it draw on top of
	// it and panes that dock against it visibly stop short.
	taskbarTop := screen.Usable() * height / screen.H
	for y := taskbarTop; y < height-1; y++ {
		if y < 1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			canvas[y][x] = '░'
		}
	}

	for i, p := range panes {
		label := fmt.Sprintf("%d", i+1)
		if p.AlwaysOnTop {
			label += "*"
		}
		drawPane(canvas, p, label, screen, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawPane(canvas [][]rune, p layout.Pane, label string, screen layout.Screen, canvasW, canvasH int) {
	// Map pane pixels to canvas cells
	x1 := p.X * canvasW / screen.W
	y1 := p.Y * canvasH / screen.H
	x2 := (p.X + p.Width) * canvasW / screen.W
	y2 := (p.Y + p.Height) * canvasH / screen.H

	// Clamp inside the outer border
	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for a pane
	if x2 <= x1 || y2 <= y1 {
		return
	}

	// Clear the interior so the taskbar shading does not bleed through
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}

	// Pane border
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Label in the center, unless the pane is too thin to hold one
	cy, cx := (y1+y2)/2, (x1+x2)/2
	if cy == y1 || cy == y2 || cx == x1 || cx == x2 {
		return
	}
	start := cx - len(label)/2
	for i, r := range label {
		if x := start + i; x > x1 && x < x2 {
			canvas[cy][x] = r
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	if width < 2 || height < 2 {
		return
	}
	fill := strings.Repeat("═", width-2)
	copy(canvas[0], []rune("╔"+fill+"╗"))
	copy(canvas[height-1], []rune("╚"+fill+"╝"))
	for y := 1; y < height-1; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
}

func emptyCanvas(width, height int) []string {
	row := strings.Repeat(" ", max(width, 0))
	lines := make([]string, max(height, 0))
	for i := range lines {
		lines[i] = row
	}
	return lines
}
