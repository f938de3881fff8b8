package tui

import (
	"strings"
	"testing"

	"github.com/ultratile/ultratile/internal/layout"
)

func TestSummarizePanes(t *testing.T) {
	tests := []struct {
		name  string
		panes []layout.Pane
		want  string
	}{
		{
			name:  "no panes",
			panes: nil,
			want:  "no panes",
		},
		{
			name: "uniform sizes",
			panes: []layout.Pane{
				{Width: 960, Height: 1080},
				{Width: 960, Height: 1080},
			},
			want: "2 panes • 960×1080 px each",
		},
		{
			name: "mixed sizes",
			panes: []layout.Pane{
				{Width: 1280, Height: 1032},
				{Width: 640, Height: 516},
			},
			want: "2 panes • min 640×516 • max 1280×1032",
		},
		{
			name: "pinned count",
			panes: []layout.Pane{
				{Width: 960, Height: 1080},
				{Width: 960, Height: 1080, AlwaysOnTop: true},
			},
			want: "2 panes • 960×1080 px each • 1 pinned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarizePanes(tt.panes); got != tt.want {
				t.Errorf("summarizePanes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderASCIIPreview(t *testing.T) {
	screen := layout.Screen{W: 1920, H: 1080, TaskbarH: layout.DefaultTaskbarHeight}
	// One pane over the top half of the usable area, so the taskbar band
	// stays visible at the bottom of the canvas.
	panes := []layout.Pane{{X: 0, Y: 0, Width: 1920, Height: 516}}

	const width, height = 40, 24
	lines := renderASCIIPreview(panes, screen, width, height)

	if len(lines) != height {
		t.Fatalf("renderASCIIPreview() returned %d lines, want %d", len(lines), height)
	}
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		grid[i] = []rune(line)
		if len(grid[i]) != width {
			t.Fatalf("line %d is %d cells wide, want %d", i, len(grid[i]), width)
		}
	}

	if grid[0][0] != '╔' || grid[0][width-1] != '╗' {
		t.Errorf("top border corners = %c %c, want ╔ ╗", grid[0][0], grid[0][width-1])
	}
	if grid[height-1][0] != '╚' || grid[height-1][width-1] != '╝' {
		t.Errorf("bottom border corners = %c %c, want ╚ ╝", grid[height-1][0], grid[height-1][width-1])
	}

	// The pane spans the full width, clamped just inside the border
	// (columns 1..38); its 516px height maps to 516*24/1080 = row 11.
	if grid[1][1] != '┌' || grid[1][38] != '┐' {
		t.Errorf("pane top corners = %c %c, want ┌ ┐", grid[1][1], grid[1][38])
	}
	if grid[11][1] != '└' || grid[11][38] != '┘' {
		t.Errorf("pane bottom corners = %c %c, want └ ┘", grid[11][1], grid[11][38])
	}

	// Label centered between rows 1 and 11
	if !strings.Contains(lines[6], "1") {
		t.Errorf("pane label missing from row 6: %q", lines[6])
	}

	// Taskbar band: usable 1032 of 1080 maps to 1032*24/1080 = row 22,
	// below the pane, so the shading survives.
	if grid[22][5] != '░' {
		t.Errorf("taskbar band missing at row 22: got %c", grid[22][5])
	}
}

func TestRenderASCIIPreviewPinnedLabel(t *testing.T) {
	screen := layout.Screen{W: 1920, H: 1080, TaskbarH: layout.DefaultTaskbarHeight}
	panes := []layout.Pane{
		{X: 0, Y: 0, Width: 960, Height: 1032},
		{X: 960, Y: 0, Width: 960, Height: 1032, AlwaysOnTop: true},
	}

	lines := renderASCIIPreview(panes, screen, 40, 24)
	joined := strings.Join(lines, "\n")

	if !strings.Contains(joined, "2*") {
		t.Errorf("pinned pane label 2* missing from canvas:\n%s", joined)
	}
	if strings.Contains(joined, "1*") {
		t.Errorf("unpinned pane must not carry a star:\n%s", joined)
	}
}

func TestRenderASCIIPreviewEmpty(t *testing.T) {
	screen := layout.Screen{W: 1920, H: 1080, TaskbarH: layout.DefaultTaskbarHeight}

	lines := renderASCIIPreview(nil, screen, 10, 4)
	if len(lines) != 4 {
		t.Fatalf("empty preview returned %d lines, want 4", len(lines))
	}
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			t.Errorf("line %d not blank: %q", i, line)
		}
		if len(line) != 10 {
			t.Errorf("line %d width = %d, want 10", i, len(line))
		}
	}

	if lines := renderASCIIPreview(nil, screen, -3, -1); len(lines) != 0 {
		t.Errorf("negative canvas returned %d lines, want 0", len(lines))
	}
}
