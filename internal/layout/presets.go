package layout

// MaxWindows is the largest window count a preset family exists for.
const MaxWindows = 4

// DefaultTaskbarHeight is the reserved band at the bottom of the screen.
// Panes that dock against the taskbar stop above it; panes that overlay it
// span the full screen height.
const DefaultTaskbarHeight = 48

// Anchor places the aspect-shaped pane of a one- or two-window preset.
type Anchor string

const (
	// AnchorFull is the ultrawide full-bleed form: the pane starts at x=0
	// and its aspect width covers the whole screen on the monitor class the
	// preset is shaped for.
	AnchorFull        Anchor = "X"
	AnchorLeft        Anchor = "L"
	AnchorCenter      Anchor = "C"
	AnchorRight       Anchor = "R"
	AnchorCenterLeft  Anchor = "CL"
	AnchorCenterRight Anchor = "CR"
)

// AspectPreset shapes one pane to aspectW:aspectH at full screen height and
// anchors it. Used by the one- and two-window families.
type AspectPreset struct {
	AspectW int
	AspectH int
	Anchor  Anchor
}

// SplitPreset is a three-window recipe: the center pane is shaped to
// AspectW:AspectH at full screen height, and the leftover width goes to the
// side panes, WeightNum/WeightDen of it to the left one.
type SplitPreset struct {
	AspectW   int
	AspectH   int
	WeightNum int
	WeightDen int
}

// quarterRect is a four-window pane in quarter units: x and w scale the
// screen width, y and h scale the usable height. Every four-window preset
// is expressible on a quarter grid.
type quarterRect struct {
	x, y, w, h int
}

var onePresets = []AspectPreset{
	{32, 9, AnchorFull},
	{21, 9, AnchorCenter},
	{16, 9, AnchorCenter},
	{4, 3, AnchorCenter},

	{21, 9, AnchorLeft},
	{16, 9, AnchorLeft},
	{4, 3, AnchorLeft},

	{21, 9, AnchorRight},
	{16, 9, AnchorRight},
	{4, 3, AnchorRight},
}

var twoPresets = []AspectPreset{
	{21, 9, AnchorRight},
	{16, 9, AnchorRight},
	{4, 3, AnchorRight},

	{21, 9, AnchorLeft},
	{16, 9, AnchorLeft},
	{4, 3, AnchorLeft},

	{21, 9, AnchorCenterLeft},
	{16, 9, AnchorCenterLeft},
	{4, 3, AnchorCenterLeft},

	{21, 9, AnchorCenterRight},
	{16, 9, AnchorCenterRight},
	{4, 3, AnchorCenterRight},
}

var threePresets = []SplitPreset{
	{21, 9, 1, 2},
	{16, 9, 1, 2},
	{4, 3, 1, 2},

	{21, 9, 2, 3},
	{16, 9, 2, 3},
	{4, 3, 2, 3},

	{21, 9, 3, 5},
	{16, 9, 3, 5},
	{4, 3, 3, 5},

	{21, 9, 2, 5},
	{16, 9, 2, 5},
	{4, 3, 2, 5},
}

var fourPresets = [][]quarterRect{
	// four equal columns
	{{0, 0, 1, 4}, {1, 0, 1, 4}, {2, 0, 1, 4}, {3, 0, 1, 4}},

	// stacked halves on the left, two columns on the right
	{{0, 0, 2, 2}, {0, 2, 2, 2}, {2, 0, 1, 4}, {3, 0, 1, 4}},

	// two columns on the left, stacked halves on the right
	{{0, 0, 1, 4}, {1, 0, 1, 4}, {2, 0, 2, 2}, {2, 2, 2, 2}},

	// 2x2 grid
	{{0, 0, 2, 2}, {2, 0, 2, 2}, {0, 2, 2, 2}, {2, 2, 2, 2}},
}

// PresetCount returns how many presets exist for a window count, or 0 for
// counts outside 1..MaxWindows.
func PresetCount(count int) int {
	switch count {
	case 1:
		return len(onePresets)
	case 2:
		return len(twoPresets)
	case 3:
		return len(threePresets)
	case 4:
		return len(fourPresets)
	default:
		return 0
	}
}
