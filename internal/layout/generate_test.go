package layout

import "testing"

// Golden values below are computed for a 5120x1440 screen with a 48px
// taskbar (usable height 1392), the monitor class the preset tables are
// shaped for.
var ultrawide = Screen{W: 5120, H: 1440, TaskbarH: 48}

func TestGenerateOneWindow(t *testing.T) {
	// Preset 0 is (32:9, X): width = 1440*32/9 = 5120, full bleed.
	panes, err := Generate(1, 0, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(panes) != 1 {
		t.Fatalf("expected 1 pane, got %d", len(panes))
	}
	p := panes[0]
	if p.X != 0 || p.Y != 0 || p.Width != 5120 || p.Height != 1440 {
		t.Fatalf("expected (0,0,5120,1440), got (%d,%d,%d,%d)", p.X, p.Y, p.Width, p.Height)
	}
	if !p.AlwaysOnTop || p.Titlebar {
		t.Fatalf("single window must be pinned and frameless, got aot=%v titlebar=%v", p.AlwaysOnTop, p.Titlebar)
	}

	// Preset 1 is (21:9, C): width = 1440*21/9 = 3360, x = (5120-3360)/2 = 880.
	panes, err = Generate(1, 1, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if p := panes[0]; p.X != 880 || p.Width != 3360 || p.Height != 1440 {
		t.Fatalf("expected (880,0,3360,1440), got (%d,%d,%d,%d)", p.X, p.Y, p.Width, p.Height)
	}

	// Preset 7 is (21:9, R): x = 5120-3360 = 1760.
	panes, err = Generate(1, 7, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if p := panes[0]; p.X != 1760 || p.Width != 3360 {
		t.Fatalf("expected x=1760 w=3360, got x=%d w=%d", p.X, p.Width)
	}
}

func TestGenerateTwoWindows(t *testing.T) {
	// Preset 0 is (21:9, R): shaped pane 3360 wide flush right, filler
	// 5120-3360 = 1760 wide on the left, both full height.
	panes, err := Generate(2, 0, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(panes) != 2 {
		t.Fatalf("expected 2 panes, got %d", len(panes))
	}
	left, right := panes[0], panes[1]
	if left.X != 0 || left.Width != 1760 || left.Height != 1440 {
		t.Fatalf("left: expected (0,0,1760,1440), got (%d,%d,%d,%d)", left.X, left.Y, left.Width, left.Height)
	}
	if right.X != 1760 || right.Width != 3360 || right.Height != 1440 {
		t.Fatalf("right: expected (1760,0,3360,1440), got (%d,%d,%d,%d)", right.X, right.Y, right.Width, right.Height)
	}
	if left.AlwaysOnTop || !left.Titlebar {
		t.Fatalf("filler pane: expected aot=false titlebar=true, got aot=%v titlebar=%v", left.AlwaysOnTop, left.Titlebar)
	}
	if !right.AlwaysOnTop || right.Titlebar {
		t.Fatalf("shaped pane: expected aot=true titlebar=false, got aot=%v titlebar=%v", right.AlwaysOnTop, right.Titlebar)
	}

	// Preset 6 is (21:9, CL): shaped pane centered at x = (5120-3360)/2 =
	// 880, filler to its left at usable height.
	panes, err = Generate(2, 6, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	left, right = panes[0], panes[1]
	if left.X != 0 || left.Width != 880 || left.Height != 1392 {
		t.Fatalf("left: expected (0,0,880,1392), got (%d,%d,%d,%d)", left.X, left.Y, left.Width, left.Height)
	}
	if right.X != 880 || right.Width != 3360 || right.Height != 1440 {
		t.Fatalf("right: expected (880,0,3360,1440), got (%d,%d,%d,%d)", right.X, right.Y, right.Width, right.Height)
	}

	// Preset 9 is (21:9, CR): shaped pane centered (x=880), filler on its
	// right at x = (5120+3360)/2 = 4240, width 880, usable height.
	panes, err = Generate(2, 9, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	left, right = panes[0], panes[1]
	if left.X != 880 || left.Width != 3360 || left.Height != 1440 {
		t.Fatalf("shaped: expected (880,0,3360,1440), got (%d,%d,%d,%d)", left.X, left.Y, left.Width, left.Height)
	}
	if right.X != 4240 || right.Width != 880 || right.Height != 1392 {
		t.Fatalf("filler: expected (4240,0,880,1392), got (%d,%d,%d,%d)", right.X, right.Y, right.Width, right.Height)
	}
	if !left.AlwaysOnTop || right.AlwaysOnTop {
		t.Fatal("CR pins the shaped left pane, not the filler")
	}
}

func TestGenerateThreeWindows(t *testing.T) {
	// Preset 0 is (21:9, 1/2): center 3360 wide, leftover 1760 split
	// 880/880, sides at usable height.
	panes, err := Generate(3, 0, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(panes) != 3 {
		t.Fatalf("expected 3 panes, got %d", len(panes))
	}
	if p := panes[0]; p.X != 0 || p.Width != 880 || p.Height != 1392 {
		t.Fatalf("left: expected (0,0,880,1392), got (%d,%d,%d,%d)", p.X, p.Y, p.Width, p.Height)
	}
	if p := panes[1]; p.X != 880 || p.Width != 3360 || p.Height != 1440 || !p.AlwaysOnTop || p.Titlebar {
		t.Fatalf("center: expected (880,0,3360,1440) pinned frameless, got (%d,%d,%d,%d) aot=%v titlebar=%v",
			p.X, p.Y, p.Width, p.Height, p.AlwaysOnTop, p.Titlebar)
	}
	if p := panes[2]; p.X != 4240 || p.Width != 880 || p.Height != 1392 {
		t.Fatalf("right: expected (4240,0,880,1392), got (%d,%d,%d,%d)", p.X, p.Y, p.Width, p.Height)
	}

	// Preset 3 is (21:9, 2/3): leftover 1760, left = 1760*2/3 -> 1173,
	// right = 1760*1/3 -> 586. Right x truncates the exact running sum:
	// (1760*2/3 + 3360) -> 4533, so 4533+586 = 5119 stays inside the
	// screen while 1173+3360 = 4533 lines up with the center pane edge.
	panes, err = Generate(3, 3, ultrawide)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if p := panes[0]; p.Width != 1173 {
		t.Fatalf("left width: expected 1173, got %d", p.Width)
	}
	if p := panes[1]; p.X != 1173 || p.Width != 3360 {
		t.Fatalf("center: expected x=1173 w=3360, got x=%d w=%d", p.X, p.Width)
	}
	if p := panes[2]; p.X != 4533 || p.Width != 586 {
		t.Fatalf("right: expected x=4533 w=586, got x=%d w=%d", p.X, p.Width)
	}
}

func TestGenerateFourWindows(t *testing.T) {
	// On 1920x1080 with a 48px taskbar the usable height is 1032.
	screen := Screen{W: 1920, H: 1080, TaskbarH: 48}

	// Preset 0: four equal columns, 1920/4 = 480 wide, 1032 tall.
	panes, err := Generate(4, 0, screen)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i, p := range panes {
		if p.X != i*480 || p.Y != 0 || p.Width != 480 || p.Height != 1032 {
			t.Fatalf("pane %d: expected (%d,0,480,1032), got (%d,%d,%d,%d)", i, i*480, p.X, p.Y, p.Width, p.Height)
		}
		if p.AlwaysOnTop || !p.Titlebar {
			t.Fatalf("pane %d: four-window panes keep titlebars and are not pinned", i)
		}
	}

	// Preset 1: stacked halves left (960x516 at y=0 and y=516), two
	// columns right (480x1032 at x=960 and x=1440).
	panes, err = Generate(4, 1, screen)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := [4][4]int{
		{0, 0, 960, 516},
		{0, 516, 960, 516},
		{960, 0, 480, 1032},
		{1440, 0, 480, 1032},
	}
	for i, p := range panes {
		if p.X != want[i][0] || p.Y != want[i][1] || p.Width != want[i][2] || p.Height != want[i][3] {
			t.Fatalf("pane %d: expected (%d,%d,%d,%d), got (%d,%d,%d,%d)", i,
				want[i][0], want[i][1], want[i][2], want[i][3], p.X, p.Y, p.Width, p.Height)
		}
	}
}

func TestGenerateStaysOnScreen(t *testing.T) {
	screens := []Screen{
		{W: 1920, H: 1080, TaskbarH: 48},
		{W: 2560, H: 1080, TaskbarH: 40},
		{W: 5120, H: 1440, TaskbarH: 48},
	}
	for _, screen := range screens {
		for count := 1; count <= MaxWindows; count++ {
			for preset := 0; preset < PresetCount(count); preset++ {
				panes, err := Generate(count, preset, screen)
				if err != nil {
					t.Fatalf("Generate(%d, %d, %dx%d) failed: %v", count, preset, screen.W, screen.H, err)
				}
				if len(panes) != count {
					t.Fatalf("Generate(%d, %d): got %d panes", count, preset, len(panes))
				}
				for i, p := range panes {
					if p.Width < 0 || p.Height < 0 {
						t.Errorf("count=%d preset=%d pane=%d %dx%d screen: negative size %dx%d",
							count, preset, i, screen.W, screen.H, p.Width, p.Height)
					}
					if p.X < 0 || p.Y < 0 || p.X+p.Width > screen.W || p.Y+p.Height > screen.H {
						t.Errorf("count=%d preset=%d pane=%d %dx%d screen: (%d,%d,%d,%d) leaves the screen",
							count, preset, i, screen.W, screen.H, p.X, p.Y, p.Width, p.Height)
					}
				}
			}
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	if _, err := Generate(0, 0, ultrawide); err == nil {
		t.Fatal("expected error for count 0")
	}
	if _, err := Generate(5, 0, ultrawide); err == nil {
		t.Fatal("expected error for count 5")
	}
	if _, err := Generate(2, -1, ultrawide); err == nil {
		t.Fatal("expected error for negative preset")
	}
	if _, err := Generate(2, PresetCount(2), ultrawide); err == nil {
		t.Fatal("expected error for preset past the end")
	}
}
