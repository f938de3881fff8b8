package title

import "testing"

func TestMatchExact(t *testing.T) {
	if !Match("Diablo IV", "diablo iv") {
		t.Fatal("expected exact match to ignore case")
	}
	if !Match("diablo iv", "  Diablo   IV  ") {
		t.Fatal("expected exact match to ignore spacing")
	}
}

func TestMatchWordBoundary(t *testing.T) {
	cases := []struct {
		key, live string
		want      bool
	}{
		{"diablo", "Diablo IV", true},
		{"diablo", "diablo", true},
		{"diablo", "Diablodeluxe", false}, // prefix without a boundary
		{"diablo", "Diablo", true},
		{"diablo iv", "Diablo IV beta", true},
		{"diablo iv", "Diablo IVy", false},
		{"notepad", "Notepad", true},
		{"notepad", "OneNotepad", false}, // not a prefix at all
		{"", "anything", false},
		{"key", "", false},
	}
	for _, c := range cases {
		if got := Match(c.key, c.live); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.key, c.live, got, c.want)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains("right app", "My Right App Window") {
		t.Fatal("expected substring hit")
	}
	if Contains("right app", "rightapp") {
		t.Fatal("expected miss when spacing differs")
	}
	if Contains("", "anything") {
		t.Fatal("empty key must not match")
	}
}
