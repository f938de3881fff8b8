package title

import "strings"

// Match reports whether a stored profile key matches a live window title.
// Both sides are normalized first. A key matches exactly, or as a prefix
// that ends on a word boundary: "diablo" matches "Diablo IV" and "diablo",
// never "Diablodeluxe". An empty key matches nothing.
func Match(storedKey, liveTitle string) bool {
	key := Normalize(storedKey)
	live := Normalize(liveTitle)
	if key == "" {
		return false
	}
	if key == live {
		return true
	}
	if !strings.HasPrefix(live, key) {
		return false
	}
	return live[len(key)] == ' '
}

// Contains reports whether the normalized stored key occurs anywhere in the
// normalized live title. Used by default-profile selection, where a looser
// rule than Match is wanted for anchored windows.
func Contains(storedKey, liveTitle string) bool {
	key := Normalize(storedKey)
	if key == "" {
		return false
	}
	return strings.Contains(Normalize(liveTitle), key)
}
