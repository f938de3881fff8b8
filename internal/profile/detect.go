package profile

import (
	"github.com/ultratile/ultratile/internal/platform"
	"github.com/ultratile/ultratile/internal/title"
)

// SelectDefault picks the profile that best fits the live windows. Two
// passes over profiles in stored order. Pass 1: the first profile with an
// always-on-top spec whose key occurs in a live title wins outright; an
// AOT window is the profile's anchor, so its presence is decisive. Pass 2:
// the profile matching the most specs wins, with ties going to the first
// seen. When nothing matches at all, the first profile is still returned;
// only an empty store yields no selection.
func SelectDefault(profiles []*Profile, wins []platform.Window) (string, bool) {
	if len(profiles) == 0 {
		return "", false
	}

	for _, p := range profiles {
		if anchorPresent(p, wins) {
			return p.Name, true
		}
	}

	bestName := profiles[0].Name
	bestCount := 0
	for _, p := range profiles {
		count := 0
		for _, spec := range p.Windows {
			if _, ok := FindWindow(spec.MatchKey(), wins); ok {
				count++
			}
		}
		if count > bestCount {
			bestName = p.Name
			bestCount = count
		}
	}
	return bestName, true
}

func anchorPresent(p *Profile, wins []platform.Window) bool {
	for _, spec := range p.Windows {
		if !spec.AlwaysOnTop {
			continue
		}
		for _, w := range wins {
			if title.Contains(spec.MatchKey(), w.Title) {
				return true
			}
		}
	}
	return false
}
