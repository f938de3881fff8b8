package profile

import (
	"github.com/ultratile/ultratile/internal/platform"
	"github.com/ultratile/ultratile/internal/title"
)

// ResolvedSpec pairs a window spec with the live window it matched.
type ResolvedSpec struct {
	Spec   WindowSpec
	Window platform.Window
}

// MatchResult is the outcome of resolving a profile against live windows.
// Missing lists the spec names with no live counterpart; absence is data,
// not an error.
type MatchResult struct {
	Resolved []ResolvedSpec
	Missing  []string
}

// FindWindow returns the live window whose title matches the stored key.
// When several windows match, the lowest window ID wins, so repeated calls
// against the same window list resolve the same way.
func FindWindow(key string, wins []platform.Window) (platform.Window, bool) {
	var best platform.Window
	found := false
	for _, w := range wins {
		if !title.Match(key, w.Title) {
			continue
		}
		if !found || w.ID < best.ID {
			best = w
			found = true
		}
	}
	return best, found
}

// FindMatches resolves every spec in the profile against the live window
// list.
func FindMatches(p *Profile, wins []platform.Window) MatchResult {
	var res MatchResult
	if p == nil {
		return res
	}
	for _, spec := range p.Windows {
		w, ok := FindWindow(spec.MatchKey(), wins)
		if !ok {
			res.Missing = append(res.Missing, spec.Name)
			continue
		}
		res.Resolved = append(res.Resolved, ResolvedSpec{Spec: spec, Window: w})
	}
	return res
}
