package engine

import (
	"time"

	"github.com/ultratile/ultratile/internal/platform"
)

// MutationResult records one mutation issued during an apply. Error is
// empty when the step succeeded.
type MutationResult struct {
	Window   string            `json:"window"`
	WindowID platform.WindowID `json:"window_id"`
	Step     string            `json:"step"`
	Error    string            `json:"error,omitempty"`
}

// ApplyReport aggregates everything one apply did.
type ApplyReport struct {
	ID        string           `json:"id"`
	Profile   string           `json:"profile"`
	Applied   []string         `json:"applied,omitempty"`
	Missing   []string         `json:"missing,omitempty"`
	Mutations []MutationResult `json:"mutations,omitempty"`
	Started   time.Time        `json:"started"`
	Duration  time.Duration    `json:"duration"`
}

func (r *ApplyReport) record(window string, id platform.WindowID, step string, err error) {
	res := MutationResult{Window: window, WindowID: id, Step: step}
	if err != nil {
		res.Error = err.Error()
	}
	r.Mutations = append(r.Mutations, res)
}

// Failed reports how many recorded mutations errored.
func (r *ApplyReport) Failed() int {
	n := 0
	for _, m := range r.Mutations {
		if m.Error != "" {
			n++
		}
	}
	return n
}
