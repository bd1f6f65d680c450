package progress

import "github.com/google/uuid"

// Tracker counts processed files in one classification batch.
type Tracker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Modal bool   `json:"modal"`
	Step  int    `json:"step"`
	Total int    `json:"total"`
}

// New returns a tracker at step zero with a fresh id.
func New(name string, total int, modal bool) *Tracker {
	if total < 0 {
		total = 0
	}
	return &Tracker{ID: uuid.NewString(), Name: name, Modal: modal, Total: total}
}

// Advance moves the tracker forward one step, never past Total.
func (t *Tracker) Advance() {
	if t.Step < t.Total {
		t.Step++
	}
}

// Snapshot returns a copy safe to hand to observers.
func (t *Tracker) Snapshot() Tracker {
	return *t
}

// Done reports whether every step has been processed.
func (t *Tracker) Done() bool {
	return t.Step >= t.Total
}

// Percent returns completion in the range 0..100.
func (t Tracker) Percent() float64 {
	if t.Total <= 0 {
		return 100
	}
	return float64(t.Step) / float64(t.Total) * 100
}
