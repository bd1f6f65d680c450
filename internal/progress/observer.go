package progress

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"astrofiler/internal/logging"
)

// Observer receives a tracker snapshot after every processed file.
type Observer interface {
	Push(Tracker)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Tracker)

func (f ObserverFunc) Push(t Tracker) { f(t) }

type nop struct{}

func (nop) Push(Tracker) {}

// Nop discards every snapshot.
var Nop Observer = nop{}

type multi []Observer

func (m multi) Push(t Tracker) {
	for _, o := range m {
		o.Push(t)
	}
}

// Multi fans snapshots out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// JSONObserver writes each snapshot as one JSON object per line.
func JSONObserver(w io.Writer) Observer {
	var mu sync.Mutex
	enc := json.NewEncoder(w)
	return ObserverFunc(func(t Tracker) {
		mu.Lock()
		defer mu.Unlock()
		_ = enc.Encode(t)
	})
}

// LogObserver logs snapshots at info level, sampled to 10% steps.
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = logging.NewNop()
	}
	var mu sync.Mutex
	sampler := logging.NewProgressSampler(10)
	return ObserverFunc(func(t Tracker) {
		mu.Lock()
		defer mu.Unlock()
		if !sampler.ShouldLog(t.Percent(), t.Name) {
			return
		}
		logger.Info("classification progress",
			logging.String(logging.FieldEventType, "classify_progress"),
			logging.String("progress_id", t.ID),
			logging.String("batch", t.Name),
			logging.Int("step", t.Step),
			logging.Int("total", t.Total),
		)
	})
}

// Recorder keeps every pushed snapshot. It is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	snapshots []Tracker
}

func (r *Recorder) Push(t Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, t)
}

// Snapshots returns the pushed snapshots in order.
func (r *Recorder) Snapshots() []Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Tracker, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}
