// Package ticker implements the frame-ticking scheduling source that drives
// dirty-path propagation and timeline advancement.
//
// A Ticker carries a monotonically non-decreasing logical time. Each Tick
// flushes one deterministic pass: dirty-path propagation, then timeline
// advancement, then the propagation of writes the timelines caused - all
// before Tick returns. Subscribers observe at most one notification per
// observable per tick, reflecting the state after all writes in that tick.
//
// Tickers are driven externally: by a display-synced frame callback in an
// interactive host, or by a caller-supplied source making manual Tick calls
// at arbitrary cadence (offline rendering, tests). Sources may supply
// start/stop hooks invoked when the set of active subscribers transitions
// between empty and non-empty.
//
// There is no process-wide ticker. A studio context constructs and owns its
// default instance explicitly.
package ticker

import (
	"sync/atomic"

	"github.com/stagehand-dev/stagehand/internal/graph"
)

// idCounter mints process-unique ticker ids.
var idCounter atomic.Int64

// Tickee is advanced once per tick, after the first propagation round.
// Timeline players implement it.
type Tickee interface {
	Tick(timeMs float64)
}

// Source is an external frame source feeding a ticker. Start is invoked when
// the ticker gains its first subscriber, Stop when it loses its last one.
type Source interface {
	Name() string
	Start(t *Ticker)
	Stop(t *Ticker)
}

// ManualSource is a source with no hooks: the caller invokes Tick directly
// at whatever cadence it wants. Used for offline rendering and tests.
type ManualSource struct{}

// Name implements Source.
func (ManualSource) Name() string { return "manual" }

// Start implements Source.
func (ManualSource) Start(*Ticker) {}

// Stop implements Source.
func (ManualSource) Stop(*Ticker) {}

// Ticker is a scheduling source with a monotonically non-decreasing logical
// time. Not safe for concurrent use; Tick must be called from exactly one
// goroutine, the same one that accesses the graph.
type Ticker struct {
	id      int64
	name    string
	time    float64
	g       *graph.Graph
	source  Source
	tickees []Tickee
}

// Option configures a ticker.
type Option func(*Ticker)

// WithName sets the human-readable ticker name.
func WithName(name string) Option {
	return func(t *Ticker) { t.name = name }
}

// WithSource sets the external frame source.
func WithSource(src Source) Option {
	return func(t *Ticker) { t.source = src }
}

// New creates a ticker over the given graph, starting idle at time 0.
// The graph's activation hook is claimed by the ticker to drive the
// source's start/stop lifecycle.
func New(g *graph.Graph, opts ...Option) *Ticker {
	t := &Ticker{
		id:     idCounter.Add(1),
		name:   "ticker",
		g:      g,
		source: ManualSource{},
	}
	for _, opt := range opts {
		opt(t)
	}
	g.SetActivationHook(func(active int) {
		if active > 0 {
			t.source.Start(t)
		} else {
			t.source.Stop(t)
		}
	})
	return t
}

// ID returns the process-unique numeric ticker id.
func (t *Ticker) ID() int64 { return t.id }

// Name returns the human-readable ticker name.
func (t *Ticker) Name() string { return t.name }

// Time returns the current logical time in milliseconds.
func (t *Ticker) Time() float64 { return t.time }

// Register adds a tickee advanced on every tick. Registration order is
// advancement order.
func (t *Ticker) Register(tk Tickee) {
	t.tickees = append(t.tickees, tk)
}

// Deregister removes a previously registered tickee. No-op if absent.
func (t *Ticker) Deregister(tk Tickee) {
	for i, cur := range t.tickees {
		if cur == tk {
			t.tickees = append(t.tickees[:i], t.tickees[i+1:]...)
			return
		}
	}
}

// Tick advances logical time and flushes one propagation round.
//
// Logical time never decreases: a timestamp earlier than the current time is
// clamped to it. The pass is deterministic: dirty paths accumulated before
// the tick propagate first, registered tickees advance (timeline players
// write their computed values), then the newly dirtied paths propagate -
// with at most one notification per observable, carrying the final value.
func (t *Ticker) Tick(timeMs float64) {
	if timeMs < t.time {
		timeMs = t.time
	}
	t.time = timeMs

	batch := t.g.Collect()
	for _, tk := range t.tickees {
		tk.Tick(timeMs)
	}
	batch.Merge(t.g.Collect())
	t.g.Deliver(batch)
}
