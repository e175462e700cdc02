package ticker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-dev/stagehand/internal/graph"
)

type recordingSource struct {
	events []string
}

func (s *recordingSource) Name() string    { return "recording" }
func (s *recordingSource) Start(t *Ticker) { s.events = append(s.events, "start") }
func (s *recordingSource) Stop(t *Ticker)  { s.events = append(s.events, "stop") }

type writerTickee struct {
	g     *graph.Graph
	p     graph.Pointer
	value float64
}

func (w *writerTickee) Tick(timeMs float64) {
	_ = w.g.Set(w.p, w.value)
}

func TestTicker_UniqueIDs(t *testing.T) {
	a := New(graph.New())
	b := New(graph.New())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestTicker_TimeNeverDecreases(t *testing.T) {
	tk := New(graph.New())

	tk.Tick(100)
	assert.Equal(t, 100.0, tk.Time())

	tk.Tick(50) // clamped
	assert.Equal(t, 100.0, tk.Time())

	tk.Tick(150)
	assert.Equal(t, 150.0, tk.Time())
}

func TestTicker_SourceLifecycle(t *testing.T) {
	g := graph.New()
	src := &recordingSource{}
	New(g, WithSource(src), WithName("test"))

	unsub1, err := g.OnChange(g.Root().Prop("a"), func(any) {}, false)
	require.NoError(t, err)
	unsub2, err := g.OnChange(g.Root().Prop("b"), func(any) {}, false)
	require.NoError(t, err)

	unsub1()
	unsub2()

	assert.Equal(t, []string{"start", "stop"}, src.events)
}

// One tick must deliver at most one notification per observable, reflecting
// the state after both the pre-tick writes and the tickee writes.
func TestTicker_SinglePassDelivery(t *testing.T) {
	g := graph.New()
	tk := New(g)
	pos := g.Root().Prop("x")

	tk.Register(&writerTickee{g: g, p: pos, value: 2.0})

	var calls []any
	_, err := g.OnChange(pos, func(v any) { calls = append(calls, v) }, false)
	require.NoError(t, err)

	// External write before the tick, tickee write during the tick.
	require.NoError(t, g.Set(pos, 1.0))
	tk.Tick(0)

	require.Len(t, calls, 1)
	assert.Equal(t, 2.0, calls[0])
}

func TestTicker_TickeeOrderAndDeregister(t *testing.T) {
	g := graph.New()
	tk := New(g)
	p := g.Root().Prop("x")

	first := &writerTickee{g: g, p: p, value: 1.0}
	second := &writerTickee{g: g, p: p, value: 2.0}
	tk.Register(first)
	tk.Register(second)

	pr, err := graph.PointerToPrism(p)
	require.NoError(t, err)

	tk.Tick(0)
	assert.Equal(t, 2.0, pr.Value(), "tickees advance in registration order")

	tk.Deregister(second)
	tk.Tick(1)
	assert.Equal(t, 1.0, pr.Value())
}

func TestManualSource(t *testing.T) {
	src := ManualSource{}
	assert.Equal(t, "manual", src.Name())
	assert.NotPanics(t, func() {
		src.Start(nil)
		src.Stop(nil)
	})
}
