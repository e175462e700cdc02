package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
	"github.com/stagehand-dev/stagehand/internal/graph"
	"github.com/stagehand-dev/stagehand/internal/prop"
	"github.com/stagehand-dev/stagehand/internal/ticker"
	"github.com/stagehand-dev/stagehand/internal/track"
)

func newSequence(t *testing.T, length float64) (*graph.Graph, *ticker.Ticker, *Sequence) {
	t.Helper()
	g := graph.New()
	tk := ticker.New(g)
	base := g.Root().Prop("sheetsById").Prop("main").Prop("sequence")
	seq, err := New(g, tk, base, length)
	require.NoError(t, err)
	return g, tk, seq
}

func resolved(p *Playback) bool {
	select {
	case <-p.Done():
		return true
	default:
		return false
	}
}

func TestSequence_SeedsGraphProperties(t *testing.T) {
	g, tk, seq := newSequence(t, 10)

	tk.Tick(0)
	pr, err := graph.PointerToPrism(seq.Pointer())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"length":   10.0,
		"position": 0.0,
		"playing":  false,
	}, pr.Value())

	lengthPr, err := graph.PointerToPrism(seq.Pointer().Prop("length"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, lengthPr.Value())
	_ = g
}

func TestSequence_AlternateTwoIterationsReturnsToStart(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	pb, err := seq.Play(PlayConfig{
		IterationCount: 2,
		Direction:      DirectionAlternate,
		Range:          &[2]float64{0, 1},
	})
	require.NoError(t, err)

	for _, at := range []float64{0, 0.5, 1, 1.5, 2} {
		tk.Tick(at)
	}

	assert.Equal(t, 0.0, seq.Position())
	require.True(t, resolved(pb))
	assert.True(t, pb.Finished())
	assert.False(t, seq.Playing())
}

func TestSequence_SingleIterationLandsOnRangeEnd(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	pb, err := seq.Play(PlayConfig{Range: &[2]float64{0, 2}})
	require.NoError(t, err)

	tk.Tick(0)
	tk.Tick(1.5)
	assert.Equal(t, 1.5, seq.Position())
	assert.False(t, resolved(pb))

	// Overshooting the boundary on the last iteration lands exactly on it.
	tk.Tick(7)
	assert.Equal(t, 2.0, seq.Position())
	require.True(t, resolved(pb))
	assert.True(t, pb.Finished())
}

func TestSequence_ReverseStartsAtRangeEnd(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	pb, err := seq.Play(PlayConfig{Direction: DirectionReverse, Range: &[2]float64{0, 4}})
	require.NoError(t, err)
	assert.Equal(t, 4.0, seq.Position(), "idle playhead snaps to the reverse entry edge")

	tk.Tick(0)
	tk.Tick(1)
	assert.Equal(t, 3.0, seq.Position())

	tk.Tick(5)
	assert.Equal(t, 0.0, seq.Position())
	require.True(t, resolved(pb))
	assert.True(t, pb.Finished())
}

func TestSequence_RateScalesAdvancement(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	_, err := seq.Play(PlayConfig{Rate: 2})
	require.NoError(t, err)

	tk.Tick(0)
	tk.Tick(1)
	assert.Equal(t, 2.0, seq.Position())
}

func TestSequence_NegativeRateTravelsBackwards(t *testing.T) {
	_, tk, seq := newSequence(t, 10)
	require.NoError(t, seq.SeekTo(5))

	_, err := seq.Play(PlayConfig{Rate: -1, IterationCount: Infinite})
	require.NoError(t, err)

	tk.Tick(0)
	tk.Tick(2)
	assert.Equal(t, 3.0, seq.Position())
}

func TestSequence_NormalWrapsWithLeftoverCarry(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	_, err := seq.Play(PlayConfig{IterationCount: 3, Range: &[2]float64{0, 1}})
	require.NoError(t, err)

	tk.Tick(0)
	tk.Tick(1.25)
	assert.InDelta(t, 0.25, seq.Position(), 1e-12, "leftover time carries into the next iteration")

	tk.Tick(2.5)
	assert.InDelta(t, 0.5, seq.Position(), 1e-12)
}

func TestSequence_InfiniteIterationsKeepPlaying(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	pb, err := seq.Play(PlayConfig{IterationCount: Infinite, Range: &[2]float64{0, 1}})
	require.NoError(t, err)

	tk.Tick(0)
	tk.Tick(100.5)
	assert.True(t, seq.Playing())
	assert.False(t, resolved(pb))
	assert.InDelta(t, 0.5, seq.Position(), 1e-9)
}

func TestSequence_PauseResolvesUnfinishedAndFreezes(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	pb, err := seq.Play(PlayConfig{})
	require.NoError(t, err)

	tk.Tick(0)
	tk.Tick(3)
	seq.Pause()

	require.True(t, resolved(pb))
	assert.False(t, pb.Finished())
	assert.Equal(t, 3.0, seq.Position())

	// Frozen: further ticks do not move the playhead.
	tk.Tick(8)
	assert.Equal(t, 3.0, seq.Position())

	// Idempotent.
	assert.NotPanics(t, seq.Pause)
}

func TestSequence_PlayWhilePlayingInterruptsPendingRun(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	first, err := seq.Play(PlayConfig{})
	require.NoError(t, err)
	tk.Tick(0)
	tk.Tick(1)

	second, err := seq.Play(PlayConfig{})
	require.NoError(t, err)

	require.True(t, resolved(first))
	assert.False(t, first.Finished())
	assert.False(t, resolved(second))

	// Resumes from the current playhead.
	tk.Tick(2)
	assert.Equal(t, 2.0, seq.Position())
}

func TestSequence_PlayRejectsBadConfig(t *testing.T) {
	_, _, seq := newSequence(t, 10)

	tests := []struct {
		name string
		cfg  PlayConfig
	}{
		{"zero-width range", PlayConfig{Range: &[2]float64{2, 2}}},
		{"inverted range", PlayConfig{Range: &[2]float64{3, 1}}},
		{"range past length", PlayConfig{Range: &[2]float64{0, 11}}},
		{"negative iteration count", PlayConfig{IterationCount: -3}},
		{"unknown direction", PlayConfig{Direction: "bounce"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seq.Play(tt.cfg)
			require.Error(t, err)
			assert.True(t, faults.IsInvalidArgument(err))
		})
	}
}

func TestSequence_PositionNotifiesOncePerTick(t *testing.T) {
	g, tk, seq := newSequence(t, 10)

	var got []any
	unsub, err := g.OnChange(seq.Pointer().Prop("position"), func(v any) {
		got = append(got, v)
	}, false)
	require.NoError(t, err)
	defer unsub()

	_, err = seq.Play(PlayConfig{})
	require.NoError(t, err)

	tk.Tick(0)
	tk.Tick(0.5)
	tk.Tick(1)

	assert.Equal(t, []any{0.5, 1.0}, got)
}

func TestSequence_BoundTracksWriteSampledValues(t *testing.T) {
	g, tk, seq := newSequence(t, 10)

	cfg, err := prop.NewNumber(0)
	require.NoError(t, err)
	tr := &track.Track{ID: "t", Keyframes: []track.Keyframe{
		{Value: 0.0, Position: 0, Handles: [4]float64{0.75, 0.75, 0.25, 0.25}, Type: track.KeyframeTypeBezier},
		{Value: 10.0, Position: 10, Handles: [4]float64{0.75, 0.75, 0.25, 0.25}, Type: track.KeyframeTypeBezier},
	}}
	tr.Normalize()
	require.NoError(t, tr.Validate())

	target := g.Root().Prop("sheetsById").Prop("main").Prop("objects").Prop("box").Prop("x")
	path := address.PropPath{"x"}
	require.NoError(t, seq.BindTrack("box", path, target, tr, cfg))

	err = seq.BindTrack("box", path, target, tr, cfg)
	require.Error(t, err)
	assert.True(t, faults.IsInvalidArgument(err), "one track per object prop path")

	_, err = seq.Play(PlayConfig{})
	require.NoError(t, err)
	tk.Tick(0)
	tk.Tick(5)

	pr, err := graph.PointerToPrism(target)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, pr.Value().(float64), 1e-4)
}

type fakeAudio struct {
	positions []float64
	playing   []bool
}

func (f *fakeAudio) SetPosition(p float64) { f.positions = append(f.positions, p) }
func (f *fakeAudio) SetPlaying(p bool)     { f.playing = append(f.playing, p) }

func TestSequence_AudioTracksPlayhead(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	audio := &fakeAudio{}
	seq.AttachAudio(audio)
	require.Equal(t, []float64{0}, audio.positions, "attachment aligns the audio clock")

	_, err := seq.Play(PlayConfig{})
	require.NoError(t, err)
	tk.Tick(0)
	tk.Tick(1)
	seq.Pause()

	assert.Equal(t, []float64{0, 1}, audio.positions)
	assert.Equal(t, []bool{false, true, false}, audio.playing)
}

func TestSequence_SeekTo(t *testing.T) {
	_, tk, seq := newSequence(t, 10)

	require.NoError(t, seq.SeekTo(4))
	assert.Equal(t, 4.0, seq.Position())

	err := seq.SeekTo(11)
	require.Error(t, err)
	assert.True(t, faults.IsInvalidArgument(err))

	// Play resumes from the seeked position when it lies inside the range.
	_, err = seq.Play(PlayConfig{})
	require.NoError(t, err)
	tk.Tick(0)
	tk.Tick(1)
	assert.Equal(t, 5.0, seq.Position())
}

func TestSequence_NewRejectsBadLength(t *testing.T) {
	g := graph.New()
	tk := ticker.New(g)
	base := g.Root().Prop("sheetsById").Prop("s").Prop("sequence")

	for _, length := range []float64{0, -1} {
		_, err := New(g, tk, base, length)
		require.Error(t, err)
		assert.True(t, faults.IsInvalidArgument(err))
	}
}
