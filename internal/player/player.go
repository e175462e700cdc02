// Package player implements the timeline sequence state machine.
//
// A Sequence advances a playhead over a fixed-length timeline on every tick
// of its ticker, samples the keyframe tracks bound to it, and writes the
// resulting values into the reactive graph. Position, the playing flag, and
// the sequence length are themselves graph properties, so observers receive
// the same batched, tick-aligned notifications for them as for any other
// value.
//
// The state machine is {idle, playing, paused}. Play returns a Playback
// whose Done channel closes when playback ends; Finished reports whether all
// iterations ran to completion (true) or Pause interrupted them (false).
// Playback never fails after Play has accepted its config.
package player

import (
	"log/slog"
	"math"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
	"github.com/stagehand-dev/stagehand/internal/graph"
	"github.com/stagehand-dev/stagehand/internal/prop"
	"github.com/stagehand-dev/stagehand/internal/ticker"
	"github.com/stagehand-dev/stagehand/internal/track"
)

// Direction governs the playhead's travel per iteration.
type Direction string

const (
	DirectionNormal           Direction = "normal"
	DirectionReverse          Direction = "reverse"
	DirectionAlternate        Direction = "alternate"
	DirectionAlternateReverse Direction = "alternateReverse"
)

// Infinite as an iteration count plays until paused.
const Infinite = -1

// PlayConfig parameterizes one playback run. The zero value plays the full
// range once, forward, at unit rate.
type PlayConfig struct {
	// IterationCount is the number of times the range plays. Zero means 1;
	// Infinite plays until paused.
	IterationCount int

	// Range restricts playback to [Range[0], Range[1]]. Nil plays the full
	// sequence, [0, length].
	Range *[2]float64

	// Rate scales logical time. Zero means 1. Negative rates travel
	// backwards from the configured direction's starting edge.
	Rate float64

	// Direction selects forward, backward, or per-iteration alternating
	// travel. Empty means DirectionNormal.
	Direction Direction
}

// Playback is the completion signal of one Play call.
type Playback struct {
	done     chan struct{}
	finished bool
}

// Done closes when playback ends, whether it completed or was paused.
func (p *Playback) Done() <-chan struct{} { return p.done }

// Finished reports whether every iteration completed naturally. It is
// meaningful only after Done is closed; false before that.
func (p *Playback) Finished() bool { return p.finished }

func (p *Playback) resolve(finished bool) {
	p.finished = finished
	close(p.done)
}

// AudioSync keeps an external audio collaborator aligned to the sequence.
// The sequence calls it synchronously inside the tick, so the audio clock is
// consistent with the graph state observers see for the same tick.
type AudioSync interface {
	SetPosition(positionSeconds float64)
	SetPlaying(playing bool)
}

type state int

const (
	stateIdle state = iota
	statePlaying
	statePaused
)

// binding ties one property pointer to the track and config that compute it.
type binding struct {
	object address.ObjectKey
	ptr    graph.Pointer
	track  *track.Track
	config prop.Config
}

// Sequence is a timeline player bound to one sheet. Not safe for concurrent
// use; like the graph it must be driven from the ticker's goroutine.
type Sequence struct {
	g      *graph.Graph
	tk     *ticker.Ticker
	base   graph.Pointer
	length float64

	state    state
	position float64

	// Active run parameters, valid while state != stateIdle.
	playRange  [2]float64
	rate       float64
	direction  Direction
	remaining  int // iterations left to complete; Infinite for endless
	velocity   float64
	lastTime   float64
	playback   *Playback

	bindings  []binding
	bindingBy map[string]struct{}
	audio     []AudioSync
}

// New creates a sequence of the given length rooted at base, registers it on
// the ticker, and seeds its position, playing, and length properties.
func New(g *graph.Graph, tk *ticker.Ticker, base graph.Pointer, lengthSeconds float64) (*Sequence, error) {
	if !(lengthSeconds > 0) || math.IsInf(lengthSeconds, 1) {
		return nil, faults.Newf(faults.CodeInvalidArgument, "sequence length must be a positive finite number, got %v", lengthSeconds)
	}
	s := &Sequence{
		g:         g,
		tk:        tk,
		base:      base,
		length:    lengthSeconds,
		bindingBy: make(map[string]struct{}),
	}
	if err := g.Set(base.Prop("length"), lengthSeconds); err != nil {
		return nil, err
	}
	if err := g.Set(base.Prop("position"), 0.0); err != nil {
		return nil, err
	}
	if err := g.Set(base.Prop("playing"), false); err != nil {
		return nil, err
	}
	tk.Register(s)
	return s, nil
}

// Close deregisters the sequence from its ticker. A pending playback
// resolves unfinished.
func (s *Sequence) Close() {
	s.interrupt()
	s.tk.Deregister(s)
}

// Length returns the sequence length in seconds.
func (s *Sequence) Length() float64 { return s.length }

// Position returns the current playhead position.
func (s *Sequence) Position() float64 { return s.position }

// Playing reports whether the sequence is advancing.
func (s *Sequence) Playing() bool { return s.state == statePlaying }

// Pointer returns the sequence's base pointer; position, playing, and length
// live under it.
func (s *Sequence) Pointer() graph.Pointer { return s.base }

// BindTrack binds a keyframe track to the property at ptr. Each (object,
// path) pair may carry at most one track.
func (s *Sequence) BindTrack(object address.ObjectKey, path address.PropPath, ptr graph.Pointer, tr *track.Track, cfg prop.Config) error {
	key := string(object) + "\x00" + path.Encode()
	if _, dup := s.bindingBy[key]; dup {
		return faults.Newf(faults.CodeInvalidArgument, "object %q already has a track at %s", object, path.Encode())
	}
	s.bindingBy[key] = struct{}{}
	s.bindings = append(s.bindings, binding{object: object, ptr: ptr, track: tr, config: cfg})
	return nil
}

// AttachAudio registers an audio collaborator synchronized to the playhead.
func (s *Sequence) AttachAudio(sync AudioSync) {
	s.audio = append(s.audio, sync)
	sync.SetPosition(s.position)
	sync.SetPlaying(s.state == statePlaying)
}

// Play starts playback. From idle or paused it begins a run with the given
// config; while already playing it interrupts the pending run (resolving its
// playback unfinished) and starts over.
//
// The returned Playback resolves true when all iterations complete, false
// when Pause cuts the run short. Position advances only on ticks.
func (s *Sequence) Play(cfg PlayConfig) (*Playback, error) {
	iterations := cfg.IterationCount
	if iterations == 0 {
		iterations = 1
	}
	if iterations < 1 && iterations != Infinite {
		return nil, faults.Newf(faults.CodeInvalidArgument, "iteration count must be >= 1 or Infinite, got %d", cfg.IterationCount)
	}

	playRange := [2]float64{0, s.length}
	if cfg.Range != nil {
		playRange = *cfg.Range
	}
	if math.IsNaN(playRange[0]) || math.IsNaN(playRange[1]) ||
		playRange[0] < 0 || playRange[1] > s.length || playRange[0] >= playRange[1] {
		return nil, faults.Newf(faults.CodeInvalidArgument, "range [%v, %v] is not a sub-range of [0, %v]", playRange[0], playRange[1], s.length)
	}

	rate := cfg.Rate
	if rate == 0 {
		rate = 1
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, faults.Newf(faults.CodeInvalidArgument, "rate must be finite, got %v", cfg.Rate)
	}

	dir := cfg.Direction
	if dir == "" {
		dir = DirectionNormal
	}
	sign := 1.0
	switch dir {
	case DirectionNormal, DirectionAlternate:
	case DirectionReverse, DirectionAlternateReverse:
		sign = -1
	default:
		return nil, faults.Newf(faults.CodeInvalidArgument, "unknown direction %q", cfg.Direction)
	}

	s.interrupt()

	s.playRange = playRange
	s.rate = rate
	s.direction = dir
	s.remaining = iterations
	s.velocity = rate * sign
	s.lastTime = s.tk.Time()
	s.playback = &Playback{done: make(chan struct{})}
	s.state = statePlaying

	// Snap a playhead resting outside the range, or on the edge it is about
	// to leave through, to the range's entry edge.
	if s.velocity >= 0 {
		if s.position < playRange[0] || s.position >= playRange[1] {
			s.setPosition(playRange[0])
		}
	} else {
		if s.position <= playRange[0] || s.position > playRange[1] {
			s.setPosition(playRange[1])
		}
	}
	s.setPlaying(true)

	slog.Debug("sequence playing",
		"range", playRange,
		"rate", rate,
		"direction", dir,
		"iterations", iterations)
	return s.playback, nil
}

// Pause freezes the playhead and resolves the pending playback unfinished.
// Idempotent from paused or idle.
func (s *Sequence) Pause() {
	if s.state != statePlaying {
		return
	}
	s.state = statePaused
	s.setPlaying(false)
	if s.playback != nil {
		s.playback.resolve(false)
		s.playback = nil
	}
	slog.Debug("sequence paused", "position", s.position)
}

// interrupt resolves a pending playback unfinished without changing the
// playhead. Used by Play-over-play and Close.
func (s *Sequence) interrupt() {
	if s.playback != nil {
		s.playback.resolve(false)
		s.playback = nil
	}
	if s.state == statePlaying {
		s.state = statePaused
		s.setPlaying(false)
	}
}

// Tick advances the playhead by rate-scaled elapsed time and handles range
// boundaries: alternate directions reflect with the leftover time carried
// into the flipped iteration, normal and reverse wrap it to the range's
// entry edge, and the final iteration lands exactly on the boundary.
func (s *Sequence) Tick(timeMs float64) {
	if s.state != statePlaying {
		return
	}
	dt := timeMs - s.lastTime
	s.lastTime = timeMs
	if dt == 0 {
		return
	}

	start, end := s.playRange[0], s.playRange[1]
	pos := s.position + s.velocity*dt

	for {
		var over float64
		switch {
		case s.velocity > 0 && pos >= end:
			over = pos - end
		case s.velocity < 0 && pos <= start:
			over = start - pos
		default:
			s.setPosition(pos)
			return
		}

		// One iteration completed at the boundary.
		if s.remaining != Infinite {
			s.remaining--
			if s.remaining == 0 {
				if s.velocity > 0 {
					s.finish(end)
				} else {
					s.finish(start)
				}
				return
			}
		}

		switch s.direction {
		case DirectionAlternate, DirectionAlternateReverse:
			s.velocity = -s.velocity
			if s.velocity > 0 {
				pos = start + over
			} else {
				pos = end - over
			}
		case DirectionReverse:
			pos = end - over
		default:
			pos = start + over
		}
	}
}

// finish completes the run at the given boundary and resolves the playback
// finished.
func (s *Sequence) finish(position float64) {
	s.setPosition(position)
	s.state = stateIdle
	s.setPlaying(false)
	if s.playback != nil {
		s.playback.resolve(true)
		s.playback = nil
	}
	slog.Debug("sequence finished", "position", position)
}

// setPosition writes the playhead and every bound track's sampled value into
// the graph, and realigns attached audio.
func (s *Sequence) setPosition(position float64) {
	s.position = position
	_ = s.g.Set(s.base.Prop("position"), position)
	for _, b := range s.bindings {
		_ = s.g.Set(b.ptr, track.Sample(b.track, position, b.config))
	}
	for _, a := range s.audio {
		a.SetPosition(position)
	}
}

// SeekTo moves the playhead without playing. The write propagates on the
// next tick like any other.
func (s *Sequence) SeekTo(position float64) error {
	if math.IsNaN(position) || position < 0 || position > s.length {
		return faults.Newf(faults.CodeInvalidArgument, "position %v outside [0, %v]", position, s.length)
	}
	s.setPosition(position)
	return nil
}

func (s *Sequence) setPlaying(playing bool) {
	_ = s.g.Set(s.base.Prop("playing"), playing)
	for _, a := range s.audio {
		a.SetPlaying(playing)
	}
}
