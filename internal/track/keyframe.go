// Package track implements the keyframe data model and the sampling engine
// that computes a time-varying value for a property path.
package track

import (
	"math"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
)

// KeyframeType selects how the segment to the right of a keyframe samples.
type KeyframeType string

const (
	// KeyframeTypeBezier eases the segment through a cubic bezier curve.
	KeyframeTypeBezier KeyframeType = "bezier"
	// KeyframeTypeHold keeps the keyframe's value for the whole segment.
	KeyframeTypeHold KeyframeType = "hold"
)

// DefaultHandles is the bezier handle tuple assigned to keyframes that carry
// none: the standard ease curve cubic-bezier(0.5, 0, 0.5, 1) when paired
// with itself.
var DefaultHandles = [4]float64{0.5, 1, 0.5, 0}

// Keyframe is one point of a track.
//
// Handles holds bezier control offsets as [leftX, leftY, rightX, rightY].
// The right pair shapes the exit easing of the segment leaving this
// keyframe; the left pair shapes the entry easing of the segment arriving
// at it.
type Keyframe struct {
	ID       address.KeyframeID `json:"id" yaml:"id"`
	Value    any                `json:"value" yaml:"value"`
	Position float64            `json:"position" yaml:"position"`
	Handles  [4]float64         `json:"handles" yaml:"handles"`
	// ConnectedRight marks the visual right handle as mirrored/locked to the
	// next segment's left handle. Editing affordance only: it does not change
	// the sampling math.
	ConnectedRight bool         `json:"connectedRight" yaml:"connectedRight"`
	Type           KeyframeType `json:"type" yaml:"type"`
}

// Track is an ordered keyframe sequence driving one property path over time.
type Track struct {
	ID        address.SequenceTrackID `json:"id" yaml:"id"`
	Keyframes []Keyframe              `json:"keyframes" yaml:"keyframes"`
}

// Normalize fills in the pieces optional in serialized form: missing
// keyframe ids are minted, an all-zero handle tuple becomes DefaultHandles,
// and an empty type becomes bezier.
func (t *Track) Normalize() {
	for i := range t.Keyframes {
		kf := &t.Keyframes[i]
		if kf.ID == "" {
			kf.ID = address.NewKeyframeID()
		}
		if kf.Handles == ([4]float64{}) {
			kf.Handles = DefaultHandles
		}
		if kf.Type == "" {
			kf.Type = KeyframeTypeBezier
		}
	}
}

// Validate checks that the track is usable for playback: keyframe positions
// are finite and strictly ascending (coinciding positions are legal only
// transiently during edits), types are recognized, and handle components are
// finite.
func (t *Track) Validate() error {
	for i := range t.Keyframes {
		kf := &t.Keyframes[i]
		if math.IsNaN(kf.Position) || math.IsInf(kf.Position, 0) {
			return faults.Newf(faults.CodeInvalidArgument,
				"track %s: keyframe %d has non-finite position", t.ID, i)
		}
		if i > 0 && kf.Position <= t.Keyframes[i-1].Position {
			return faults.Newf(faults.CodeInvalidArgument,
				"track %s: keyframe positions must be strictly ascending (index %d)", t.ID, i)
		}
		switch kf.Type {
		case KeyframeTypeBezier, KeyframeTypeHold:
		default:
			return faults.Newf(faults.CodeInvalidArgument,
				"track %s: keyframe %d has unknown type %q", t.ID, i, kf.Type)
		}
		for _, h := range kf.Handles {
			if math.IsNaN(h) || math.IsInf(h, 0) {
				return faults.Newf(faults.CodeInvalidArgument,
					"track %s: keyframe %d has non-finite handle", t.ID, i)
			}
		}
	}
	return nil
}
