package address

import (
	"unicode"

	"github.com/google/uuid"

	"github.com/stagehand-dev/stagehand/internal/faults"
)

// ProjectID identifies a project.
type ProjectID string

// SheetID identifies a sheet template within a project.
type SheetID string

// SheetInstanceID identifies one instance of a sheet template.
type SheetInstanceID string

// ObjectKey identifies an object within a sheet.
type ObjectKey string

// SequenceTrackID identifies a keyframe track within a sequence.
type SequenceTrackID string

// KeyframeID identifies a keyframe within a track.
type KeyframeID string

// AssetID is an opaque reference to an externally stored asset
// (image or file contents). The core never dereferences it.
type AssetID string

// NewSequenceTrackID mints a fresh track identifier.
func NewSequenceTrackID() SequenceTrackID {
	return SequenceTrackID(uuid.NewString())
}

// NewKeyframeID mints a fresh keyframe identifier.
func NewKeyframeID() KeyframeID {
	return KeyframeID(uuid.NewString())
}

// validateID rejects empty identifiers and identifiers containing control
// characters. kind names the identifier kind for the error message.
func validateID(kind, id string) error {
	if id == "" {
		return faults.Newf(faults.CodeInvalidArgument, "%s must not be empty", kind)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return faults.Newf(faults.CodeInvalidArgument, "%s contains control character U+%04X", kind, r)
		}
	}
	return nil
}

// Validate reports whether the identifier is well formed.
func (id ProjectID) Validate() error { return validateID("project id", string(id)) }

// Validate reports whether the identifier is well formed.
func (id SheetID) Validate() error { return validateID("sheet id", string(id)) }

// Validate reports whether the identifier is well formed.
func (id SheetInstanceID) Validate() error { return validateID("sheet instance id", string(id)) }

// Validate reports whether the identifier is well formed.
func (id ObjectKey) Validate() error { return validateID("object key", string(id)) }

// Validate reports whether the identifier is well formed.
func (id SequenceTrackID) Validate() error { return validateID("sequence track id", string(id)) }

// Validate reports whether the identifier is well formed.
func (id KeyframeID) Validate() error { return validateID("keyframe id", string(id)) }
