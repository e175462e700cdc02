// Package snapshot defines the serialized project state the core ingests.
//
// A snapshot is a passive structure handed over by an external store: static
// property overrides plus sequence tracks, keyed by sheet. Ingestion is
// all-or-nothing. The definitionVersion must match SchemaVersion exactly
// (the core refuses to guess a migration), the document shape is checked
// against an embedded CUE schema before any decoding into typed state, and
// every track must validate. A snapshot that fails any of these produces no
// partially ingested state.
//
// Deep content validation beyond shape and track well-formedness is
// best-effort: values inside static overrides and keyframes are sanitized
// later, per prop config, when a studio seeds its graph.
package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
	"github.com/stagehand-dev/stagehand/internal/track"
)

// SchemaVersion is the definition version this core reads and writes.
const SchemaVersion = "0.4.0"

// DefaultSubUnitsPerUnit is the sequence grid subdivision used when a
// snapshot leaves it unset.
const DefaultSubUnitsPerUnit = 30

// maxRevisionHistory bounds the revision list kept after ingestion,
// most recent first.
const maxRevisionHistory = 50

// Snapshot is the root of serialized project state.
type Snapshot struct {
	SheetsByID        map[address.SheetID]SheetState `json:"sheetsById" yaml:"sheetsById"`
	RevisionHistory   []string                       `json:"revisionHistory" yaml:"revisionHistory"`
	DefinitionVersion string                         `json:"definitionVersion" yaml:"definitionVersion"`
}

// SheetState carries one sheet's static overrides and its sequence.
type SheetState struct {
	// StaticOverrides maps object key to a partial value tree layered over
	// the object's defaults. Misses inside it fall back per field.
	StaticOverrides map[address.ObjectKey]map[string]any `json:"staticOverrides" yaml:"staticOverrides"`
	Sequence        *SequenceState                       `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// SequenceState is the serialized form of a sheet's timeline.
type SequenceState struct {
	Length          float64                            `json:"length" yaml:"length"`
	SubUnitsPerUnit int                                `json:"subUnitsPerUnit" yaml:"subUnitsPerUnit"`
	TracksByObject  map[address.ObjectKey]ObjectTracks `json:"tracksByObject" yaml:"tracksByObject"`
}

// ObjectTracks binds encoded prop paths of one object to keyframe tracks.
type ObjectTracks struct {
	// TrackIDByPropPath maps a canonically encoded prop path (see
	// address.PropPath.Encode) to the id of the track driving it.
	TrackIDByPropPath map[string]address.SequenceTrackID `json:"trackIdByPropPath" yaml:"trackIdByPropPath"`

	// TrackData holds the tracks themselves, keyed by id.
	TrackData map[address.SequenceTrackID]*track.Track `json:"trackData" yaml:"trackData"`
}

// Empty synthesizes the default snapshot used when a project starts with no
// stored state.
func Empty() *Snapshot {
	return &Snapshot{
		SheetsByID:        make(map[address.SheetID]SheetState),
		DefinitionVersion: SchemaVersion,
	}
}

// Format selects the snapshot serialization.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// LoadFile reads and ingests a snapshot file, picking the format from the
// extension (.yaml/.yml or .json).
func LoadFile(path string) (*Snapshot, error) {
	var format Format
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, faults.Newf(faults.CodeInvalidArgument, "unsupported snapshot extension %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Decode(data, format)
}

// Decode parses, shape-checks, and ingests serialized snapshot bytes.
func Decode(data []byte, format Format) (*Snapshot, error) {
	var doc any
	var unmarshal func([]byte, any) error
	switch format {
	case FormatYAML:
		unmarshal = yaml.Unmarshal
	case FormatJSON:
		unmarshal = json.Unmarshal
	default:
		return nil, faults.Newf(faults.CodeInvalidArgument, "unknown snapshot format %d", format)
	}

	if err := unmarshal(data, &doc); err != nil {
		return nil, faults.Newf(faults.CodeInvalidArgument, "malformed snapshot document: %v", err)
	}
	if err := checkShape(doc); err != nil {
		return nil, err
	}

	var raw Snapshot
	if err := unmarshal(data, &raw); err != nil {
		return nil, faults.Newf(faults.CodeInvalidArgument, "decoding snapshot: %v", err)
	}
	return Ingest(&raw)
}

// Ingest validates a decoded snapshot and returns its normalized form. The
// input is never mutated; on error no state is produced at all.
//
// Normalization fills track and keyframe ids, default handles and keyframe
// types, the default sub-unit grid, and caps the revision history at the 50
// most recent entries.
func Ingest(s *Snapshot) (*Snapshot, error) {
	if s.DefinitionVersion != SchemaVersion {
		return nil, &faults.Fault{
			Code:    faults.CodeSchemaVersionMismatch,
			Message: fmt.Sprintf("snapshot definitionVersion %q does not match expected %q", s.DefinitionVersion, SchemaVersion),
			Details: map[string]string{
				"got":  s.DefinitionVersion,
				"want": SchemaVersion,
			},
		}
	}

	out := &Snapshot{
		SheetsByID:        make(map[address.SheetID]SheetState, len(s.SheetsByID)),
		DefinitionVersion: s.DefinitionVersion,
	}

	history := s.RevisionHistory
	if len(history) > maxRevisionHistory {
		history = history[:maxRevisionHistory]
	}
	if len(history) > 0 {
		out.RevisionHistory = append([]string(nil), history...)
	}

	for sheetID, sheet := range s.SheetsByID {
		if err := sheetID.Validate(); err != nil {
			return nil, err
		}
		ingested, err := ingestSheet(sheetID, sheet)
		if err != nil {
			return nil, err
		}
		out.SheetsByID[sheetID] = ingested
	}
	return out, nil
}

func ingestSheet(sheetID address.SheetID, sheet SheetState) (SheetState, error) {
	out := SheetState{}

	if len(sheet.StaticOverrides) > 0 {
		out.StaticOverrides = make(map[address.ObjectKey]map[string]any, len(sheet.StaticOverrides))
		for key, overrides := range sheet.StaticOverrides {
			if err := key.Validate(); err != nil {
				return SheetState{}, err
			}
			out.StaticOverrides[key] = overrides
		}
	}

	if sheet.Sequence == nil {
		return out, nil
	}
	seq := *sheet.Sequence
	if math.IsNaN(seq.Length) || math.IsInf(seq.Length, 0) || seq.Length <= 0 {
		return SheetState{}, faults.Newf(faults.CodeInvalidArgument,
			"sheet %s: sequence length must be a positive finite number, got %v", sheetID, seq.Length)
	}
	if seq.SubUnitsPerUnit == 0 {
		seq.SubUnitsPerUnit = DefaultSubUnitsPerUnit
	}
	if seq.SubUnitsPerUnit < 1 {
		return SheetState{}, faults.Newf(faults.CodeInvalidArgument,
			"sheet %s: subUnitsPerUnit must be >= 1, got %d", sheetID, seq.SubUnitsPerUnit)
	}

	tracks := make(map[address.ObjectKey]ObjectTracks, len(seq.TracksByObject))
	for key, objTracks := range seq.TracksByObject {
		if err := key.Validate(); err != nil {
			return SheetState{}, err
		}
		ingested, err := ingestObjectTracks(sheetID, key, objTracks)
		if err != nil {
			return SheetState{}, err
		}
		tracks[key] = ingested
	}
	seq.TracksByObject = tracks
	out.Sequence = &seq
	return out, nil
}

func ingestObjectTracks(sheetID address.SheetID, key address.ObjectKey, in ObjectTracks) (ObjectTracks, error) {
	out := ObjectTracks{
		TrackIDByPropPath: make(map[string]address.SequenceTrackID, len(in.TrackIDByPropPath)),
		TrackData:         make(map[address.SequenceTrackID]*track.Track, len(in.TrackData)),
	}

	for encodedPath, trackID := range in.TrackIDByPropPath {
		if _, err := address.ParsePath(encodedPath); err != nil {
			return ObjectTracks{}, fmt.Errorf("sheet %s object %s: %w", sheetID, key, err)
		}
		if _, exists := in.TrackData[trackID]; !exists {
			return ObjectTracks{}, faults.Newf(faults.CodeInvalidArgument,
				"sheet %s object %s: path %s references unknown track %s", sheetID, key, encodedPath, trackID)
		}
		out.TrackIDByPropPath[encodedPath] = trackID
	}

	for trackID, tr := range in.TrackData {
		if tr == nil {
			return ObjectTracks{}, faults.Newf(faults.CodeInvalidArgument,
				"sheet %s object %s: track %s has no data", sheetID, key, trackID)
		}
		clone := &track.Track{
			ID:        tr.ID,
			Keyframes: append([]track.Keyframe(nil), tr.Keyframes...),
		}
		if clone.ID == "" {
			clone.ID = trackID
		}
		clone.Normalize()
		if err := clone.Validate(); err != nil {
			return ObjectTracks{}, fmt.Errorf("sheet %s object %s: %w", sheetID, key, err)
		}
		out.TrackData[trackID] = clone
	}
	return out, nil
}
