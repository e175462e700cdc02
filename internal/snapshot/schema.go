package snapshot

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/stagehand-dev/stagehand/internal/faults"
)

// snapshotSchema is the CUE shape every snapshot document must satisfy
// before it is decoded into typed state. Definitions are closed, so unknown
// fields fail here rather than being silently dropped. Value payloads
// (keyframe values, static override trees) stay open: their deep validation
// happens later through prop-config sanitization.
const snapshotSchema = `
#Snapshot: {
	definitionVersion: string
	revisionHistory?: [...string]
	sheetsById?: [string]: #SheetState
}

#SheetState: {
	staticOverrides?: [string]: {...}
	sequence?: #SequenceState
}

#SequenceState: {
	length:           number
	subUnitsPerUnit?: int
	tracksByObject?: [string]: #ObjectTracks
}

#ObjectTracks: {
	trackIdByPropPath?: [string]: string
	trackData?: [string]: #Track
}

#Track: {
	id?: string
	keyframes: [...#Keyframe]
}

#Keyframe: {
	id?:      string
	value:    _
	position: number
	handles?: [number, number, number, number]
	connectedRight?: bool
	type?:           "bezier" | "hold"
}
`

// checkShape validates a decoded document against the embedded schema.
func checkShape(doc any) error {
	if doc == nil {
		return faults.New(faults.CodeInvalidArgument, "empty snapshot document")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(snapshotSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling snapshot schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Snapshot"))
	if !def.Exists() {
		return fmt.Errorf("snapshot schema has no #Snapshot definition")
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return faults.Newf(faults.CodeInvalidArgument, "snapshot document is not encodable: %v", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return faults.Newf(faults.CodeInvalidArgument, "snapshot shape: %v", err)
	}
	return nil
}
