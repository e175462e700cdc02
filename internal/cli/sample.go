package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/prop"
	"github.com/stagehand-dev/stagehand/internal/snapshot"
	"github.com/stagehand-dev/stagehand/internal/track"
)

// SampleResult is the JSON payload of the sample command.
type SampleResult struct {
	Sheet    string  `json:"sheet"`
	Object   string  `json:"object"`
	Prop     string  `json:"prop"`
	Position float64 `json:"position"`
	Value    any     `json:"value"`
}

// NewSampleCommand creates the sample command.
func NewSampleCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		sheet    string
		object   string
		propPath string
		at       float64
	)

	cmd := &cobra.Command{
		Use:   "sample <snapshot-file>",
		Short: "Sample one keyframe track at a position",
		Long: `Sample the track driving one object prop at a given sequence position.
The prop is addressed by its canonical encoded path, e.g. '["position","x"]'.
The prop config is inferred from the track's first keyframe value.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(rootOpts, cmd, args[0], sheet, object, propPath, at)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet id (required)")
	cmd.Flags().StringVar(&object, "object", "", "object key (required)")
	cmd.Flags().StringVar(&propPath, "prop", "", "encoded prop path (required)")
	cmd.Flags().Float64Var(&at, "at", 0, "sequence position to sample at")
	_ = cmd.MarkFlagRequired("sheet")
	_ = cmd.MarkFlagRequired("object")
	_ = cmd.MarkFlagRequired("prop")

	return cmd
}

func runSample(opts *RootOptions, cmd *cobra.Command, path, sheet, object, propPath string, at float64) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return reportFault(formatter, err)
	}

	tr, err := findTrack(snap, address.SheetID(sheet), address.ObjectKey(object), propPath)
	if err != nil {
		_ = formatter.Error("NOT_FOUND", err.Error())
		return WrapExitError(ExitFailure, "track not found", err)
	}

	cfg, err := inferConfig(tr)
	if err != nil {
		_ = formatter.Error("INVALID_CONFIG", err.Error())
		return WrapExitError(ExitFailure, "cannot infer prop config", err)
	}

	value := track.Sample(tr, at, cfg)
	formatter.VerboseLog("track %s sampled at %v", tr.ID, at)

	if opts.Format == "json" {
		return formatter.Success(SampleResult{
			Sheet:    sheet,
			Object:   object,
			Prop:     propPath,
			Position: at,
			Value:    value,
		})
	}
	return formatter.Success(fmt.Sprintf("%v", value))
}

// findTrack resolves the track bound to an object prop path.
func findTrack(snap *snapshot.Snapshot, sheet address.SheetID, object address.ObjectKey, encodedPath string) (*track.Track, error) {
	sheetState, ok := snap.SheetsByID[sheet]
	if !ok {
		return nil, fmt.Errorf("snapshot has no sheet %q", sheet)
	}
	if sheetState.Sequence == nil {
		return nil, fmt.Errorf("sheet %q has no sequence", sheet)
	}
	objTracks, ok := sheetState.Sequence.TracksByObject[object]
	if !ok {
		return nil, fmt.Errorf("sheet %q has no tracks for object %q", sheet, object)
	}
	trackID, ok := objTracks.TrackIDByPropPath[encodedPath]
	if !ok {
		return nil, fmt.Errorf("object %q has no track at %s", object, encodedPath)
	}
	return objTracks.TrackData[trackID], nil
}

// inferConfig derives a prop config from a track's first keyframe value,
// good enough to pick the interpolator for offline inspection.
func inferConfig(tr *track.Track) (prop.Config, error) {
	if len(tr.Keyframes) == 0 {
		return prop.NewNumber(0)
	}
	return prop.Compile(tr.Keyframes[0].Value)
}
