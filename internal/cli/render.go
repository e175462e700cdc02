package cli

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/graph"
	"github.com/stagehand-dev/stagehand/internal/player"
	"github.com/stagehand-dev/stagehand/internal/snapshot"
	"github.com/stagehand-dev/stagehand/internal/studio"
)

// Frame is one offline-rendered tick.
type Frame struct {
	Time   float64        `json:"time"`
	Values map[string]any `json:"values"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		sheet    string
		fps      float64
		duration float64
	)

	cmd := &cobra.Command{
		Use:   "render <snapshot-file>",
		Short: "Offline-render a sheet's sequence",
		Long: `Play a sheet's sequence through a manually ticked studio at a fixed
frame cadence and emit the tracked values of every frame. Object configs are
inferred from the tracks' first keyframe values.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, cmd, args[0], sheet, fps, duration)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet id (required)")
	cmd.Flags().Float64Var(&fps, "fps", 30, "frames per second")
	cmd.Flags().Float64Var(&duration, "duration", 0, "seconds to render (default: sequence length)")
	_ = cmd.MarkFlagRequired("sheet")

	return cmd
}

type renderTarget struct {
	label string
	ptr   graph.Pointer
}

func runRender(opts *RootOptions, cmd *cobra.Command, path, sheet string, fps, duration float64) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		_ = formatter.Error("INVALID_ARGUMENT", fmt.Sprintf("fps must be positive, got %v", fps))
		return NewExitError(ExitCommandError, "invalid fps")
	}

	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return reportFault(formatter, err)
	}

	st := studio.New(studio.WithTickerName("render"))
	defer st.Close()

	project, err := st.Project("render", snap)
	if err != nil {
		return reportFault(formatter, err)
	}
	sh, err := project.Sheet(address.SheetID(sheet))
	if err != nil {
		return reportFault(formatter, err)
	}
	seq := sh.Sequence()
	if seq == nil {
		_ = formatter.Error("NOT_FOUND", fmt.Sprintf("sheet %q has no sequence", sheet))
		return NewExitError(ExitFailure, "nothing to render")
	}

	targets, err := declareTrackedObjects(sh, snap, address.SheetID(sheet))
	if err != nil {
		return reportFault(formatter, err)
	}

	if duration <= 0 {
		duration = seq.Length()
	}
	if _, err := seq.Play(player.PlayConfig{}); err != nil {
		return reportFault(formatter, err)
	}

	frameCount := int(math.Round(duration * fps))
	frames := make([]Frame, 0, frameCount+1)
	for i := 0; i <= frameCount; i++ {
		tm := float64(i) / fps
		st.Tick(tm)

		values := make(map[string]any, len(targets))
		for _, tgt := range targets {
			pr, prErr := graph.PointerToPrism(tgt.ptr)
			if prErr != nil {
				return prErr
			}
			values[tgt.label] = pr.Value()
		}
		frames = append(frames, Frame{Time: tm, Values: values})
	}
	formatter.VerboseLog("rendered %d frames at %v fps", len(frames), fps)

	if opts.Format == "json" {
		return formatter.Success(frames)
	}
	var b strings.Builder
	for i, frame := range frames {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatFrame(frame))
	}
	return formatter.Success(b.String())
}

// declareTrackedObjects declares one object per tracked object key, with a
// shorthand inferred from its tracks, and returns the pointers to every
// tracked prop.
func declareTrackedObjects(sh *studio.Sheet, snap *snapshot.Snapshot, sheet address.SheetID) ([]renderTarget, error) {
	seqState := snap.SheetsByID[sheet].Sequence

	keys := make([]address.ObjectKey, 0, len(seqState.TracksByObject))
	for key := range seqState.TracksByObject {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var targets []renderTarget
	for _, key := range keys {
		objTracks := seqState.TracksByObject[key]
		shorthand, paths, err := inferShorthand(objTracks)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", key, err)
		}
		obj, err := sh.Object(key, shorthand)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			targets = append(targets, renderTarget{
				label: string(key) + "." + p.Encode(),
				ptr:   obj.Pointer().At(p),
			})
		}
	}
	return targets, nil
}

// inferShorthand builds an object shorthand tree whose leaves are the first
// keyframe values of the object's tracks.
func inferShorthand(objTracks snapshot.ObjectTracks) (map[string]any, []address.PropPath, error) {
	encoded := make([]string, 0, len(objTracks.TrackIDByPropPath))
	for e := range objTracks.TrackIDByPropPath {
		encoded = append(encoded, e)
	}
	sort.Strings(encoded)

	shorthand := make(map[string]any)
	paths := make([]address.PropPath, 0, len(encoded))
	for _, e := range encoded {
		p, err := address.ParsePath(e)
		if err != nil {
			return nil, nil, err
		}
		if len(p) == 0 {
			return nil, nil, fmt.Errorf("track path %s must not be empty", e)
		}
		tr := objTracks.TrackData[objTracks.TrackIDByPropPath[e]]
		var leaf any = 0.0
		if len(tr.Keyframes) > 0 {
			leaf = tr.Keyframes[0].Value
		}

		node := shorthand
		for _, seg := range p[:len(p)-1] {
			child, isMap := node[seg].(map[string]any)
			if !isMap {
				if _, taken := node[seg]; taken {
					return nil, nil, fmt.Errorf("track paths conflict at segment %q", seg)
				}
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		last := p[len(p)-1]
		if _, taken := node[last]; taken {
			return nil, nil, fmt.Errorf("track paths conflict at segment %q", last)
		}
		node[last] = leaf
		paths = append(paths, p)
	}
	return shorthand, paths, nil
}

func formatFrame(f Frame) string {
	labels := make([]string, 0, len(f.Values))
	for label := range f.Values {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	fmt.Fprintf(&b, "t=%.4f", f.Time)
	for _, label := range labels {
		fmt.Fprintf(&b, " %s=%v", label, f.Values[label])
	}
	return b.String()
}
