package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/internal/faults"
	"github.com/stagehand-dev/stagehand/internal/snapshot"
)

// ValidationReport summarizes an ingested snapshot.
type ValidationReport struct {
	Valid             bool   `json:"valid"`
	DefinitionVersion string `json:"definitionVersion"`
	Sheets            int    `json:"sheets"`
	Sequences         int    `json:"sequences"`
	Tracks            int    `json:"tracks"`
	Revisions         int    `json:"revisions"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <snapshot-file>",
		Short: "Validate a project snapshot",
		Long: `Validate a snapshot file (.yaml, .yml, or .json) against the expected
definition version, the document shape, and track well-formedness.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	report := ValidationReport{
		Valid:             true,
		DefinitionVersion: snap.DefinitionVersion,
		Sheets:            len(snap.SheetsByID),
		Revisions:         len(snap.RevisionHistory),
	}
	for _, sheet := range snap.SheetsByID {
		if sheet.Sequence == nil {
			continue
		}
		report.Sequences++
		for _, tracks := range sheet.Sequence.TracksByObject {
			report.Tracks += len(tracks.TrackData)
		}
	}

	formatter.VerboseLog("snapshot %s ingested", path)
	if opts.Format == "json" {
		return formatter.Success(report)
	}
	return formatter.Success(formatReport(report))
}

func formatReport(r ValidationReport) string {
	return fmt.Sprintf("valid snapshot"+
		"\n  definitionVersion: %s"+
		"\n  sheets:            %d"+
		"\n  sequences:         %d"+
		"\n  tracks:            %d"+
		"\n  revisions:         %d",
		r.DefinitionVersion, r.Sheets, r.Sequences, r.Tracks, r.Revisions)
}

// reportFault prints a failed ingestion in the configured format and turns
// it into an exit code: validation faults exit 1, everything else (missing
// files, unreadable paths) exits 2.
func reportFault(f *OutputFormatter, err error) error {
	code := faults.CodeOf(err)
	if code == "" {
		_ = f.Error("IO_ERROR", err.Error())
		return WrapExitError(ExitCommandError, "snapshot not readable", err)
	}
	_ = f.Error(string(code), err.Error())
	return WrapExitError(ExitFailure, "invalid snapshot", err)
}
