package cli

import (
	"github.com/spf13/cobra"

	"github.com/stagehand-dev/stagehand/internal/snapshot"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/stagehand-dev/stagehand/internal/cli.Version=...".
var Version = "dev"

// VersionInfo is the JSON payload of the version command.
type VersionInfo struct {
	Version           string `json:"version"`
	DefinitionVersion string `json:"definitionVersion"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stagehand version",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format: rootOpts.Format,
				Writer: cmd.OutOrStdout(),
			}
			info := VersionInfo{
				Version:           Version,
				DefinitionVersion: snapshot.SchemaVersion,
			}
			if rootOpts.Format == "json" {
				return formatter.Success(info)
			}
			return formatter.Success("stagehand " + info.Version + " (snapshot schema " + info.DefinitionVersion + ")")
		},
	}
}
