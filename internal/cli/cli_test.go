package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoSnapshotYAML = `
definitionVersion: "0.4.0"
sheetsById:
  scene:
    sequence:
      length: 2
      tracksByObject:
        box:
          trackIdByPropPath:
            '["x"]': trk-x
          trackData:
            trk-x:
              keyframes:
                - value: 0
                  position: 0
                  handles: [0.75, 0.75, 0.25, 0.25]
                - value: 10
                  position: 2
                  handles: [0.75, 0.75, 0.25, 0.25]
`

func writeSnapshot(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestValidateCommand_Text(t *testing.T) {
	path := writeSnapshot(t, demoSnapshotYAML)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "valid snapshot")
	assert.Contains(t, buf.String(), "tracks:            1")
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeSnapshot(t, demoSnapshotYAML)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateCommand_VersionMismatch(t *testing.T) {
	path := writeSnapshot(t, `{"definitionVersion": "0.1.0", "sheetsById": {}}`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SCHEMA_VERSION_MISMATCH", resp.Error.Code)
}

func TestValidateCommand_MissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSampleCommand(t *testing.T) {
	path := writeSnapshot(t, demoSnapshotYAML)

	buf := &bytes.Buffer{}
	cmd := NewSampleCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--sheet", "scene", "--object", "box", "--prop", `["x"]`, "--at", "1"})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.InDelta(t, 5.0, data["value"].(float64), 1e-3, "linear curve midpoint")
}

func TestSampleCommand_UnknownTrack(t *testing.T) {
	path := writeSnapshot(t, demoSnapshotYAML)

	buf := &bytes.Buffer{}
	cmd := NewSampleCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--sheet", "scene", "--object", "box", "--prop", `["y"]`, "--at", "1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "NOT_FOUND")
}

func TestRenderCommand(t *testing.T) {
	path := writeSnapshot(t, demoSnapshotYAML)

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--sheet", "scene", "--fps", "2"})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	frames := resp.Data.([]any)
	require.Len(t, frames, 5, "2 seconds at 2 fps, inclusive of t=0")

	first := frames[0].(map[string]any)
	assert.Equal(t, 0.0, first["time"])
	assert.Equal(t, 0.0, first["values"].(map[string]any)[`box.["x"]`])

	last := frames[len(frames)-1].(map[string]any)
	assert.Equal(t, 10.0, last["values"].(map[string]any)[`box.["x"]`])

	mid := frames[2].(map[string]any)
	assert.InDelta(t, 5.0, mid["values"].(map[string]any)[`box.["x"]`].(float64), 1e-3)
}

func TestRenderCommand_SheetWithoutSequence(t *testing.T) {
	path := writeSnapshot(t, `
definitionVersion: "0.4.0"
sheetsById:
  empty: {}
`)

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--sheet", "empty"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestVersionCommand(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewVersionCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "stagehand")
	assert.Contains(t, buf.String(), "0.4.0")
}
