package prop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
)

func TestCompile_Shorthand(t *testing.T) {
	cfg, err := Compile(map[string]any{
		"position": map[string]any{"x": 0.0, "y": 1.5},
		"label":    "untitled",
		"visible":  true,
	})
	require.NoError(t, err)

	root, isCompound := cfg.(*Compound)
	require.True(t, isCompound)

	defaults := DefaultOf(root).(map[string]any)
	assert.Equal(t, "untitled", defaults["label"])
	assert.Equal(t, true, defaults["visible"])

	pos := defaults["position"].(map[string]any)
	assert.Equal(t, 0.0, pos["x"])
	assert.Equal(t, 1.5, pos["y"])
}

func TestCompile_MapFieldsSortedByKey(t *testing.T) {
	cfg, err := Compile(map[string]any{"z": 1.0, "a": 2.0, "m": 3.0})
	require.NoError(t, err)

	root := cfg.(*Compound)
	keys := make([]string, len(root.Fields))
	for i, f := range root.Fields {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"a", "m", "z"}, keys)
}

func TestCompile_ExplicitConfigPassesThrough(t *testing.T) {
	n := mustNumber(t, 2, WithRange(0, 5))

	cfg, err := Compile(map[string]any{"speed": n})
	require.NoError(t, err)

	root := cfg.(*Compound)
	require.Len(t, root.Fields, 1)
	assert.Same(t, n, root.Fields[0].Config)
}

func TestCompile_UnrecognizedLiteralFailsFast(t *testing.T) {
	_, err := Compile(map[string]any{"bad": []int{1, 2}})
	require.Error(t, err)
	assert.True(t, faults.IsInvalidConfig(err))

	_, err = Compile(struct{}{})
	assert.True(t, faults.IsInvalidConfig(err))
}

func TestCompileCompound_RejectsLeafRoot(t *testing.T) {
	_, err := CompileCompound(1.0)
	require.Error(t, err)
	assert.True(t, faults.IsInvalidConfig(err))
}

func TestAt(t *testing.T) {
	cfg, err := Compile(map[string]any{
		"position": map[string]any{"x": 0.0, "y": 0.0},
		"label":    "untitled",
	})
	require.NoError(t, err)

	path, err := address.NewPropPath("position", "x")
	require.NoError(t, err)

	sub, err := At(cfg, path)
	require.NoError(t, err)
	_, isNumber := sub.(*Number)
	assert.True(t, isNumber)

	// Empty path resolves to the config itself.
	self, err := At(cfg, nil)
	require.NoError(t, err)
	assert.Same(t, cfg, self)

	// Unknown field.
	badPath, err := address.NewPropPath("nope")
	require.NoError(t, err)
	_, err = At(cfg, badPath)
	assert.True(t, faults.IsInvalidArgument(err))

	// Descending into a leaf.
	leafPath, err := address.NewPropPath("label", "deeper")
	require.NoError(t, err)
	_, err = At(cfg, leafPath)
	assert.True(t, faults.IsInvalidArgument(err))
}
