package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/govlist/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		List: config.ListConfig{
			ItemHeight:      3,
			ContainerHeight: 20,
			Overscan:        5,
			WheelStep:       3,
			ThrottleMS:      100,
		},
		Output: config.OutputConfig{DefaultFormat: "table"},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "/var/log/govlist.log",
		},
	}
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: json
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, 5, target.List.Overscan)
}

func TestShallowMergeYAML_SectionIsReplacedWhole(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
list:
  overscan: 2
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 2, target.List.Overscan)
	assert.Zero(t, target.List.ItemHeight, "fields absent from a present section reset to zero")
	assert.Zero(t, target.List.ThrottleMS)
}

func TestShallowMergeYAML_MultipleKeys(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
logging:
  level: debug
  format: console
requires_version: ">= 0.1.0"
unknown_section:
  anything: true
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "console", target.Logging.Format)
	assert.Empty(t, target.Logging.File)
	assert.Equal(t, ">= 0.1.0", target.RequiresVersion)
	assert.Equal(t, "table", target.Output.DefaultFormat)
}

func TestShallowMergeYAML_EmptyAndCommentOnly(t *testing.T) {
	for _, content := range []string{"", "# nothing here\n"} {
		target := newDefaultTarget()
		require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, content)))
		assert.Equal(t, newDefaultTarget(), target)
	}
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "ignored"))

	err := config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	err = config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "list: [unclosed\n"))
	require.Error(t, err)

	err = config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "list:\n  overscan: many\n"))
	require.Error(t, err)
}
