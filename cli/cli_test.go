package cli

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "binheap.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	help(&buf)
	assert.Contains(t, buf.String(), "-t [type]")
}

func TestDefaults(t *testing.T) {
	fs := newFlags()
	opts, err := ParseArgs(fs, []string{"pop", "jobs"})
	require.NoError(t, err)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.Equal(t, "min", opts.HeapType)
	assert.Equal(t, DefaultRedisURL, opts.RedisURL)
	assert.Equal(t, -1, opts.FailAfter)
	assert.Equal(t, []string{"pop", "jobs"}, fs.Args())
	assert.Equal(t, []string{"pop", "jobs"}, opts.Args)
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, `
[heap]
type = "max"

[redis]
url = "redis://10.0.0.1:6379/3"

[log]
level = "debug"

[fault]
fail_after = 4
`)

	opts, err := ParseArgs(newFlags(), []string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "max", opts.HeapType)
	assert.Equal(t, "redis://10.0.0.1:6379/3", opts.RedisURL)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, 4, opts.FailAfter)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, `
[heap]
type = "max"
[log]
level = "debug"
`)

	opts, err := ParseArgs(newFlags(), []string{"-c", path, "-t", "min"})
	require.NoError(t, err)
	assert.Equal(t, "min", opts.HeapType)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestBadConfig(t *testing.T) {
	_, err := ParseArgs(newFlags(), []string{"-c", writeConfig(t, "[heap\ntype=")})
	assert.Error(t, err)

	_, err = ParseArgs(newFlags(), []string{"-c", "/nonexistent/binheap.toml"})
	assert.Error(t, err)

	_, err = ParseArgs(newFlags(), []string{"-t", "median"})
	assert.Error(t, err)
}

func TestConfigTypeErrors(t *testing.T) {
	opts := CmdOptions{GlobalConfig: map[string]any{
		"heap":  map[string]any{"type": 12},
		"fault": map[string]any{"fail_after": "soon"},
		"redis": "not a table",
	}}
	assert.Equal(t, "min", opts.String("heap", "type", "min"))
	assert.Equal(t, -1, opts.Int("fault", "fail_after", -1))
	assert.Equal(t, "x", opts.String("redis", "url", "x"))
	assert.Equal(t, "y", opts.String("missing", "url", "y"))
}
