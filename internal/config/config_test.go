package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudcmds/kestrel/vm"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, vm.DefaultStackSize, c.VM.StackSize)
	require.Equal(t, vm.DefaultContextCheckInterval, c.VM.CheckInterval)
	require.Equal(t, int64(0), c.VM.InstructionLimit)
	require.Equal(t, ">> ", c.REPL.Prompt)
	require.Equal(t, "vm", c.REPL.Engine)
	require.Equal(t, DefaultHistoryFile, c.REPL.HistoryFile)
	require.Nil(t, c.Validate())

	level, err := c.LogLevel()
	require.Nil(t, err)
	require.Equal(t, zerolog.WarnLevel, level)
	require.Len(t, c.VMOptions(), 2)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[vm]
stack_size = 64
instruction_limit = 10000

[repl]
prompt = "k> "
engine = "eval"

[log]
level = "debug"
`)
	c, err := Load(dir)
	require.Nil(t, err)
	require.Equal(t, 64, c.VM.StackSize)
	require.Equal(t, int64(10000), c.VM.InstructionLimit)
	require.Equal(t, vm.DefaultContextCheckInterval, c.VM.CheckInterval)
	require.Equal(t, "k> ", c.REPL.Prompt)
	require.Equal(t, "eval", c.REPL.Engine)
	require.Equal(t, filepath.Join(dir, FileName), c.Path)
	require.Len(t, c.VMOptions(), 3)

	level, err := c.LogLevel()
	require.Nil(t, err)
	require.Equal(t, zerolog.DebugLevel, level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"syntax", "[vm\n", "parse error in"},
		{"unknown key", "[vm]\nstack = 1\n", "unknown keys in"},
		{"bad engine", "[repl]\nengine = \"jit\"\n", `repl.engine must be "vm" or "eval" (got "jit")`},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"negative stack", "[vm]\nstack_size = -1\n", "vm.stack_size must not be negative"},
		{"negative limit", "[vm]\ninstruction_limit = -5\n", "vm.instruction_limit must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir)
			require.NotNil(t, err)
			require.Contains(t, err.Error(), tt.message)
		})
	}

	_, err := Load(t.TempDir())
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "cannot read")
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[vm]\nstack_size = 128\n")
	nested := filepath.Join(root, "a", "b")
	require.Nil(t, os.MkdirAll(nested, 0o755))

	c, err := FindAndLoad(nested)
	require.Nil(t, err)
	require.NotNil(t, c)
	require.Equal(t, 128, c.VM.StackSize)
}

func TestFindAndLoadMissing(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	require.Nil(t, err)
	if c != nil {
		// A kestrel.toml above the temp directory belongs to the host.
		require.NotEmpty(t, c.Path)
	}
}

func TestHistoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	c := Default()
	path, err := c.HistoryPath()
	require.Nil(t, err)
	require.Equal(t, filepath.Join(home, ".kestrel_history"), path)

	c.REPL.HistoryFile = "/tmp/history"
	path, err = c.HistoryPath()
	require.Nil(t, err)
	require.Equal(t, "/tmp/history", path)
}
