package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/ssargent/tilemaze/pkg/di"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	dir     string
	mazeDir string
	saveDir string
	dataDir string
	config  string
}

func newCLIEnv(t *testing.T, pieces int) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := &cliEnv{
		dir:     dir,
		mazeDir: filepath.Join(dir, "input"),
		saveDir: filepath.Join(dir, "saves"),
		dataDir: filepath.Join(dir, "data"),
		config:  filepath.Join(dir, "config.yaml"),
	}
	require.NoError(t, os.MkdirAll(env.mazeDir, 0750))
	if pieces > 0 {
		require.NoError(t, os.WriteFile(filepath.Join(env.mazeDir, "default.mze"), definitionBytes(pieces), 0600))
	}
	SetContainer(di.NewContainer())
	return env
}

// definitionBytes builds a definition with n pieces of one segment each
func definitionBytes(n int) []byte {
	field := make([]byte, 4)
	buf := []byte{0xCA, 0xFE, 0xBE, 0xEF}
	put := func(v int32) {
		codec.PutInt32(field, v)
		buf = append(buf, field...)
	}
	putF := func(v float32) {
		codec.PutFloat32(field, v)
		buf = append(buf, field...)
	}

	put(int32(n))
	for i := 0; i < n; i++ {
		put(0)
		put(int32(i))
		put(1)
		putF(float32(i))
		putF(0)
		putF(float32(i))
		putF(1)
	}
	return buf
}

// resetFlags puts every flag of every command back to its default so
// runs against the shared root command do not leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with stdin and returns stdout
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{
		"--config", e.config,
		"--maze-dir", e.mazeDir,
		"--save-dir", e.saveDir,
		"--data-dir", e.dataDir,
		"--log-level", "error",
	}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func (e *cliEnv) runGame(t *testing.T, args ...string) gameView {
	t.Helper()
	out := e.mustRun(t, append(args, "-q", "-o", "json")...)
	var view gameView
	require.NoError(t, json.Unmarshal([]byte(out), &view), out)
	return view
}
