package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	app := newApp(dir)
	out := new(bytes.Buffer)
	app.Writer = out
	app.ErrWriter = new(bytes.Buffer)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"midg", "--config", filepath.Join(dir, "config.yaml")}, args...))
	return out.String(), err
}

func TestSize(t *testing.T) {
	tables := []struct {
		name string
		args []string
		want string
	}{
		{"bpp", []string{"--width", "4", "--height", "4", "--bpp", "3"}, "63\n"},
		{"flags", []string{"--width", "4", "--height", "4", "--flags", "4"}, "84\n"},
		{"max", []string{"--width", "65535", "--height", "1", "--bpp", "1"}, "131070\n"},
	}

	for _, table := range tables {
		table := table
		t.Run(table.name, func(t *testing.T) {
			out, err := runApp(t, append([]string{"size"}, table.args...)...)
			require.NoError(t, err)
			assert.Equal(t, table.want, out)
		})
	}
}

func TestSizeOutOfRange(t *testing.T) {
	tables := []struct {
		name string
		args []string
	}{
		{"width", []string{"--width", "70000", "--height", "1", "--bpp", "1"}},
		{"height", []string{"--width", "1", "--height", "65536", "--bpp", "1"}},
		{"bpp", []string{"--width", "1", "--height", "1", "--bpp", "65539"}},
		{"flags", []string{"--width", "1", "--height", "1", "--flags", "258"}},
		{"missing bpp", []string{"--width", "1", "--height", "1"}},
	}

	for _, table := range tables {
		table := table
		t.Run(table.name, func(t *testing.T) {
			out, err := runApp(t, append([]string{"size"}, table.args...)...)
			assert.Error(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [\n"), 0o644))

	app := newApp(dir)
	app.Writer = new(bytes.Buffer)
	app.ErrWriter = new(bytes.Buffer)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run([]string{"midg", "--config", path, "scan", dir})
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, defaultDB))
}
