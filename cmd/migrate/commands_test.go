package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestListEmbeddedMigrations(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "20260301090000_init_schema")
}

func TestCreateThenList(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "create", "Add Order Index", "speeds up user lookups", "--dir", dir)
	require.NoError(t, err)

	paths := strings.Fields(out)
	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], "_add_order_index.up.sql"))
	assert.True(t, strings.HasSuffix(paths[1], "_add_order_index.down.sql"))

	up, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(up), "speeds up user lookups")

	out, err = execute(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(filepath.Base(paths[0]), ".up.sql")+"\n", out)
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"steps without count", []string{"steps"}},
		{"steps with non-number", []string{"steps", "two"}},
		{"force with non-number", []string{"force", "latest"}},
		{"goto negative", []string{"goto", "-3"}},
		{"create without name", []string{"create"}},
		{"up with extra args", []string{"up", "now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
