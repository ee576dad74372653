package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeGraphFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDiffReportsEqualGraphs(t *testing.T) {
	dir := t.TempDir()
	left := writeGraphFile(t, dir, "left.json", `{"nodes":[{"version":"4.1.0","payload":"p","metadata":{}}],"edges":[]}`)
	right := writeGraphFile(t, dir, "right.json", `{"nodes":[{"version":"4.1.0","payload":"p","metadata":{}}],"edges":[]}`)

	cmd := newDiffCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{left, right})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "graphs are equal")
}

func TestDiffReportsDifferingGraphs(t *testing.T) {
	dir := t.TempDir()
	left := writeGraphFile(t, dir, "left.json", `{"nodes":[{"version":"4.1.0","payload":"p","metadata":{}}],"edges":[]}`)
	right := writeGraphFile(t, dir, "right.json", `{"nodes":[{"version":"4.2.0","payload":"p","metadata":{}}],"edges":[]}`)

	cmd := newDiffCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{left, right})

	require.ErrorIs(t, cmd.Execute(), errGraphsDiffer)
	require.Contains(t, out.String(), "graphs differ")
}

func TestDiffRejectsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	left := writeGraphFile(t, dir, "left.json", `not json`)
	right := writeGraphFile(t, dir, "right.json", `{"nodes":[],"edges":[]}`)

	cmd := newDiffCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{left, right})

	require.Error(t, cmd.Execute())
}
