package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDataDirectory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "raw"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blocked-edges"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "channels"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw", "metadata.json"), []byte("{}"), 0o644))
	return dir
}

func TestBuildRunsPipelineAndPrintsWireGraph(t *testing.T) {
	dataDir := writeDataDirectory(t)
	inputDir := t.TempDir()
	input := writeGraphFile(t, inputDir, "input.json", `{
		"nodes": [
			{"version": "4.0.0", "payload": "p0", "metadata": {}},
			{"version": "4.1.0", "payload": "p1", "metadata": {"io.openshift.upgrades.graph.previous.add": "4.0.0"}}
		],
		"edges": []
	}`)

	cmd := newBuildCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--input", input, "--data-directory", dataDir})

	require.NoError(t, cmd.Execute())

	var result struct {
		Nodes []struct {
			Version string `json:"version"`
		} `json:"nodes"`
		Edges [][2]int `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.Len(t, result.Nodes, 2)
	require.Equal(t, [][2]int{{0, 1}}, result.Edges)
}
