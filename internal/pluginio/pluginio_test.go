package pluginio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/cincinnati/internal/graph"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	a, err := g.AddRelease(graph.NewConcreteRelease("1.0.0", "p1", nil))
	require.NoError(t, err)
	b, err := g.AddRelease(graph.NewConcreteRelease("2.0.0", "p2", nil))
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(a, b))
	return g
}

func TestInternalToExternalRoundTrip(t *testing.T) {
	io := WrapInternal(InternalIO{Graph: sampleGraph(t), Parameters: map[string]string{"k": "v"}})

	ext, err := ToExternal(io)
	require.NoError(t, err)
	assert.NotEmpty(t, ext.Bytes)

	back, err := ToInternal(WrapExternal(ext))
	require.NoError(t, err)
	assert.True(t, io.Internal.Graph.Equal(back.Graph))
	assert.Equal(t, io.Internal.Parameters, back.Parameters)
}

func TestExternalToExternalIsIdentity(t *testing.T) {
	ext := ExternalIO{Bytes: []byte(`{"graph":{"nodes":[],"edges":[]},"parameters":{}}`)}
	got, err := ToExternal(WrapExternal(ext))
	require.NoError(t, err)
	assert.Equal(t, ext, got)
}

func TestToInternalRejectsMalformedBytes(t *testing.T) {
	_, err := ToInternal(WrapExternal(ExternalIO{Bytes: []byte("not json")}))
	require.Error(t, err)
}
