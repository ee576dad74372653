package wireformat

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/cincinnati/internal/graph"
)

func TestSerializeThreeNodeLineGraph(t *testing.T) {
	g := graph.New()
	ids := make(map[string]graph.ReleaseID)
	for _, v := range []string{"1.0.0", "2.0.0", "3.0.0"} {
		id, err := g.AddRelease(graph.NewConcreteRelease(v, "image/"+v, nil))
		require.NoError(t, err)
		ids[v] = id
	}
	require.NoError(t, g.AddEdge(ids["1.0.0"], ids["2.0.0"]))
	require.NoError(t, g.AddEdge(ids["2.0.0"], ids["3.0.0"]))
	require.NoError(t, g.AddEdge(ids["1.0.0"], ids["3.0.0"]))

	out, err := Marshal(g)
	require.NoError(t, err)

	const expected = `{"nodes":[{"version":"1.0.0","payload":"image/1.0.0","metadata":{}},{"version":"2.0.0","payload":"image/2.0.0","metadata":{}},{"version":"3.0.0","payload":"image/3.0.0","metadata":{}}],"edges":[[0,1],[1,2],[0,2]]}`
	assert.JSONEq(t, expected, string(out))
	assert.Equal(t, expected, string(out))
}

func TestRoundTripConcreteOnly(t *testing.T) {
	g := graph.New()
	a, _ := g.AddRelease(graph.NewConcreteRelease("1.0.0", "p1", map[string]string{"k": "v"}))
	b, _ := g.AddRelease(graph.NewConcreteRelease("2.0.0", "p2", nil))
	require.NoError(t, g.AddEdge(a, b))

	data, err := Marshal(g)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	assert.True(t, g.Equal(got))
}

func TestFromGraphRejectsAbstract(t *testing.T) {
	g := graph.New()
	_, err := g.AddRelease(graph.NewAbstractRelease("1.0.0"))
	require.NoError(t, err)

	_, err = FromGraph(g)
	require.Error(t, err)
}

func TestUnmarshalRejectsEmptyVersion(t *testing.T) {
	_, err := Unmarshal([]byte(`{"nodes":[{"version":""}],"edges":[]}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsDuplicateVersion(t *testing.T) {
	_, err := Unmarshal([]byte(`{"nodes":[{"version":"1.0.0"},{"version":"1.0.0"}],"edges":[]}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsInvalidEdgeIndex(t *testing.T) {
	_, err := Unmarshal([]byte(`{"nodes":[{"version":"1.0.0"}],"edges":[[0,5]]}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsCycle(t *testing.T) {
	_, err := Unmarshal([]byte(`{"nodes":[{"version":"1.0.0"},{"version":"2.0.0"}],"edges":[[0,1],[1,0]]}`))
	require.Error(t, err)
}

func TestUnmarshalRequiresBothTopLevelFields(t *testing.T) {
	_, err := Unmarshal([]byte(`{"nodes":[]}`))
	require.Error(t, err)

	_, err = Unmarshal([]byte(`{"edges":[]}`))
	require.Error(t, err)
}

func TestFromGraphProducesExpectedStructure(t *testing.T) {
	g := graph.New()
	a, _ := g.AddRelease(graph.NewConcreteRelease("1.0.0", "p1", map[string]string{"k": "v"}))
	b, _ := g.AddRelease(graph.NewConcreteRelease("2.0.0", "p2", nil))
	require.NoError(t, g.AddEdge(a, b))

	got, err := FromGraph(g)
	require.NoError(t, err)

	want := &Graph{
		Nodes: []Node{
			{Version: "1.0.0", Payload: "p1", Metadata: map[string]string{"k": "v"}, PayloadSet: true, MetadataSet: true},
			{Version: "2.0.0", Payload: "p2", Metadata: map[string]string{}, PayloadSet: true, MetadataSet: true},
		},
		Edges: []Edge{{0, 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromGraph() mismatch (-want +got):\n%s", diff)
	}
}

func TestAbstractNodeWireShape(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0.0"}`), &n))
	assert.False(t, n.Concrete())

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(data))
}
