package wireformat

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/openshift/cincinnati/internal/cerrors"
	"github.com/openshift/cincinnati/internal/graph"
)

// FromGraph converts a native Graph to its wire form. The wire form carries
// only Concrete nodes: encountering any Abstract release is an error, not a
// silent drop, since shipping an Abstract release to a client would leak an
// upgrade target that hasn't actually been discovered yet. Native node order
// is preserved as the wire form's positional node indices, and every edge
// of the graph is emitted once, in the order the edges were added. A graph
// without edges yields an empty (non-nil) Edges slice.
func FromGraph(g *graph.Graph) (*Graph, error) {
	ids := g.OrderedReleaseIDs()
	indexOf := make(map[graph.ReleaseID]int, len(ids))
	for i, id := range ids {
		indexOf[id] = i
	}

	wg := &Graph{Nodes: make([]Node, 0, len(ids)), Edges: []Edge{}}
	for _, id := range ids {
		r, err := g.ReleaseByID(id)
		if err != nil {
			return nil, err
		}
		if !r.Concrete {
			return nil, fmt.Errorf("converting release %q to wire form: %w", r.Version, errAbstractOnWire)
		}
		wg.Nodes = append(wg.Nodes, Node{
			Version:     r.Version,
			Payload:     r.Payload,
			Metadata:    r.Metadata,
			PayloadSet:  true,
			MetadataSet: true,
		})
	}

	type orderedEdge struct {
		id       graph.EdgeID
		from, to int
	}
	var edges []orderedEdge
	for _, id := range ids {
		it := g.NextReleases(id)
		for n, ok := it.Next(); ok; n, ok = it.Next() {
			edges = append(edges, orderedEdge{id: n.EdgeID, from: indexOf[id], to: indexOf[n.ReleaseID]})
		}
	}
	// EdgeIDs are handed out in increasing order as edges are added.
	sort.Slice(edges, func(i, j int) bool { return edges[i].id < edges[j].id })
	for _, e := range edges {
		wg.Edges = append(wg.Edges, Edge{e.from, e.to})
	}

	return wg, nil
}

var errAbstractOnWire = errors.New("native->wire conversion encountered an Abstract release")

// ToGraph reconstructs a native Graph from its wire form, rejecting:
// empty version strings, duplicate version strings, edges referencing a
// non-existent index, and any cycle in the reconstructed graph.
func ToGraph(wg *Graph) (*graph.Graph, error) {
	g := graph.New()

	ids := make([]graph.ReleaseID, 0, len(wg.Nodes))
	seenVersions := make(map[string]bool, len(wg.Nodes))

	for _, n := range wg.Nodes {
		if n.Version == "" {
			return nil, &cerrors.DeserializationError{Reason: "node has an empty version string"}
		}
		if seenVersions[n.Version] {
			return nil, &cerrors.DeserializationError{Reason: fmt.Sprintf("duplicate version %q", n.Version)}
		}
		seenVersions[n.Version] = true

		var release graph.Release
		if n.Concrete() {
			release = graph.NewConcreteRelease(n.Version, n.Payload, n.Metadata)
		} else {
			release = graph.NewAbstractRelease(n.Version)
		}

		id, err := g.AddRelease(release)
		if err != nil {
			return nil, &cerrors.DeserializationError{Reason: err.Error()}
		}
		ids = append(ids, id)
	}

	for _, e := range wg.Edges {
		if e[0] < 0 || e[0] >= len(ids) || e[1] < 0 || e[1] >= len(ids) {
			return nil, &cerrors.DeserializationError{Reason: fmt.Sprintf("edge %v references a non-existent node index", e)}
		}
		if err := g.AddEdge(ids[e[0]], ids[e[1]]); err != nil {
			return nil, &cerrors.DeserializationError{Reason: err.Error()}
		}
	}

	return g, nil
}

// Marshal serializes a native Graph to the canonical wire JSON.
func Marshal(g *graph.Graph) ([]byte, error) {
	wg, err := FromGraph(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wg)
}

// Unmarshal parses wire JSON into a native Graph, rejecting any input that
// violates the graph's structural invariants (duplicate or empty versions,
// dangling edges, cycles).
func Unmarshal(data []byte) (*graph.Graph, error) {
	var wg Graph
	if err := json.Unmarshal(data, &wg); err != nil {
		return nil, &cerrors.DeserializationError{Reason: err.Error()}
	}
	if wg.Nodes == nil {
		return nil, &cerrors.DeserializationError{Reason: "missing \"nodes\" field"}
	}
	if wg.Edges == nil {
		return nil, &cerrors.DeserializationError{Reason: "missing \"edges\" field"}
	}
	return ToGraph(&wg)
}
