package graph

import "sort"

// Equal reports whether g and other are structurally equal: every node in
// g can be matched with exactly one node in other such that (a) the
// release payloads are equal and (b) the set of neighboring releases
// (following outgoing edges) is the same on both sides. Node/edge
// insertion order and internal identifiers never affect the result.
//
// As a cheap necessary condition, graphs of different node counts are
// never equal (two graphs related by Equal necessarily have the same
// size; the node-count check only short-circuits the expensive matching
// below, it never changes which equal graphs compare equal).
func (g *Graph) Equal(other *Graph) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	if len(g.nodes) != len(other.nodes) {
		return false
	}

	for _, id := range g.order {
		n := g.nodes[id]
		matches := 0
		for _, otherID := range other.order {
			otherNode := other.nodes[otherID]
			if releaseEqual(n.release, otherNode.release) && neighborSetsEqual(g, n, other, otherNode) {
				matches++
			}
		}
		if matches != 1 {
			return false
		}
	}
	return true
}

func releaseEqual(a, b Release) bool {
	if a.Concrete != b.Concrete || a.Version != b.Version {
		return false
	}
	if !a.Concrete {
		return true
	}
	if a.Payload != b.Payload {
		return false
	}
	if len(a.Metadata) != len(b.Metadata) {
		return false
	}
	for k, v := range a.Metadata {
		if bv, ok := b.Metadata[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// neighborSetsEqual compares the outgoing-neighbor releases of n (in g)
// against those of otherNode (in other), ignoring order. Because the
// version-uniqueness invariant guarantees no two neighbors of the same
// node share a version, this reduces to a set comparison over Release
// values.
func neighborSetsEqual(g *Graph, n *node, other *Graph, otherNode *node) bool {
	if len(n.out) != len(otherNode.out) {
		return false
	}

	selfReleases := make([]Release, 0, len(n.out))
	for id := range n.out {
		selfReleases = append(selfReleases, g.nodes[id].release)
	}
	otherReleases := make([]Release, 0, len(otherNode.out))
	for id := range otherNode.out {
		otherReleases = append(otherReleases, other.nodes[id].release)
	}

	sort.Slice(selfReleases, func(i, j int) bool { return selfReleases[i].Version < selfReleases[j].Version })
	sort.Slice(otherReleases, func(i, j int) bool { return otherReleases[i].Version < otherReleases[j].Version })

	for i := range selfReleases {
		if !releaseEqual(selfReleases[i], otherReleases[i]) {
			return false
		}
	}
	return true
}
