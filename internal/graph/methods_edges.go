package graph

import "github.com/openshift/cincinnati/internal/cerrors"

// AddEdge adds a directed transition from -> to.
//
// Fails with EdgeAlreadyExists if the edge is already present, or with
// WouldCycle if adding it would create a directed cycle. The cycle check is
// skipped whenever it is trivially unnecessary: a parent with no incoming
// edges, or a child with no outgoing edges, cannot be part of a cycle
// created by this insertion.
func (g *Graph) AddEdge(from, to ReleaseID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEdgeLocked(from, to)
}

func (g *Graph) addEdgeLocked(from, to ReleaseID) error {
	fromNode, ok := g.nodes[from]
	if !ok {
		return &cerrors.NodeNotFound{ID: from}
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return &cerrors.NodeNotFound{ID: to}
	}

	if _, exists := fromNode.out[to]; exists {
		return &cerrors.EdgeAlreadyExists{FromVersion: fromNode.release.Version, ToVersion: toNode.release.Version}
	}

	if g.wouldCycleLocked(from, to) {
		return &cerrors.WouldCycle{FromVersion: fromNode.release.Version, ToVersion: toNode.release.Version}
	}

	id := g.nextEdgeID
	g.nextEdgeID++
	g.edges[id] = edgeRecord{from: from, to: to}
	fromNode.out[to] = id
	fromNode.outOrder = append(fromNode.outOrder, to)
	toNode.in[from] = id
	toNode.inOrder = append(toNode.inOrder, from)
	return nil
}

// wouldCycleLocked reports whether adding from->to would close a cycle,
// i.e. whether to can already reach from. Caller must hold g.mu.
func (g *Graph) wouldCycleLocked(from, to ReleaseID) bool {
	fromNode := g.nodes[from]
	toNode := g.nodes[to]
	if len(fromNode.in) == 0 || len(toNode.out) == 0 {
		// A parent with no parents, or a child with no children, cannot
		// participate in a cycle created by this single edge.
		return false
	}

	visited := map[ReleaseID]bool{to: true}
	stack := []ReleaseID{to}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == from {
			return true
		}
		for neighbor := range g.nodes[cur].out {
			if !visited[neighbor] {
				visited[neighbor] = true
				stack = append(stack, neighbor)
			}
		}
	}
	return false
}

// AddEdges applies AddEdge for each from->to pair in edges. This is
// intentionally not atomic: the first failure aborts the batch, but edges
// added before the failing pair remain in the graph. Iteration order over
// a Go map is unspecified, so which edges end up applied before a failure
// is unspecified too; callers that need a deterministic partial-application
// outcome should call AddEdge directly in their own order.
func (g *Graph) AddEdges(edges map[ReleaseID]ReleaseID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for from, to := range edges {
		if err := g.addEdgeLocked(from, to); err != nil {
			return err
		}
	}
	return nil
}

// RemoveEdge removes the from->to edge, failing with EdgeDoesntExist if
// it isn't present.
func (g *Graph) RemoveEdge(from, to ReleaseID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeEdgeLocked(from, to)
}

func (g *Graph) removeEdgeLocked(from, to ReleaseID) error {
	fromNode, ok := g.nodes[from]
	if !ok {
		return &cerrors.NodeNotFound{ID: from}
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return &cerrors.NodeNotFound{ID: to}
	}

	edgeID, exists := fromNode.out[to]
	if !exists {
		return &cerrors.EdgeDoesntExist{FromVersion: fromNode.release.Version, ToVersion: toNode.release.Version}
	}

	delete(g.edges, edgeID)
	delete(fromNode.out, to)
	fromNode.outOrder = removeFromOrder(fromNode.outOrder, to)
	delete(toNode.in, from)
	toNode.inOrder = removeFromOrder(toNode.inOrder, from)
	return nil
}

// RemoveEdgeByIndex removes the edge identified by id.
func (g *Graph) RemoveEdgeByIndex(id EdgeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeEdgeByIndexLocked(id)
}

func (g *Graph) removeEdgeByIndexLocked(id EdgeID) error {
	rec, ok := g.edges[id]
	if !ok {
		return &cerrors.NodeNotFound{ID: id}
	}
	return g.removeEdgeLocked(rec.from, rec.to)
}

// RemoveEdgesByIndex removes the edges identified by ids, stopping and
// failing at the first one that can't be removed.
func (g *Graph) RemoveEdgesByIndex(ids []EdgeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range ids {
		if err := g.removeEdgeByIndexLocked(id); err != nil {
			return err
		}
	}
	return nil
}
