package graph

import "github.com/openshift/cincinnati/internal/cerrors"

// AddRelease adds a release to the graph and returns its id.
//
// If no node with r.Version exists yet, a new node is created. If a node
// with that version exists and is Abstract, its weight is replaced by r
// (whether r is Concrete or Abstract) and the existing id is returned. If
// it exists and is Concrete, ConcreteReleaseExists is returned. Adding
// never creates edges.
func (g *Graph) AddRelease(r Release) (ReleaseID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.versionIndex[r.Version]; ok {
		existing := g.nodes[id]
		if existing.release.Concrete {
			return 0, &cerrors.ConcreteReleaseExists{Version: r.Version}
		}
		existing.release = r
		return id, nil
	}

	id := g.nextNodeID
	g.nextNodeID++
	g.nodes[id] = newNode(r)
	g.versionIndex[r.Version] = id
	g.order = append(g.order, id)
	return id, nil
}

// ReleaseByID returns the release stored at id.
func (g *Graph) ReleaseByID(id ReleaseID) (Release, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return Release{}, &cerrors.NodeNotFound{ID: id}
	}
	return n.release, nil
}

// FindByVersion returns the id of the node with the given version, if any.
func (g *Graph) FindByVersion(version string) (ReleaseID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.versionIndex[version]
	return id, ok
}

// GetMetadataMut returns the mutable metadata map of a Concrete release.
// Because Go maps are reference types, edits made through the returned map
// are visible to the graph immediately; this is the sanctioned way to bulk
// edit a single release's metadata from outside FindByFnMut.
func (g *Graph) GetMetadataMut(id ReleaseID) (map[string]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, &cerrors.NodeNotFound{ID: id}
	}
	if !n.release.Concrete {
		return nil, &cerrors.NodeNotFound{ID: id}
	}
	return n.release.Metadata, nil
}

// ReleasesCount returns the total number of nodes in the graph.
func (g *Graph) ReleasesCount() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return uint64(len(g.nodes))
}

// RemoveReleases removes the nodes with the given ids and returns the
// number actually removed.
//
// ids are sorted descending before removal. Our ReleaseIDs never shift on
// removal (they are never reused or reindexed), so this ordering has no
// observable effect here, but it is preserved as a hard contract for any
// array-indexed reimplementation that reuses this API surface. Ids that
// don't resolve to a node are skipped and not counted.
func (g *Graph) RemoveReleases(ids []ReleaseID) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	sorted := append([]ReleaseID(nil), ids...)
	sortDescending(sorted)

	removed := 0
	for _, id := range sorted {
		if g.removeNodeLocked(id) {
			removed++
		}
	}
	return removed
}

// PruneAbstract removes every Abstract node and returns the count removed.
func (g *Graph) PruneAbstract() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	var toRemove []ReleaseID
	for _, id := range g.order {
		if n, ok := g.nodes[id]; ok && !n.release.Concrete {
			toRemove = append(toRemove, id)
		}
	}

	sortDescending(toRemove)
	removed := 0
	for _, id := range toRemove {
		if g.removeNodeLocked(id) {
			removed++
		}
	}
	return removed
}

// removeNodeLocked removes a single node and every edge touching it. Caller
// must hold g.mu for writing.
func (g *Graph) removeNodeLocked(id ReleaseID) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}

	for neighbor, edgeID := range n.out {
		delete(g.edges, edgeID)
		if other, ok := g.nodes[neighbor]; ok {
			delete(other.in, id)
			other.inOrder = removeFromOrder(other.inOrder, id)
		}
	}
	for neighbor, edgeID := range n.in {
		delete(g.edges, edgeID)
		if other, ok := g.nodes[neighbor]; ok {
			delete(other.out, id)
			other.outOrder = removeFromOrder(other.outOrder, id)
		}
	}

	delete(g.versionIndex, n.release.Version)
	delete(g.nodes, id)
	g.order = removeFromOrder(g.order, id)
	return true
}

func removeFromOrder(order []ReleaseID, id ReleaseID) []ReleaseID {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

func sortDescending(ids []ReleaseID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] < ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
