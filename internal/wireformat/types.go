// Package wireformat implements the canonical external JSON representation
// of a release graph and lossless conversions to/from the in-memory
// internal/graph.Graph, independent of that package's internal
// representation.
package wireformat

import "encoding/json"

// Node is one entry of the wire graph's "nodes" array. A release is
// Concrete iff it carries Payload/Metadata (PayloadSet/MetadataSet track
// whether those fields were present on the wire, since an empty metadata
// object `{}` must still mark a release Concrete).
type Node struct {
	Version  string
	Payload  string
	Metadata map[string]string

	PayloadSet  bool
	MetadataSet bool
}

// Concrete reports whether this node carries a payload or metadata, the
// structural discriminator from a wire-format Abstract release.
func (n Node) Concrete() bool {
	return n.PayloadSet || n.MetadataSet
}

// Edge is a [source_index, target_index] pair referring positionally into
// Graph.Nodes.
type Edge [2]int

// Graph is the canonical wire representation: nodes plus index-based
// edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type wireNode struct {
	Version  string             `json:"version"`
	Payload  *string            `json:"payload,omitempty"`
	Metadata *map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON emits Concrete nodes with payload+metadata and Abstract
// nodes with only version, the canonical wire shape.
func (n Node) MarshalJSON() ([]byte, error) {
	wn := wireNode{Version: n.Version}
	if n.Concrete() {
		payload := n.Payload
		wn.Payload = &payload
		metadata := n.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		wn.Metadata = &metadata
	}
	return json.Marshal(wn)
}

// UnmarshalJSON reconstructs a Node, recording whether payload/metadata
// were present on the wire so Concrete() can discriminate correctly even
// for an empty metadata object.
func (n *Node) UnmarshalJSON(data []byte) error {
	var wn wireNode
	if err := json.Unmarshal(data, &wn); err != nil {
		return err
	}
	n.Version = wn.Version
	if wn.Payload != nil {
		n.Payload = *wn.Payload
		n.PayloadSet = true
	}
	if wn.Metadata != nil {
		n.Metadata = *wn.Metadata
		n.MetadataSet = true
	} else {
		n.Metadata = nil
	}
	return nil
}
