// Package cerrors holds the structured error kinds shared by the graph,
// plugin runner, and plugin implementations. Each kind is a plain struct
// implementing error so callers can recover context with errors.As instead
// of matching on strings.
package cerrors

import "fmt"

// EdgeAlreadyExists is returned by Graph.AddEdge when the from->to edge is
// already present.
type EdgeAlreadyExists struct {
	FromVersion string
	ToVersion   string
}

func (e *EdgeAlreadyExists) Error() string {
	return fmt.Sprintf("edge from %q to %q already exists", e.FromVersion, e.ToVersion)
}

// EdgeDoesntExist is returned by Graph.RemoveEdge when no from->to edge
// exists.
type EdgeDoesntExist struct {
	FromVersion string
	ToVersion   string
}

func (e *EdgeDoesntExist) Error() string {
	return fmt.Sprintf("edge from %q to %q doesn't exist", e.FromVersion, e.ToVersion)
}

// WouldCycle is returned by Graph.AddEdge when adding the edge would create
// a cycle. It carries the rejected edge's endpoints so the caller can react.
type WouldCycle struct {
	FromVersion string
	ToVersion   string
}

func (e *WouldCycle) Error() string {
	return fmt.Sprintf("adding edge from %q to %q would create a cycle", e.FromVersion, e.ToVersion)
}

// NodeNotFound is returned whenever an operation is given a ReleaseID or
// EdgeID that doesn't (or no longer) resolves to a node/edge.
type NodeNotFound struct {
	ID any
}

func (e *NodeNotFound) Error() string {
	return fmt.Sprintf("no release found for id %v", e.ID)
}

// ConcreteReleaseExists is returned by Graph.AddRelease when a second
// Concrete release with an already-existing version is added.
type ConcreteReleaseExists struct {
	Version string
}

func (e *ConcreteReleaseExists) Error() string {
	return fmt.Sprintf("concrete release with version %q already exists", e.Version)
}

// DeserializationError is returned when a wire graph fails one of the
// invariants checked at parse time (empty version, duplicate version,
// invalid edge index, or a cycle in the reconstructed graph).
type DeserializationError struct {
	Reason string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserializing graph: %s", e.Reason)
}

// PluginError is a structured error produced by a plugin (native or
// external) and propagated by the runner.
type PluginError struct {
	PluginName string
	Kind       string
	Value      string
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %q failed (%s): %s", e.PluginName, e.Kind, e.Value)
}

// TimeoutExceeded is returned by the runner when a pipeline run did not
// complete within its configured budget.
type TimeoutExceeded struct {
	Timeout string
}

func (e *TimeoutExceeded) Error() string {
	return fmt.Sprintf("exceeded timeout of %s", e.Timeout)
}
