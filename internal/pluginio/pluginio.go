// Package pluginio defines the two IO envelopes plugins exchange data
// through — InternalIO (native graph + parameters) and ExternalIO (opaque
// bytes encoding a PluginExchange message) — plus total conversions
// between them and a generic IO sum type used by the runner to move data
// between plugins of either kind without caring which one produced it.
package pluginio

import (
	"encoding/json"
	"fmt"

	"github.com/openshift/cincinnati/internal/graph"
	"github.com/openshift/cincinnati/internal/wireformat"
)

// InternalIO is the IO envelope native plugins operate on.
type InternalIO struct {
	Graph      *graph.Graph
	Parameters map[string]string
}

// ExternalIO is the IO envelope external (non-native) plugins operate on:
// an opaque byte sequence encoding a PluginExchange message.
type ExternalIO struct {
	Bytes []byte
}

// IO is the sum type the runner threads between plugins. Exactly one of
// Internal or External is set.
type IO struct {
	Internal *InternalIO
	External *ExternalIO
}

// WrapInternal trivially wraps an InternalIO into the generic envelope.
func WrapInternal(io InternalIO) IO {
	return IO{Internal: &io}
}

// WrapExternal trivially wraps an ExternalIO into the generic envelope.
func WrapExternal(io ExternalIO) IO {
	return IO{External: &io}
}

// PluginExchange is the message passed to and from an external plugin: a
// wire graph plus a string->string parameter map. This package JSON-encodes
// it, the same framing used between the runner and WASM-hosted external
// plugins (internal/plugins/external).
type PluginExchange struct {
	Graph      wireformat.Graph  `json:"graph"`
	Parameters map[string]string `json:"parameters"`
}

// ToExternal converts an IO envelope to its External representation,
// serializing the native graph to wire form if the envelope currently
// holds InternalIO.
func ToExternal(io IO) (ExternalIO, error) {
	if io.External != nil {
		return *io.External, nil
	}
	if io.Internal == nil {
		return ExternalIO{}, fmt.Errorf("pluginio: empty IO envelope")
	}

	wg, err := wireformat.FromGraph(io.Internal.Graph)
	if err != nil {
		return ExternalIO{}, fmt.Errorf("converting internal IO to external: %w", err)
	}

	exchange := PluginExchange{Graph: *wg, Parameters: io.Internal.Parameters}
	bytes, err := json.Marshal(exchange)
	if err != nil {
		return ExternalIO{}, fmt.Errorf("encoding plugin exchange: %w", err)
	}
	return ExternalIO{Bytes: bytes}, nil
}

// ToInternal converts an IO envelope to its Internal representation,
// decoding bytes and reconstructing the native graph if the envelope
// currently holds ExternalIO. This can fail if the bytes are malformed.
func ToInternal(io IO) (InternalIO, error) {
	if io.Internal != nil {
		return *io.Internal, nil
	}
	if io.External == nil {
		return InternalIO{}, fmt.Errorf("pluginio: empty IO envelope")
	}

	var exchange PluginExchange
	if err := json.Unmarshal(io.External.Bytes, &exchange); err != nil {
		return InternalIO{}, fmt.Errorf("decoding plugin exchange: %w", err)
	}

	g, err := wireformat.ToGraph(&exchange.Graph)
	if err != nil {
		return InternalIO{}, fmt.Errorf("converting external IO to internal: %w", err)
	}

	return InternalIO{Graph: g, Parameters: exchange.Parameters}, nil
}
