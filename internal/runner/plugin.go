// Package runner implements the plugin composition engine: the uniform
// Plugin interface fronting internal (native) and external (WASM/
// subprocess) plugins, sequential pipeline composition, and a dual
// timeout mechanism that bounds a full pipeline run.
package runner

import (
	"context"

	"github.com/openshift/cincinnati/internal/pluginio"
)

// Plugin is any unit of graph transformation that can run inside a
// pipeline. Internal and external plugins are adapted to this interface by
// WrapInternal/WrapExternal so both kinds can live in the same ordered
// slice.
type Plugin interface {
	Name() string
	Run(ctx context.Context, io pluginio.IO) (pluginio.IO, error)
}

// InternalPlugin is implemented by native plugins operating directly on
// the in-memory graph.
type InternalPlugin interface {
	Name() string
	RunInternal(ctx context.Context, io pluginio.InternalIO) (pluginio.InternalIO, error)
}

// ExternalPlugin is implemented by plugins that only ever see the opaque
// byte encoding of a PluginExchange (subprocess or WASM guest plugins).
type ExternalPlugin interface {
	Name() string
	RunExternal(ctx context.Context, io pluginio.ExternalIO) (pluginio.ExternalIO, error)
}

type internalPluginWrapper struct{ p InternalPlugin }

func (w internalPluginWrapper) Name() string { return w.p.Name() }

func (w internalPluginWrapper) Run(ctx context.Context, io pluginio.IO) (pluginio.IO, error) {
	in, err := pluginio.ToInternal(io)
	if err != nil {
		return pluginio.IO{}, err
	}
	out, err := w.p.RunInternal(ctx, in)
	if err != nil {
		return pluginio.IO{}, err
	}
	return pluginio.WrapInternal(out), nil
}

type externalPluginWrapper struct{ p ExternalPlugin }

func (w externalPluginWrapper) Name() string { return w.p.Name() }

func (w externalPluginWrapper) Run(ctx context.Context, io pluginio.IO) (pluginio.IO, error) {
	in, err := pluginio.ToExternal(io)
	if err != nil {
		return pluginio.IO{}, err
	}
	out, err := w.p.RunExternal(ctx, in)
	if err != nil {
		return pluginio.IO{}, err
	}
	return pluginio.WrapExternal(out), nil
}

// WrapInternal adapts an InternalPlugin to the uniform Plugin interface,
// converting IO at the boundary.
func WrapInternal(p InternalPlugin) Plugin { return internalPluginWrapper{p} }

// WrapExternal adapts an ExternalPlugin to the uniform Plugin interface,
// converting IO at the boundary.
func WrapExternal(p ExternalPlugin) Plugin { return externalPluginWrapper{p} }
