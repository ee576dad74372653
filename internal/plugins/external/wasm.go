// Package external runs external plugins hosted as WebAssembly modules
// via wazero. A guest module receives the plugin-exchange bytes on stdin
// and is expected to write the transformed plugin-exchange bytes to
// stdout before exiting - the same framing a subprocess-hosted external
// plugin would use, just inside a sandboxed WASI guest instead of a
// forked process.
package external

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/openshift/cincinnati/internal/pluginio"
)

// Plugin runs a single compiled WASM module as a runner.ExternalPlugin.
type Plugin struct {
	name    string
	runtime wazero.Runtime
	module  wazero.CompiledModule
}

// New compiles moduleBytes under a fresh wazero runtime configured with
// WASI preview 1. The given name is used as the plugin name.
func New(ctx context.Context, name string, moduleBytes []byte) (*Plugin, error) {
	runtime := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("instantiating WASI for plugin %s: %w", name, err)
	}

	module, err := runtime.CompileModule(ctx, moduleBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("compiling WASM module for plugin %s: %w", name, err)
	}

	return &Plugin{name: name, runtime: runtime, module: module}, nil
}

// Close releases the plugin's wazero runtime.
func (p *Plugin) Close(ctx context.Context) error {
	return p.runtime.Close(ctx)
}

// Name satisfies runner.ExternalPlugin.
func (p *Plugin) Name() string { return p.name }

// RunExternal satisfies runner.ExternalPlugin: it instantiates a fresh
// guest instance per call (guests are not assumed to be safely
// re-entrant or to reset their own state between runs), feeds it the
// input bytes on stdin, and returns whatever it wrote to stdout.
func (p *Plugin) RunExternal(ctx context.Context, io pluginio.ExternalIO) (pluginio.ExternalIO, error) {
	var stdout bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName(p.name).
		WithStdin(bytes.NewReader(io.Bytes)).
		WithStdout(&stdout)

	instance, err := p.runtime.InstantiateModule(ctx, p.module, cfg)
	if err != nil {
		return pluginio.ExternalIO{}, fmt.Errorf("running external plugin %s: %w", p.name, err)
	}
	defer instance.Close(ctx)

	return pluginio.ExternalIO{Bytes: stdout.Bytes()}, nil
}
