package runner

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/cincinnati/internal/cerrors"
	"github.com/openshift/cincinnati/internal/graph"
	"github.com/openshift/cincinnati/internal/pluginio"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

type addMetadataPlugin struct {
	name string
	key  string
}

func (p addMetadataPlugin) Name() string { return p.name }

func (p addMetadataPlugin) RunInternal(_ context.Context, in pluginio.InternalIO) (pluginio.InternalIO, error) {
	in.Graph.FindByFnMut(func(r *graph.Release) bool {
		if r.Concrete {
			r.Metadata[p.key] = "true"
		}
		return true
	})
	return in, nil
}

type sleepyPlugin struct{ d time.Duration }

func (sleepyPlugin) Name() string { return "sleepy" }

func (p sleepyPlugin) RunInternal(ctx context.Context, in pluginio.InternalIO) (pluginio.InternalIO, error) {
	select {
	case <-time.After(p.d):
	case <-ctx.Done():
	}
	return in, nil
}

func newGraphIO(t *testing.T) pluginio.IO {
	t.Helper()
	g := graph.New()
	_, err := g.AddRelease(graph.NewConcreteRelease("1.0.0", "p", nil))
	require.NoError(t, err)
	return pluginio.WrapInternal(pluginio.InternalIO{Graph: g, Parameters: map[string]string{}})
}

func TestProcessEmptyPluginListIsIdentity(t *testing.T) {
	io := newGraphIO(t)
	out, err := Process(context.Background(), testLogger(), nil, io)
	require.NoError(t, err)
	assert.True(t, io.Internal.Graph.Equal(out.Graph))
}

func TestProcessRunsPluginsInOrder(t *testing.T) {
	plugins := []Plugin{
		WrapInternal(addMetadataPlugin{name: "first", key: "a"}),
		WrapInternal(addMetadataPlugin{name: "second", key: "b"}),
	}
	out, err := Process(context.Background(), testLogger(), plugins, newGraphIO(t))
	require.NoError(t, err)

	id, ok := out.Graph.FindByVersion("1.0.0")
	require.True(t, ok)
	r, err := out.Graph.ReleaseByID(id)
	require.NoError(t, err)
	assert.Equal(t, "true", r.Metadata["a"])
	assert.Equal(t, "true", r.Metadata["b"])
}

func TestProcessBlockingNoTimeoutNeverRaises(t *testing.T) {
	d := 10 * time.Millisecond
	plugins := []Plugin{WrapInternal(sleepyPlugin{d: d})}
	_, err := ProcessBlocking(context.Background(), testLogger(), plugins, newGraphIO(t), nil)
	require.NoError(t, err)
}

func TestProcessBlockingZeroTimeoutRaises(t *testing.T) {
	zero := time.Duration(0)
	_, err := ProcessBlocking(context.Background(), testLogger(), nil, newGraphIO(t), &zero)
	require.Error(t, err)
	var timeoutErr *cerrors.TimeoutExceeded
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestProcessBlockingTimesOut(t *testing.T) {
	timeout := 5 * time.Millisecond
	plugins := []Plugin{WrapInternal(sleepyPlugin{d: 2 * time.Second})}
	_, err := ProcessBlocking(context.Background(), testLogger(), plugins, newGraphIO(t), &timeout)
	require.Error(t, err)
	var timeoutErr *cerrors.TimeoutExceeded
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestProcessBlockingSucceedsWithinTimeout(t *testing.T) {
	timeout := 2 * time.Second
	plugins := []Plugin{WrapInternal(sleepyPlugin{d: 5 * time.Millisecond})}
	_, err := ProcessBlocking(context.Background(), testLogger(), plugins, newGraphIO(t), &timeout)
	require.NoError(t, err)
}

func TestProcessPropagatesFirstErrorAndStops(t *testing.T) {
	var ran []string
	plugins := []Plugin{
		WrapInternal(recordingPlugin{name: "a", ran: &ran}),
		WrapInternal(failingPlugin{}),
		WrapInternal(recordingPlugin{name: "c", ran: &ran}),
	}
	_, err := Process(context.Background(), testLogger(), plugins, newGraphIO(t))
	require.Error(t, err)
	assert.Equal(t, []string{"a"}, ran)
}

type recordingPlugin struct {
	name string
	ran  *[]string
}

func (p recordingPlugin) Name() string { return p.name }
func (p recordingPlugin) RunInternal(_ context.Context, in pluginio.InternalIO) (pluginio.InternalIO, error) {
	*p.ran = append(*p.ran, p.name)
	return in, nil
}

type failingPlugin struct{}

func (failingPlugin) Name() string { return "failing" }
func (failingPlugin) RunInternal(_ context.Context, in pluginio.InternalIO) (pluginio.InternalIO, error) {
	return pluginio.InternalIO{}, &cerrors.PluginError{PluginName: "failing", Kind: "boom", Value: "test"}
}
