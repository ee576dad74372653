package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openshift/cincinnati/internal/cerrors"
	"github.com/openshift/cincinnati/internal/pluginio"
	"github.com/openshift/cincinnati/internal/tracing"
)

// Process drives plugins sequentially: each plugin receives the previous
// plugin's output (converted to its preferred IO variant at the boundary)
// and its own output becomes the next plugin's input. Plugins run one at a
// time, in the order given; there is no parallelism across plugins.
func Process(ctx context.Context, log *logrus.Entry, plugins []Plugin, initial pluginio.IO) (pluginio.InternalIO, error) {
	ctx, endOuter := tracing.StartSpan(ctx, log, "plugins")
	defer endOuter()

	io := initial
	for _, p := range plugins {
		pluginCtx, endPlugin := tracing.StartSpan(ctx, log, p.Name())
		log.WithField("plugin", p.Name()).Trace("running next plugin")

		out, err := p.Run(pluginCtx, io)
		endPlugin()
		if err != nil {
			return pluginio.InternalIO{}, err
		}
		io = out
	}

	return pluginio.ToInternal(io)
}

type blockingResult struct {
	io  pluginio.InternalIO
	err error
}

// ProcessBlocking synchronously runs the pipeline to completion with two
// redundant timeout mechanisms:
//
//  1. an async timeout of exactly *timeout, implemented with
//     context.WithTimeout wrapping the cooperative pipeline;
//  2. a watchdog goroutine that, after deadline = timeout + timeout/100
//     (101% of timeout), force-delivers a TimeoutExceeded error over a
//     buffered channel.
//
// Whichever fires first wins. Both are kept because a plugin invoking
// call-free busy work (or cgo) can starve the Go scheduler enough that the
// context deadline alone would not be noticed promptly; the watchdog is a
// second, independent clock. If timeout is nil the pipeline runs
// unbounded. A watchdog goroutine that outlives its request (because the
// pipeline finished first) is an acceptable, documented leak.
func ProcessBlocking(ctx context.Context, log *logrus.Entry, plugins []Plugin, initial pluginio.IO, timeout *time.Duration) (pluginio.InternalIO, error) {
	if timeout == nil {
		return Process(ctx, log, plugins, initial)
	}
	if *timeout <= 0 {
		return pluginio.InternalIO{}, &cerrors.TimeoutExceeded{Timeout: timeout.String()}
	}

	requestID := uuid.NewString()
	log = log.WithField("request_id", requestID)

	deadline := *timeout + *timeout/100

	cctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	done := make(chan blockingResult, 1)
	go func() {
		out, err := Process(cctx, log, plugins, initial)
		done <- blockingResult{io: out, err: err}
	}()

	watchdog := make(chan blockingResult, 1)
	go func() {
		timer := time.NewTimer(deadline)
		defer timer.Stop()
		<-timer.C
		watchdog <- blockingResult{err: &cerrors.TimeoutExceeded{Timeout: timeout.String()}}
	}()

	select {
	case r := <-done:
		return r.io, r.err
	case <-cctx.Done():
		log.WithField("timeout", timeout.String()).Warn("pipeline exceeded async timeout")
		return pluginio.InternalIO{}, &cerrors.TimeoutExceeded{Timeout: timeout.String()}
	case r := <-watchdog:
		log.WithField("deadline", deadline.String()).Warn("pipeline exceeded watchdog deadline")
		return r.io, r.err
	}
}
