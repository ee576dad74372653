// Package tracing provides minimal span bookkeeping: an outer span for a
// full pipeline run and a child span per plugin. Spans are logged through
// logrus rather than exported to an external collector - this is purely
// an observability aid and must never affect pipeline behavior.
package tracing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type spanKey struct{}

// spanInfo threads the active span's name and its parent's name through a
// context so a child span's log line can report its parent.
type spanInfo struct {
	name   string
	parent string
}

// StartSpan opens a span named name as a child of whatever span is active
// on ctx (if any), logs its start, and returns a derived context plus an
// end func to call when the span completes.
func StartSpan(ctx context.Context, log *logrus.Entry, name string) (context.Context, func()) {
	parent := ""
	if p, ok := ctx.Value(spanKey{}).(spanInfo); ok {
		parent = p.name
	}

	start := time.Now()
	log.WithFields(logrus.Fields{"span": name, "parent_span": parent}).Trace("span started")

	next := context.WithValue(ctx, spanKey{}, spanInfo{name: name, parent: parent})
	return next, func() {
		log.WithFields(logrus.Fields{
			"span":     name,
			"duration": time.Since(start).String(),
		}).Trace("span finished")
	}
}
