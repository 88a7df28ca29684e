// Package telemetry provides hierarchical timing collection for the parse
// pipeline. Collectors travel through the context so instrumentation stays
// out of function signatures: code asks the context for a collector, opens
// a span, and ends it when the operation completes. Without a collector on
// the context every operation is a no-op.
//
// Example:
//
//	collector := telemetry.NewCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	span := collector.Start("load main.beancount")
//	child := span.Child("parse")
//	// ... work ...
//	child.End()
//	span.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var collectorKey = contextKey{}

// Collector collects timing spans.
type Collector interface {
	// Start opens a top-level span. End it when the operation completes.
	Start(name string) Span

	// Report writes the collected spans to w as an indented tree.
	Report(w io.Writer)
}

// Span tracks a single operation's timing and supports nesting.
type Span interface {
	// Child opens a nested span under this one.
	Child(name string) Span

	// End stops the span and records its duration.
	End()
}

// WithCollector attaches a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from a context, or a no-op collector
// when none is attached.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noop{}
}

// timingCollector is the standard Collector: a tree of timed spans.
type timingCollector struct {
	mu    sync.Mutex
	roots []*spanNode
}

// NewCollector creates an empty timing collector.
func NewCollector() Collector {
	return &timingCollector{}
}

type spanNode struct {
	collector *timingCollector
	name      string
	start     time.Time
	end       time.Time
	children  []*spanNode
}

func (c *timingCollector) Start(name string) Span {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &spanNode{collector: c, name: name, start: time.Now()}
	c.roots = append(c.roots, node)
	return node
}

func (c *timingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		writeSpan(w, root, 0)
	}
}

func (s *spanNode) Child(name string) Span {
	s.collector.mu.Lock()
	defer s.collector.mu.Unlock()

	child := &spanNode{collector: s.collector, name: name, start: time.Now()}
	s.children = append(s.children, child)
	return child
}

func (s *spanNode) End() {
	s.collector.mu.Lock()
	defer s.collector.mu.Unlock()

	if s.end.IsZero() {
		s.end = time.Now()
	}
}

func (s *spanNode) duration() time.Duration {
	if s.end.IsZero() {
		return time.Since(s.start)
	}
	return s.end.Sub(s.start)
}

func writeSpan(w io.Writer, node *spanNode, depth int) {
	for i := 0; i < depth; i++ {
		_, _ = io.WriteString(w, "  ")
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", node.name, formatDuration(node.duration()))

	for _, child := range node.children {
		writeSpan(w, child, depth+1)
	}
}

// formatDuration trims durations to a readable resolution.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Microsecond).String()
	}
}

// noop is the collector used when a context carries none.
type noop struct{}

func (noop) Start(name string) Span { return noopSpan{} }
func (noop) Report(w io.Writer)     {}

type noopSpan struct{}

func (noopSpan) Child(name string) Span { return noopSpan{} }
func (noopSpan) End()                   {}
