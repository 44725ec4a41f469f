package loggerkit

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Vlad-tdk/LoggerKit/internal/engine"
)

// Adapter is an external sink capability. Implementations forward
// records to platform or third-party logging systems. Delivery is
// best-effort: no retry, no backpressure.
type Adapter interface {
	Log(Record)
}

// Registry owns the shared pieces of the pipeline: the adapter list,
// the per-file size tracker, and the console writer. It is the factory
// for loggers. Create one at process start, pass it by reference, and
// Close it at shutdown.
type Registry struct {
	mu       sync.Mutex
	adapters []Adapter
	loggers  []*Logger

	tracker *engine.Tracker
	console io.Writer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithConsole redirects the console destination to w (default os.Stdout).
func WithConsole(w io.Writer) RegistryOption {
	return func(r *Registry) {
		r.console = w
	}
}

// NewRegistry creates a registry with no adapters.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tracker: engine.NewTracker(),
		console: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends an adapter. Adapters are invoked in registration order.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = append(r.adapters, a)
}

// Clear removes all registered adapters.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = nil
}

// Close drains and stops every logger created by this registry.
func (r *Registry) Close() {
	r.mu.Lock()
	loggers := append([]*Logger(nil), r.loggers...)
	r.mu.Unlock()

	for _, l := range loggers {
		l.Close()
	}
}

// dispatch invokes each adapter synchronously in registration order.
// A panicking adapter is isolated: the panic is reported and dispatch
// continues with the remaining adapters.
func (r *Registry) dispatch(rec Record) {
	r.mu.Lock()
	adapters := append([]Adapter(nil), r.adapters...)
	r.mu.Unlock()

	for _, a := range adapters {
		dispatchOne(a, rec)
	}
}

func dispatchOne(a Adapter, rec Record) {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(os.Stderr, "loggerkit: adapter panic: %v\n", p)
		}
	}()
	a.Log(rec)
}
