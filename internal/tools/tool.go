// Package tools routes structured operation requests from the intent
// resolver to the concrete communication handlers. Every dispatch returns a
// single string envelope: raw provider JSON on success, {"error": ...} on
// any failure. No error escapes the dispatcher, and nothing here retries:
// a duplicate airtime send or voice call costs real money.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sautihq/sauti/internal/llm"
	"github.com/sautihq/sauti/internal/logging"
	"github.com/sautihq/sauti/internal/redact"
)

// Tool is one named operation the assistant can dispatch.
type Tool interface {
	// Name returns the operation identifier.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Parameters returns the JSON Schema for the operation's arguments.
	Parameters() json.RawMessage

	// Execute validates arguments and runs the operation, returning the
	// provider's raw response. Validation failures come back as errors
	// before any external call is made.
	Execute(ctx context.Context, args map[string]string) (string, error)
}

// Registry holds available tools in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns model-ready tool definitions for all registered tools.
func (r *Registry) Definitions() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// AuditSink records completed dispatches. Implemented by the sqlite call
// log; nil sinks are allowed.
type AuditSink interface {
	RecordDispatch(ctx context.Context, operation string, args map[string]string, ok bool, detail string, duration time.Duration)
}

// Recorder counts dispatch outcomes. Implemented by the metrics registry;
// nil recorders are allowed.
type Recorder interface {
	ObserveDispatch(operation, outcome string)
}

// Dispatcher invokes tools by operation name and normalizes outcomes.
type Dispatcher struct {
	registry *Registry
	audit    AuditSink
	recorder Recorder
	log      *logging.Logger
}

// NewDispatcher creates a dispatcher. audit and recorder may be nil.
func NewDispatcher(registry *Registry, audit AuditSink, recorder Recorder, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		audit:    audit,
		recorder: recorder,
		log:      log.Sub("dispatch"),
	}
}

// Definitions exposes the registry's tool definitions.
func (d *Dispatcher) Definitions() []llm.ToolDef {
	return d.registry.Definitions()
}

// Dispatch runs one operation and returns the uniform string envelope.
// Side effects happen at most once per call.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, args map[string]string) string {
	start := time.Now()

	tool, ok := d.registry.Get(operation)
	if !ok {
		d.log.Warn().Str("operation", operation).Msg("unknown operation")
		d.observe(ctx, operation, args, false, "unknown operation", start)
		return errorEnvelope(fmt.Sprintf("unknown operation: %s", operation))
	}

	d.log.Info().
		Str("operation", operation).
		Interface("args", redact.Args(args)).
		Msg("dispatching")

	result, err := tool.Execute(ctx, args)
	if err != nil {
		d.log.Error().Str("operation", operation).Err(err).Msg("operation failed")
		d.observe(ctx, operation, args, false, err.Error(), start)
		return errorEnvelope(err.Error())
	}

	d.observe(ctx, operation, args, true, "", start)
	return result
}

func (d *Dispatcher) observe(ctx context.Context, operation string, args map[string]string, ok bool, detail string, start time.Time) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	if d.recorder != nil {
		d.recorder.ObserveDispatch(operation, outcome)
	}
	if d.audit != nil {
		d.audit.RecordDispatch(ctx, operation, redact.Args(args), ok, detail, time.Since(start))
	}
}

// errorEnvelope wraps a message in the uniform failure envelope.
func errorEnvelope(msg string) string {
	out, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return `{"error":"internal error"}`
	}
	return string(out)
}
