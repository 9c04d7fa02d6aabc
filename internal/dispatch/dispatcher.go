// Package dispatch implements the core dispatch engine: it matches an
// inbound event's transport type and attributes against the declarative
// routing table, resolves the target handler in the registry, validates the
// payload, and invokes the handler under a fault boundary.
//
// The dispatcher holds the routing table and handler registry as one
// immutable snapshot behind an atomic pointer. A rebuild constructs a new
// snapshot and swaps the pointer; a concurrent Dispatch observes either the
// old snapshot or the new one, never a partially built table. Before the
// first swap the snapshot is empty and every event is Unrouted.
//
// Dispatch state machine:
//
//	Received -> {Matched | Unrouted}
//	        -> {HandlerResolved | ConfigurationError}
//	        -> {Validated | Rejected}
//	        -> Invoked -> {Completed | Failed}
//
// No handler failure ever propagates to the calling connector: panics and
// errors surface as a structured Result.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/eventgate-io/eventgate-go/internal/registry"
	"github.com/eventgate-io/eventgate-go/pkg/handler"
	"github.com/eventgate-io/eventgate-go/pkg/routing"
)

// Recorder receives a record of every terminal dispatch outcome. The audit
// log implements this; a nil recorder disables recording.
type Recorder interface {
	Record(process, transport, status string, duration time.Duration)
}

// snapshot pairs the routing table with the handler registry so both are
// swapped as one unit.
type snapshot struct {
	table    *routing.Table
	registry *registry.Registry
}

// Dispatcher composes the trigger matcher, handler registry and fault
// boundary. Safe for concurrent use; Dispatch runs synchronously on the
// caller's goroutine and starts no internal workers.
type Dispatcher struct {
	current  atomic.Pointer[snapshot]
	logger   *zap.Logger
	recorder Recorder
}

// New creates a dispatcher over the given table and registry. Either may be
// nil, in which case every event is Unrouted (table) or ConfigurationError
// (registry) until Swap installs a real snapshot. A nil logger disables
// logging; a nil recorder disables audit recording.
func New(table *routing.Table, reg *registry.Registry, logger *zap.Logger, recorder Recorder) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{logger: logger, recorder: recorder}
	d.current.Store(&snapshot{table: table, registry: reg})
	return d
}

// Swap atomically installs a new routing table and handler registry as one
// snapshot. In-flight dispatches keep the snapshot they loaded.
func (d *Dispatcher) Swap(table *routing.Table, reg *registry.Registry) {
	d.current.Store(&snapshot{table: table, registry: reg})
	d.logger.Info("dispatch snapshot swapped",
		zap.Int("routings", table.Len()),
		zap.Int("handlers", reg.Len()))
}

// Snapshot returns the current routing table and registry for
// introspection. The returned values are immutable.
func (d *Dispatcher) Snapshot() (*routing.Table, *registry.Registry) {
	snap := d.current.Load()
	if snap == nil {
		return nil, nil
	}
	return snap.table, snap.registry
}

// Dispatch routes one inbound event to its handler and returns the
// structured outcome. It is the single entry point connectors use.
func (d *Dispatcher) Dispatch(ctx context.Context, transport string, attrs map[string]string, payload handler.Payload, mode Mode) Result {
	start := time.Now()
	snap := d.current.Load()

	var table *routing.Table
	var reg *registry.Registry
	if snap != nil {
		table, reg = snap.table, snap.registry
	}

	process, trigger, ok := table.Match(transport, attrs)
	if !ok {
		if mode == BestEffort {
			res := Result{Status: StatusCompleted, Output: handler.Payload{}}
			d.report(res, transport, start)
			return res
		}
		res := Result{
			Status: StatusUnrouted,
			Err: &ErrorDetail{
				Kind:    KindUnrouted,
				Message: fmt.Sprintf("no trigger matched transport %q", transport),
			},
		}
		d.report(res, transport, start)
		return res
	}

	h, found := reg.Lookup(process)
	if !found {
		// A matched route without a registered handler is a deployment
		// mismatch, surfaced unconditionally.
		res := Result{
			Status:  StatusConfigError,
			Process: process,
			Matched: true,
			Err: &ErrorDetail{
				Kind:    KindConfig,
				Message: fmt.Sprintf("route matched process %q but no such handler is registered", process),
			},
		}
		d.report(res, transport, start)
		return res
	}

	if !h.ValidateInput(payload) {
		res := Result{
			Status:  StatusRejected,
			Process: process,
			Matched: true,
			Err: &ErrorDetail{
				Kind:      KindValidation,
				Operation: "validateInput",
				Message:   fmt.Sprintf("handler %q rejected the payload", process),
			},
		}
		d.report(res, transport, start)
		return res
	}

	out, err := d.invoke(ctx, h, payload)
	if err != nil {
		detail := &ErrorDetail{Kind: KindInternal, Operation: "handle", Message: err.Error()}
		var invokeErr *registry.InvokeError
		if errors.As(err, &invokeErr) {
			detail.Operation = invokeErr.Operation
			detail.Message = invokeErr.Message
		}
		res := Result{Status: StatusFailed, Process: process, Matched: true, Err: detail}
		d.report(res, transport, start)
		return res
	}

	res := Result{
		Status:    StatusCompleted,
		Process:   process,
		Matched:   true,
		Output:    out,
		ForwardTo: trigger.Attribute(routing.AttrResponseChannel),
	}
	d.report(res, transport, start)
	return res
}

// invoke runs the handler inside the fault boundary. A panic is converted
// into an error carrying the original message.
func (d *Dispatcher) invoke(ctx context.Context, h handler.Handler, payload handler.Payload) (out handler.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, payload)
}

// report logs the outcome and feeds the audit recorder.
func (d *Dispatcher) report(res Result, transport string, start time.Time) {
	duration := time.Since(start)

	fields := []zap.Field{
		zap.String("transport", transport),
		zap.String("status", res.Status.String()),
		zap.String("process", res.Process),
		zap.Duration("duration", duration),
	}
	if res.Err != nil {
		fields = append(fields, zap.String("error", res.Err.Message))
	}

	switch res.Status {
	case StatusCompleted:
		d.logger.Debug("dispatch completed", fields...)
	case StatusUnrouted, StatusRejected:
		d.logger.Warn("dispatch not delivered", fields...)
	default:
		d.logger.Error("dispatch failed", fields...)
	}

	if d.recorder != nil {
		d.recorder.Record(res.Process, transport, res.Status.String(), duration)
	}
}
