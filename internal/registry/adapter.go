package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

// InvokeError is the structured error the adapter produces when a resolved
// method panics or returns an error. It never lets the original panic
// escape to the dispatcher.
type InvokeError struct {
	// Operation is the adapter operation that failed ("handle",
	// "validateInput", "getMetadata").
	Operation string
	// Message carries the original panic or error text.
	Message string
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("handler %s failed: %s", e.Operation, e.Message)
}

var (
	payloadType = reflect.TypeOf(handler.Payload(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	ctxType     = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// adaptedHandler gives a candidate object that was not authored against the
// handler.Handler contract the canonical capability set. Method resolution
// happens exactly once, here at construction time; the resulting closures
// are cached so the dispatch hot path never touches reflection lookups.
type adaptedHandler struct {
	name     string
	target   any
	handle   func(ctx context.Context, payload handler.Payload) (handler.Payload, error)
	validate func(payload handler.Payload) bool
	metadata func() handler.Metadata
}

// newAdaptedHandler wraps target under the declared process name.
func newAdaptedHandler(name string, target any, logger *zap.Logger) *adaptedHandler {
	a := &adaptedHandler{name: name, target: target}

	v := reflect.ValueOf(target)
	t := v.Type()

	a.metadata = a.resolveMetadata(v, t, logger)
	a.validate = a.resolveValidate(v, t, logger)
	a.handle = a.resolveHandle(v, t, logger)

	return a
}

// Handle invokes the cached handle closure.
func (a *adaptedHandler) Handle(ctx context.Context, payload handler.Payload) (handler.Payload, error) {
	return a.handle(ctx, payload)
}

// ValidateInput invokes the cached validate closure.
func (a *adaptedHandler) ValidateInput(payload handler.Payload) bool {
	return a.validate(payload)
}

// Metadata invokes the cached metadata closure.
func (a *adaptedHandler) Metadata() handler.Metadata {
	return a.metadata()
}

// resolveHandle picks the invocation target for Handle. An invocable method
// takes a payload argument, optionally preceded by a context.Context.
// Resolution order:
//  1. an exported invocable method named Handle
//  2. an invocable method whose name equals the declared process name
//     (case-insensitive, separators ignored)
//  3. any other exported invocable method not named ValidateInput or
//     GetMetadata, first in method order
//
// When nothing is invocable, Handle degrades to returning the candidate's
// metadata. That is a documented policy, not an error; the degradation is
// logged once at wrap time.
func (a *adaptedHandler) resolveHandle(v reflect.Value, t reflect.Type, logger *zap.Logger) func(context.Context, handler.Payload) (handler.Payload, error) {
	wantName := normalizeMethodName(a.name)

	var byProcessName, firstOther reflect.Value
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		mv := v.Method(i)
		if !isPayloadMethod(mv.Type()) {
			continue
		}
		switch {
		case m.Name == "Handle":
			return a.invoker("handle", mv, logger)
		case normalizeMethodName(m.Name) == wantName && !byProcessName.IsValid():
			byProcessName = mv
		case m.Name != "ValidateInput" && m.Name != "GetMetadata" && !firstOther.IsValid():
			firstOther = mv
		}
	}

	if byProcessName.IsValid() {
		return a.invoker("handle", byProcessName, logger)
	}
	if firstOther.IsValid() {
		return a.invoker("handle", firstOther, logger)
	}

	logger.Warn("candidate has no invocable handler method, handle falls back to metadata",
		zap.String("process", a.name),
		zap.String("targetType", t.String()))
	return func(ctx context.Context, payload handler.Payload) (handler.Payload, error) {
		return handler.Payload(a.metadata()), nil
	}
}

// invoker builds the cached call closure around a resolved method.
func (a *adaptedHandler) invoker(op string, method reflect.Value, logger *zap.Logger) func(context.Context, handler.Payload) (handler.Payload, error) {
	wantsCtx := method.Type().NumIn() == 2
	return func(ctx context.Context, payload handler.Payload) (handler.Payload, error) {
		args := []reflect.Value{reflect.ValueOf(payload)}
		if wantsCtx {
			args = []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(payload)}
		}
		results, err := safeCall(op, method, args)
		if err != nil {
			return nil, err
		}
		value, callErr := splitResults(results)
		if callErr != nil {
			return nil, &InvokeError{Operation: op, Message: callErr.Error()}
		}
		out, converted := toPayload(value)
		if !converted {
			logger.Warn("handler result not payload-shaped, wrapped best-effort",
				zap.String("process", a.name),
				zap.String("resultType", fmt.Sprintf("%T", value)))
		}
		return out, nil
	}
}

// resolveValidate looks for an exported ValidateInput(payload) bool method.
// Absent one, the default accepts any non-nil payload.
func (a *adaptedHandler) resolveValidate(v reflect.Value, t reflect.Type, logger *zap.Logger) func(handler.Payload) bool {
	m, ok := t.MethodByName("ValidateInput")
	if ok {
		mv := v.MethodByName("ValidateInput")
		mt := mv.Type()
		if mt.NumIn() == 1 && payloadType.AssignableTo(mt.In(0)) &&
			mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool {
			return func(payload handler.Payload) bool {
				results, err := safeCall("validateInput", mv, []reflect.Value{reflect.ValueOf(payload)})
				if err != nil {
					logger.Warn("validateInput panicked, rejecting payload",
						zap.String("process", a.name), zap.Error(err))
					return false
				}
				return results[0].Bool()
			}
		}
		logger.Warn("candidate ValidateInput has unexpected signature, using default",
			zap.String("process", a.name),
			zap.String("signature", m.Type.String()))
	}
	return func(payload handler.Payload) bool { return payload != nil }
}

// resolveMetadata looks for an exported zero-argument GetMetadata method
// and merges its output over the adapter baseline, candidate keys winning.
func (a *adaptedHandler) resolveMetadata(v reflect.Value, t reflect.Type, logger *zap.Logger) func() handler.Metadata {
	baseline := func() handler.Metadata {
		return handler.Metadata{
			"name":        a.name,
			"version":     "",
			"description": "",
			"targetType":  t.String(),
			"adapter":     true,
		}
	}

	mv := v.MethodByName("GetMetadata")
	if !mv.IsValid() || mv.Type().NumIn() != 0 || mv.Type().NumOut() < 1 {
		return baseline
	}

	return func() handler.Metadata {
		meta := baseline()
		results, err := safeCall("getMetadata", mv, nil)
		if err != nil {
			logger.Warn("getMetadata panicked, returning baseline",
				zap.String("process", a.name), zap.Error(err))
			return meta
		}
		value, callErr := splitResults(results)
		if callErr != nil {
			logger.Warn("getMetadata returned error, returning baseline",
				zap.String("process", a.name), zap.String("error", callErr.Error()))
			return meta
		}
		extra, _ := toPayload(value)
		for k, val := range extra {
			meta[k] = val
		}
		return meta
	}
}

// isPayloadMethod reports whether a method (receiver already bound) takes a
// payload-assignable argument, optionally preceded by a context.Context, and
// returns at most a value and an error.
func isPayloadMethod(mt reflect.Type) bool {
	switch mt.NumIn() {
	case 1:
		if !payloadType.AssignableTo(mt.In(0)) {
			return false
		}
	case 2:
		if mt.In(0) != ctxType || !payloadType.AssignableTo(mt.In(1)) {
			return false
		}
	default:
		return false
	}
	switch mt.NumOut() {
	case 0, 1:
		return true
	case 2:
		return mt.Out(1).Implements(errorType)
	default:
		return false
	}
}

// safeCall invokes a reflected method under a recover boundary. A panic
// surfaces as *InvokeError instead of propagating.
func safeCall(op string, method reflect.Value, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = &InvokeError{Operation: op, Message: fmt.Sprint(r)}
		}
	}()
	return method.Call(args), nil
}

// splitResults separates a reflected call's return values into the result
// value and a trailing error, tolerating zero, one or two results.
func splitResults(results []reflect.Value) (any, error) {
	if len(results) == 0 {
		return nil, nil
	}
	last := results[len(results)-1]
	if last.Type().Implements(errorType) {
		var callErr error
		if !last.IsNil() {
			callErr = last.Interface().(error)
		}
		if len(results) == 1 {
			return nil, callErr
		}
		return results[0].Interface(), callErr
	}
	return results[0].Interface(), nil
}

// toPayload best-effort converts an arbitrary handler result into a
// Payload. Maps pass through, anything JSON-object-representable is
// round-tripped, and everything else is wrapped as
// {result: stringForm, type: typeName}. The second return reports whether
// the value was payload-shaped (false means it was wrapped).
func toPayload(value any) (handler.Payload, bool) {
	switch v := value.(type) {
	case nil:
		return handler.Payload{}, true
	case handler.Payload:
		return v, true
	case handler.Metadata:
		return handler.Payload(v), true
	case map[string]any:
		return handler.Payload(v), true
	}

	data, err := json.Marshal(value)
	if err == nil {
		var out handler.Payload
		if err := json.Unmarshal(data, &out); err == nil && out != nil {
			return out, true
		}
	}

	return handler.Payload{
		"result": fmt.Sprint(value),
		"type":   reflect.TypeOf(value).String(),
	}, false
}

// normalizeMethodName lowercases a name and strips separators so a method
// like InvoiceSync matches a declared process name like "invoice-sync".
func normalizeMethodName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
