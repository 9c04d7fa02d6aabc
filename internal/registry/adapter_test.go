package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

// trackedCandidate exposes several invocable methods so resolution order
// can be observed.
type trackedCandidate struct {
	called string
}

func (c *trackedCandidate) Foo(p handler.Payload) handler.Payload {
	c.called = "Foo"
	return p
}

func (c *trackedCandidate) Handle(p handler.Payload) handler.Payload {
	c.called = "Handle"
	return p
}

func (c *trackedCandidate) ValidateInput(p handler.Payload) bool {
	return p != nil
}

func (c *trackedCandidate) GetMetadata() map[string]any {
	return map[string]any{"version": "2.1"}
}

// TestAdapter_PrefersHandleMethod verifies resolution tier 1: a method
// literally named Handle wins over any other invocable method.
func TestAdapter_PrefersHandleMethod(t *testing.T) {
	candidate := &trackedCandidate{}
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: candidate}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, ok := reg.Lookup("p1")
	if !ok {
		t.Fatal("Expected handler p1 to be registered")
	}

	out, err := h.Handle(context.Background(), handler.Payload{"msg": "hi"})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if candidate.called != "Handle" {
		t.Errorf("Expected Handle to be invoked, got %q", candidate.called)
	}
	if out["msg"] != "hi" {
		t.Errorf("Expected payload to round-trip, got %v", out)
	}
}

// processNamedCandidate has no Handle method; its only invocable method
// matches the declared process name.
type processNamedCandidate struct {
	called string
}

func (c *processNamedCandidate) InvoiceSync(p handler.Payload) handler.Payload {
	c.called = "InvoiceSync"
	return p
}

func (c *processNamedCandidate) Other(p handler.Payload) handler.Payload {
	c.called = "Other"
	return p
}

// TestAdapter_ProcessNameMethod verifies resolution tier 2: a method whose
// name equals the declared process name (separators ignored) is preferred
// over arbitrary invocable methods.
func TestAdapter_ProcessNameMethod(t *testing.T) {
	candidate := &processNamedCandidate{}
	reg, err := Build([]handler.Candidate{{Name: "invoice-sync", Target: candidate}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("invoice-sync")
	if _, err := h.Handle(context.Background(), handler.Payload{}); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if candidate.called != "InvoiceSync" {
		t.Errorf("Expected InvoiceSync to be invoked, got %q", candidate.called)
	}
}

// bareCandidate has no invocable methods at all.
type bareCandidate struct{}

func (bareCandidate) GetMetadata() map[string]any {
	return map[string]any{"description": "nothing to invoke"}
}

// TestAdapter_MetadataFallback verifies that a candidate with zero
// invocable methods returns its metadata from Handle instead of an error.
func TestAdapter_MetadataFallback(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "bare", Target: bareCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("bare")
	out, err := h.Handle(context.Background(), handler.Payload{"ignored": true})
	if err != nil {
		t.Fatalf("Expected metadata fallback, got error: %v", err)
	}
	if out["description"] != "nothing to invoke" {
		t.Errorf("Expected candidate metadata in fallback output, got %v", out)
	}
	if out["adapter"] != true {
		t.Errorf("Expected adapter baseline field, got %v", out)
	}
}

// TestAdapter_MetadataMerge verifies candidate metadata overrides the
// baseline on key collision while baseline-only keys survive.
func TestAdapter_MetadataMerge(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: &trackedCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	meta := h.Metadata()

	if meta["name"] != "p1" {
		t.Errorf("Expected baseline name p1, got %v", meta["name"])
	}
	if meta["version"] != "2.1" {
		t.Errorf("Expected candidate version 2.1 to override baseline, got %v", meta["version"])
	}
	if meta["adapter"] != true {
		t.Errorf("Expected adapter=true, got %v", meta["adapter"])
	}
	if _, ok := meta["targetType"]; !ok {
		t.Error("Expected targetType in baseline metadata")
	}
}

type panickyCandidate struct{}

func (panickyCandidate) Handle(p handler.Payload) handler.Payload {
	panic("boom")
}

// TestAdapter_PanicBecomesInvokeError verifies a panic inside a resolved
// method is caught and converted, never propagated.
func TestAdapter_PanicBecomesInvokeError(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: panickyCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	_, err = h.Handle(context.Background(), handler.Payload{})
	if err == nil {
		t.Fatal("Expected an error from panicking handler")
	}

	var invokeErr *InvokeError
	if !errors.As(err, &invokeErr) {
		t.Fatalf("Expected *InvokeError, got %T", err)
	}
	if invokeErr.Operation != "handle" {
		t.Errorf("Expected operation handle, got %q", invokeErr.Operation)
	}
	if invokeErr.Message != "boom" {
		t.Errorf("Expected original panic message, got %q", invokeErr.Message)
	}
}

type ctxAwareCandidate struct {
	gotCtx bool
}

func (c *ctxAwareCandidate) Handle(ctx context.Context, p handler.Payload) (handler.Payload, error) {
	c.gotCtx = ctx != nil
	return p, nil
}

// TestAdapter_ContextAwareMethod verifies a method with a leading
// context.Context argument is invocable and receives the dispatch context.
func TestAdapter_ContextAwareMethod(t *testing.T) {
	candidate := &ctxAwareCandidate{}
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: candidate}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	out, err := h.Handle(context.Background(), handler.Payload{"msg": "hi"})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !candidate.gotCtx {
		t.Error("Expected the dispatch context to be passed through")
	}
	if out["msg"] != "hi" {
		t.Errorf("Expected payload to round-trip, got %v", out)
	}
}

type erroringCandidate struct{}

func (erroringCandidate) Handle(p handler.Payload) (handler.Payload, error) {
	return nil, errors.New("db unavailable")
}

// TestAdapter_ErrorReturnBecomesInvokeError verifies a returned error is
// wrapped with the originating operation.
func TestAdapter_ErrorReturnBecomesInvokeError(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: erroringCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	_, err = h.Handle(context.Background(), handler.Payload{})

	var invokeErr *InvokeError
	if !errors.As(err, &invokeErr) {
		t.Fatalf("Expected *InvokeError, got %v", err)
	}
	if invokeErr.Message != "db unavailable" {
		t.Errorf("Expected original error message, got %q", invokeErr.Message)
	}
}

type scalarCandidate struct{}

func (scalarCandidate) Handle(p handler.Payload) any {
	return 42
}

// TestAdapter_ScalarResultWrapped verifies a non-payload-shaped result is
// wrapped as {result, type} instead of failing.
func TestAdapter_ScalarResultWrapped(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: scalarCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	out, err := h.Handle(context.Background(), handler.Payload{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if out["result"] != "42" {
		t.Errorf("Expected stringified result 42, got %v", out["result"])
	}
	if out["type"] != "int" {
		t.Errorf("Expected type int, got %v", out["type"])
	}
}

type structResult struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type structCandidate struct{}

func (structCandidate) Handle(p handler.Payload) structResult {
	return structResult{Status: "ok", Count: 3}
}

// TestAdapter_StructResultConverted verifies a struct result is converted
// into a payload via its JSON representation.
func TestAdapter_StructResultConverted(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: structCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	out, err := h.Handle(context.Background(), handler.Payload{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", out["status"])
	}
	// JSON round-trip turns ints into float64.
	if out["count"] != float64(3) {
		t.Errorf("Expected count 3, got %v", out["count"])
	}
}

// TestAdapter_DefaultValidate verifies the default validateInput accepts
// any non-nil payload and rejects nil.
func TestAdapter_DefaultValidate(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: scalarCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	if !h.ValidateInput(handler.Payload{}) {
		t.Error("Expected empty payload to be accepted")
	}
	if h.ValidateInput(nil) {
		t.Error("Expected nil payload to be rejected")
	}
}

type pickyCandidate struct{}

func (pickyCandidate) Handle(p handler.Payload) handler.Payload { return p }

func (pickyCandidate) ValidateInput(p handler.Payload) bool {
	_, ok := p["required"]
	return ok
}

// TestAdapter_ResolvedValidate verifies a candidate's own ValidateInput is
// used when present.
func TestAdapter_ResolvedValidate(t *testing.T) {
	reg, err := Build([]handler.Candidate{{Name: "p1", Target: pickyCandidate{}}}, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("p1")
	if h.ValidateInput(handler.Payload{}) {
		t.Error("Expected payload without required key to be rejected")
	}
	if !h.ValidateInput(handler.Payload{"required": 1}) {
		t.Error("Expected payload with required key to be accepted")
	}
}

// TestNormalizeMethodName covers the separator-insensitive comparison used
// by resolution tier 2.
func TestNormalizeMethodName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"InvoiceSync", "invoicesync"},
		{"invoice-sync", "invoicesync"},
		{"invoice_sync_v2", "invoicesyncv2"},
		{"Handle", "handle"},
	}
	for _, tc := range cases {
		if got := normalizeMethodName(tc.in); got != tc.want {
			t.Errorf("normalizeMethodName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
