package handlers

import (
	"context"
	"testing"

	"github.com/eventgate-io/eventgate-go/internal/registry"
	"github.com/eventgate-io/eventgate-go/pkg/handler"
)

// TestManifest_BuildsCleanly verifies the built-in set registers without
// collisions.
func TestManifest_BuildsCleanly(t *testing.T) {
	reg, err := registry.Build(Manifest(), registry.Options{RejectCollisions: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("Expected 3 built-in handlers, got %d", reg.Len())
	}

	for _, name := range []string{"echo", "ping", "uppercase"} {
		if _, ok := reg.Lookup(name); !ok {
			t.Errorf("Expected handler %q to be registered", name)
		}
	}
}

// TestEcho verifies echo returns its input unchanged.
func TestEcho(t *testing.T) {
	reg, err := registry.Build(Manifest(), registry.Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("echo")
	out, err := h.Handle(context.Background(), handler.Payload{"msg": "hi"})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if out["msg"] != "hi" {
		t.Errorf("Expected payload to round-trip, got %v", out)
	}
}

// TestUppercase verifies the adapted struct handler and its validation.
func TestUppercase(t *testing.T) {
	reg, err := registry.Build(Manifest(), registry.Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, _ := reg.Lookup("uppercase")

	if !h.ValidateInput(handler.Payload{"text": "hello"}) {
		t.Error("Expected string text to validate")
	}
	if h.ValidateInput(handler.Payload{"text": 42}) {
		t.Error("Expected non-string text to fail validation")
	}

	out, err := h.Handle(context.Background(), handler.Payload{"text": "hello"})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if out["text"] != "HELLO" {
		t.Errorf("Expected HELLO, got %v", out["text"])
	}
}
