package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(ErrTimeout, "catalog", "range query", "store unreachable", base)

	if !errors.Is(err, ErrTimeout) {
		t.Error("expected wrapped error to match ErrTimeout")
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to match the underlying cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should not match unrelated marker")
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "catalog", "scan", "fallback failed", nil)
	if !errors.Is(err, ErrTransient) {
		t.Error("nil marker should default to ErrTransient")
	}
}

func TestWrapDetailFormatting(t *testing.T) {
	tests := []struct {
		name      string
		component string
		operation string
		message   string
		want      string
	}{
		{"all parts", "resolve", "enqueue", "queue full", "transient failure: resolve: enqueue: queue full"},
		{"message only", "", "", "boom", "transient failure: boom"},
		{"empty", "", "", "", "transient failure: service failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(ErrTransient, tt.component, tt.operation, tt.message, nil)
			if err.Error() != tt.want {
				t.Errorf("Wrap() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}
