package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := Wrap(ErrConversion, "converter", "convert", "renderer crashed", base)
	if !errors.Is(err, ErrConversion) {
		t.Fatalf("expected wrapped error to match ErrConversion, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to retain the cause, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "validator", "validate", "could not start", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker ErrExternalTool, got %v", err)
	}
}

func TestWrapMessageComposition(t *testing.T) {
	err := Wrap(ErrTimeout, "converter", "convert", "took too long", nil)
	want := "timeout: converter: convert: took too long"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"grid spec", Wrap(ErrInvalidGridSpec, "grid", "generate", "bad rows", nil), false},
		{"malformed token", Wrap(ErrMalformedToken, "token", "scan", "unterminated", nil), false},
		{"missing binding", Wrap(ErrMissingBinding, "render", "resolve", "no value", nil), false},
		{"not found", Wrap(ErrNotFound, "pipeline", "run", "no template", nil), false},
		{"configuration", Wrap(ErrConfiguration, "config", "load", "bad value", nil), false},
		{"validation", Wrap(ErrValidation, "validator", "validate", "nonconformant", nil), false},
		{"conversion", Wrap(ErrConversion, "converter", "convert", "crash", nil), true},
		{"timeout", Wrap(ErrTimeout, "converter", "convert", "slow", nil), true},
		{"external tool", Wrap(ErrExternalTool, "validator", "validate", "missing binary", nil), true},
	}
	for _, tc := range cases {
		if got := Transient(tc.err); got != tc.want {
			t.Fatalf("%s: Transient = %v, want %v", tc.name, got, tc.want)
		}
	}
}
