package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"docforge/internal/services"
)

func TestResolveLenientReturnsEmpty(t *testing.T) {
	value, err := Resolve("missing", Bindings{}, false)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty value for unbound token, got %q", value)
	}
}

func TestResolveStrictFails(t *testing.T) {
	_, err := Resolve("missing", Bindings{}, true)
	if !errors.Is(err, services.ErrMissingBinding) {
		t.Fatalf("expected ErrMissingBinding, got %v", err)
	}
}

func TestResolveBoundValue(t *testing.T) {
	bindings := Bindings{"project": "Alpha", "qty": 12, "rate": 2.5}
	cases := map[string]string{
		"project": "Alpha",
		"qty":     "12",
		"rate":    "2.5",
	}
	for name, want := range cases {
		got, err := Resolve(name, bindings, true)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", name, err)
		}
		if got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestNames(t *testing.T) {
	text := `<w:t>{{b}} then {{a}} and {{b}} again, {{ spaced }}</w:t>`
	names, err := Names(text)
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	want := []string{"a", "b", "spaced"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
}

func TestNamesUnterminated(t *testing.T) {
	_, err := Names("before {{open and never closed")
	if !errors.Is(err, services.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestNamesNestedDelimiter(t *testing.T) {
	_, err := Names("{{outer {{inner}} }}")
	if !errors.Is(err, services.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestNamesRejectsMarkupInsideToken(t *testing.T) {
	// A token split across text runs carries markup between the delimiters.
	_, err := Names(`{{na</w:t><w:t>me}}`)
	if !errors.Is(err, services.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestNamesEmptyToken(t *testing.T) {
	_, err := Names("{{}}")
	if !errors.Is(err, services.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestReplacePreservesSurroundingText(t *testing.T) {
	text := `<w:t xml:space="preserve">Dear {{name}}, your order {{order-id}} shipped.</w:t>`
	got, err := Replace(text, func(name string) (string, error) {
		switch name {
		case "name":
			return "Ana", nil
		case "order-id":
			return "42", nil
		default:
			return "", errors.New("unexpected token " + name)
		}
	})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	want := `<w:t xml:space="preserve">Dear Ana, your order 42 shipped.</w:t>`
	if got != want {
		t.Fatalf("Replace = %q, want %q", got, want)
	}
}

func TestReplaceResolverErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	_, err := Replace("{{a}}", func(string) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestReplaceNoTokens(t *testing.T) {
	text := "nothing to do here"
	got, err := Replace(text, func(string) (string, error) { return "x", nil })
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if got != text {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestScannerBounds(t *testing.T) {
	text := "ab{{tok}}cd"
	s := NewScanner(text)
	if !s.Scan() {
		t.Fatalf("expected one token, err=%v", s.Err())
	}
	start, end := s.Bounds()
	if text[start:end] != "{{tok}}" {
		t.Fatalf("Bounds = [%d,%d) covering %q", start, end, text[start:end])
	}
	if s.Scan() {
		t.Fatal("expected scan to finish after one token")
	}
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
}
