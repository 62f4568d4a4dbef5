package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidGridSpec = errors.New("invalid grid spec")
	ErrMalformedToken  = errors.New("malformed token")
	ErrMissingBinding  = errors.New("missing binding")
	ErrConversion      = errors.New("conversion error")
	ErrValidation      = errors.New("validation failed")
	ErrTimeout         = errors.New("timeout")
	ErrExternalTool    = errors.New("external tool error")
	ErrNotFound        = errors.New("not found")
	ErrConfiguration   = errors.New("configuration error")
)

// Wrap builds an error message that includes pipeline context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Transient reports whether a conversion failure is worth one more attempt.
// Grid, token, and binding errors are deterministic and never retried.
func Transient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrInvalidGridSpec),
		errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrMissingBinding),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration):
		return false
	default:
		return true
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
