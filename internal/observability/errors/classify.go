// Package errors classifies error values into short, stable labels suitable
// for metric tags.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Classify returns a short label describing the innermost error in err's
// chain. It unwraps until no further cause is available and then derives a
// label from the concrete type, falling back to "unknown" for plain string
// errors and "none" for nil.
func Classify(err error) string {
	if err == nil {
		return "none"
	}

	inner := err
	for {
		next := errors.Unwrap(inner)
		if next == nil {
			break
		}
		inner = next
	}

	label := typeLabel(inner)
	if label == "" {
		return "unknown"
	}
	return label
}

func typeLabel(err error) string {
	name := fmt.Sprintf("%T", err)
	name = strings.TrimLeft(name, "*")

	// Plain string errors carry no useful type information.
	switch name {
	case "errors.errorString", "fmt.wrapError", "errors.joinError":
		return ""
	}

	if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
		name = name[idx+1:]
	}
	return strings.ToLower(name)
}
