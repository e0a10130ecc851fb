// Package errors derives metric-safe error class names from Go errors.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
)

// Classify returns a normalized error class name suitable for tagging
// metrics and logs. Application errors classify by their error code; other
// errors unwrap to the innermost concrete type, converted to snake_case-ish.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	// Error codes already form a stable taxonomy.
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	// Unwrap to the innermost error for better signal.
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
