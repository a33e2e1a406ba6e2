// pkg/grid/errors.go
package grid

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConfigurationError reports malformed harness input. It is raised
// synchronously at construction and is never retried; the caller must fix the
// configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "grid: configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// TimeoutError reports that a wait or retried assertion condition did not
// hold within its bound. It always carries the elapsed bound and a
// human-readable condition description; failed row lookups additionally carry
// how many rows were scanned and the closest candidate found.
type TimeoutError struct {
	// Condition describes what was being waited for.
	Condition string
	// Timeout is the bound that elapsed.
	Timeout time.Duration
	// Scanned is the number of visible rows examined, when applicable.
	Scanned int
	// Closest is the best-scoring near miss, when one was computed.
	Closest *ClosestMatch
}

func (e *TimeoutError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "grid: timed out after %s waiting for %s", e.Timeout, e.Condition)
	if e.Scanned > 0 {
		fmt.Fprintf(&sb, " (scanned %d visible rows)", e.Scanned)
	}
	if e.Closest != nil {
		sb.WriteString("; ")
		sb.WriteString(e.Closest.describe())
	}
	return sb.String()
}

// AssertionError reports a condition that was evaluated and definitively
// failed, as opposed to timing out while waiting for it.
type AssertionError struct {
	// Condition describes what was asserted.
	Condition string
	// Detail explains the observed mismatch.
	Detail string
}

func (e *AssertionError) Error() string {
	if e.Detail == "" {
		return "grid: assertion failed: " + e.Condition
	}
	return "grid: assertion failed: " + e.Condition + ": " + e.Detail
}

// ErrExpandAllCap is wrapped into the error returned when a bounded
// expand-all/collapse-all loop hits its iteration cap while toggles remain.
// Hitting the cap is surfaced rather than silently truncated, since it can
// hide a widget whose toggle control fails to disappear.
var ErrExpandAllCap = errors.New("grid: expand-all iteration cap reached")
