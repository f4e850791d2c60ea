// Package sheeterr defines the caller-facing exceptions a Sheet raises.
// These are recoverable, never cached, and leave the Sheet unchanged,
// distinct from formulaval.CellError, which is a value-level, cached
// failure that propagates through dependent formulas instead of aborting
// a call.
package sheeterr

import "fmt"

// InvalidPositionError reports a position outside the Sheet's configured
// Limits.
type InvalidPositionError struct {
	Text string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position: %q", e.Text)
}

// FormulaParseError reports a SetCell text that looked like a formula
// (leading '=') but failed to parse.
type FormulaParseError struct {
	Text string
	Err  error
}

func (e *FormulaParseError) Error() string {
	return fmt.Sprintf("formula parse error in %q: %v", e.Text, e.Err)
}

func (e *FormulaParseError) Unwrap() error { return e.Err }

// CircularDependencyError reports that a SetCell would introduce a cycle
// in the dependency graph, including a direct self-reference.
type CircularDependencyError struct {
	Pos string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency at %s", e.Pos)
}
