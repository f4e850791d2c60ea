// Package cell implements tagged-union cell contents: a cell holds
// exactly one of Empty, Text, or Formula, computes its own value on
// demand, and owns its memoization cache. The three variants are modeled
// as a single struct switching on a kind tag rather than as a type
// hierarchy.
package cell

import (
	"strings"

	"github.com/lmika/cellsheet/formula"
	"github.com/lmika/cellsheet/formulaval"
	"github.com/lmika/cellsheet/position"
	"github.com/lmika/cellsheet/sheeterr"
)

// FormulaSign marks text as a formula; EscapeSign marks text whose
// leading character should be stripped from the displayed value but kept
// in the stored text.
const (
	FormulaSign = '='
	EscapeSign  = '\''
)

type kind int

const (
	kindEmpty kind = iota
	kindText
	kindFormula
)

// Cell holds exactly one of {Empty, Text, Formula} and a lazily populated,
// explicitly invalidated value cache. The zero value is an Empty cell.
type Cell struct {
	kind kind
	text string // raw stored text, Text kind only (escape char retained)
	node formula.Node // parsed AST, Formula kind only

	hasCache bool
	cached   formulaval.Value
}

// New returns an Empty cell.
func New() *Cell {
	return &Cell{kind: kindEmpty}
}

// Set replaces the cell's contents. Empty text produces an Empty cell;
// text beginning with FormulaSign and at least one further character
// parses as a Formula; anything else (including a lone "=") is Text.
// Setting always invalidates the cache. If text looks like a formula but
// fails to parse, Set returns a *sheeterr.FormulaParseError and leaves the
// cell's prior contents untouched.
func (c *Cell) Set(text string) error {
	switch {
	case text == "":
		c.kind = kindEmpty
		c.text = ""
		c.node = nil

	case text[0] == FormulaSign && len(text) > 1:
		node, err := formula.Parse(text[1:])
		if err != nil {
			return &sheeterr.FormulaParseError{Text: text, Err: err}
		}
		c.kind = kindFormula
		c.node = node
		c.text = ""

	default:
		c.kind = kindText
		c.text = text
		c.node = nil
	}
	c.ResetCache()
	return nil
}

// Clear is equivalent to Set("").
func (c *Cell) Clear() {
	_ = c.Set("")
}

// IsEmpty reports whether the cell holds no contents.
func (c *Cell) IsEmpty() bool {
	return c.kind == kindEmpty
}

// GetValue returns the cell's cached value, computing and caching it
// first if absent. lookup resolves cell references during formula
// evaluation; it is unused for Empty and Text cells.
func (c *Cell) GetValue(lookup formula.LookupFunc) formulaval.Value {
	if c.hasCache {
		return c.cached
	}

	var val formulaval.Value
	switch c.kind {
	case kindEmpty:
		val = ""
	case kindText:
		val = displayText(c.text)
	case kindFormula:
		num, cerr := c.node.Eval(lookup)
		if cerr != nil {
			val = *cerr
		} else {
			val = num
		}
	}

	c.cached = val
	c.hasCache = true
	return val
}

func displayText(text string) string {
	if len(text) > 0 && text[0] == EscapeSign {
		return text[1:]
	}
	return text
}

// GetText returns the canonical textual form of the cell: "" for Empty,
// the raw stored string for Text (escape character retained), or "="
// followed by the AST's canonical re-emission for Formula.
func (c *Cell) GetText() string {
	switch c.kind {
	case kindText:
		return c.text
	case kindFormula:
		var sb strings.Builder
		sb.WriteByte(FormulaSign)
		c.node.Print(&sb)
		return sb.String()
	default:
		return ""
	}
}

// GetReferencedCells returns the distinct positions the cell's formula
// references, in AST traversal order with duplicates removed. Text and
// Empty cells return nil.
func (c *Cell) GetReferencedCells() []position.Position {
	if c.kind != kindFormula {
		return nil
	}
	return dedupPositions(c.node.Cells())
}

func dedupPositions(positions []position.Position) []position.Position {
	if len(positions) == 0 {
		return nil
	}
	seen := make(map[position.Position]bool, len(positions))
	out := make([]position.Position, 0, len(positions))
	for _, p := range positions {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// ResetCache clears the memoized value. Idempotent; safe in any state.
func (c *Cell) ResetCache() {
	c.hasCache = false
	c.cached = nil
}
