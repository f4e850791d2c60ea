package formula

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmika/cellsheet/formulaval"
	"github.com/lmika/cellsheet/position"
)

func printNode(n Node) string {
	var sb strings.Builder
	n.Print(&sb)
	return sb.String()
}

func noLookup(position.Position) formulaval.Value { return nil }

func TestParseArithmeticPrecedence(t *testing.T) {
	node, err := Parse("1+2*3")
	require.NoError(t, err)
	val, cerr := node.Eval(noLookup)
	require.Nil(t, cerr)
	assert.Equal(t, float64(7), val)
	assert.Equal(t, "(1+(2*3))", printNode(node))
}

func TestParseParenthesization(t *testing.T) {
	node, err := Parse("(1+2)*3")
	require.NoError(t, err)
	val, cerr := node.Eval(noLookup)
	require.Nil(t, cerr)
	assert.Equal(t, float64(9), val)
	assert.Equal(t, "((1+2)*3)", printNode(node))
}

func TestParseUnaryMinus(t *testing.T) {
	node, err := Parse("-1+2")
	require.NoError(t, err)
	val, cerr := node.Eval(noLookup)
	require.Nil(t, cerr)
	assert.Equal(t, float64(1), val)
}

func TestParseCellReference(t *testing.T) {
	node, err := Parse("A1+B2")
	require.NoError(t, err)
	assert.Equal(t, []position.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}}, node.Cells())

	lookup := func(p position.Position) formulaval.Value {
		switch p {
		case position.Position{Row: 0, Col: 0}:
			return float64(10)
		case position.Position{Row: 1, Col: 1}:
			return float64(5)
		}
		return nil
	}
	val, cerr := node.Eval(lookup)
	require.Nil(t, cerr)
	assert.Equal(t, float64(15), val)
}

func TestParseCellReferenceAbsentIsZero(t *testing.T) {
	node, err := Parse("A1+1")
	require.NoError(t, err)
	val, cerr := node.Eval(noLookup)
	require.Nil(t, cerr)
	assert.Equal(t, float64(1), val)
}

func TestParseDivisionByZero(t *testing.T) {
	node, err := Parse("1/0")
	require.NoError(t, err)
	_, cerr := node.Eval(noLookup)
	require.NotNil(t, cerr)
	assert.Equal(t, formulaval.KindArithmetic, cerr.Kind)
}

func TestParseNonNumericStringPropagatesValueError(t *testing.T) {
	node, err := Parse("A1+1")
	require.NoError(t, err)
	lookup := func(position.Position) formulaval.Value { return "hello" }
	_, cerr := node.Eval(lookup)
	require.NotNil(t, cerr)
	assert.Equal(t, formulaval.KindValue, cerr.Kind)
}

func TestParseCellErrorPropagates(t *testing.T) {
	node, err := Parse("A1+1")
	require.NoError(t, err)
	lookup := func(position.Position) formulaval.Value {
		return formulaval.NewCellError(formulaval.KindRef)
	}
	_, cerr := node.Eval(lookup)
	require.NotNil(t, cerr)
	assert.Equal(t, formulaval.KindRef, cerr.Kind)
}

func TestParseMalformedFormula(t *testing.T) {
	for _, expr := range []string{"1+", "(1+2", "1+2)", "", "SUM(1,2)"} {
		_, err := Parse(expr)
		assert.Error(t, err, "Parse(%q)", expr)
	}
}

func TestParseRoundTripIsIdempotent(t *testing.T) {
	node, err := Parse("1+2")
	require.NoError(t, err)
	printed := printNode(node)
	assert.Equal(t, "(1+2)", printed)

	reparsed, err := Parse(printed)
	require.NoError(t, err)
	assert.Equal(t, printed, printNode(reparsed))
}
