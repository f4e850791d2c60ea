package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lmika/cellsheet/position"
)

func p(row, col int) position.Position { return position.Position{Row: row, Col: col} }

func TestAddDependencyAndQuery(t *testing.T) {
	g := NewGraph()
	g.AddDependency(p(0, 0), p(1, 0)) // A1 depends on A2
	g.AddDependency(p(0, 0), p(2, 0)) // A1 depends on A3

	assert.ElementsMatch(t, []position.Position{p(1, 0), p(2, 0)}, g.Dependencies(p(0, 0)))
	assert.ElementsMatch(t, []position.Position{p(0, 0)}, g.Dependents(p(1, 0)))
	assert.True(t, g.Contains(p(0, 0)))
	assert.True(t, g.Contains(p(1, 0)))
}

func TestRemoveDependency(t *testing.T) {
	g := NewGraph()
	g.AddDependency(p(0, 0), p(1, 0))
	g.RemoveDependency(p(0, 0), p(1, 0))

	assert.Empty(t, g.Dependencies(p(0, 0)))
	assert.Empty(t, g.Dependents(p(1, 0)))
}

func TestRemoveCell(t *testing.T) {
	g := NewGraph()
	g.AddDependency(p(0, 0), p(1, 0))
	g.AddDependency(p(2, 0), p(0, 0))

	g.RemoveCell(p(0, 0))

	assert.False(t, g.Contains(p(0, 0)))
	assert.Empty(t, g.Dependents(p(1, 0)))
	assert.Empty(t, g.Dependencies(p(2, 0)))
}

func TestHasCycleFromDetectsSelfReference(t *testing.T) {
	g := NewGraph()
	g.AddDependency(p(0, 0), p(0, 0))
	assert.True(t, g.HasCycleFrom(p(0, 0)))
}

func TestHasCycleFromDetectsIndirectCycle(t *testing.T) {
	g := NewGraph()
	g.AddDependency(p(0, 0), p(1, 0))
	g.AddDependency(p(1, 0), p(2, 0))
	g.AddDependency(p(2, 0), p(0, 0))

	assert.True(t, g.HasCycleFrom(p(0, 0)))
	assert.True(t, g.HasCycleFrom(p(1, 0)))
}

func TestHasCycleFromNoCycle(t *testing.T) {
	g := NewGraph()
	g.AddDependency(p(0, 0), p(1, 0))
	g.AddDependency(p(1, 0), p(2, 0))

	assert.False(t, g.HasCycleFrom(p(0, 0)))
	assert.False(t, g.HasCycleFrom(p(2, 0)))
}

func TestInvalidateReverseIncludesStartAndTransitiveDependents(t *testing.T) {
	g := NewGraph()
	// A3 depends on A2, A2 depends on A1: invalidating A1 must reach A2 and A3.
	g.AddDependency(p(1, 0), p(0, 0))
	g.AddDependency(p(2, 0), p(1, 0))

	got := g.InvalidateReverse(p(0, 0))
	assert.ElementsMatch(t, []position.Position{p(0, 0), p(1, 0), p(2, 0)}, got)
}

func TestInvalidateReverseLeafHasNoDependents(t *testing.T) {
	g := NewGraph()
	g.AddDependency(p(0, 0), p(1, 0))

	got := g.InvalidateReverse(p(1, 0))
	assert.ElementsMatch(t, []position.Position{p(1, 0), p(0, 0)}, got)

	got = g.InvalidateReverse(p(0, 0))
	assert.ElementsMatch(t, []position.Position{p(0, 0)}, got)
}
