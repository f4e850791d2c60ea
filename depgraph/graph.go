// Package depgraph implements the dependency graph a Sheet uses to track
// which cells a formula reads and to invalidate cached values when one of
// those cells changes. Each node carries a forward adjacency set (cells it
// reads) and a backward adjacency set (cells that read it); there is no
// notion of worksheet qualifiers, range nodes, or volatility tracking.
package depgraph

import "github.com/lmika/cellsheet/position"

// Graph tracks, for every registered cell, the set of cells it depends on
// (forward) and the set of cells that depend on it (backward). A cell is
// registered by AddCell or AddDependency and stays registered, possibly
// with no edges, until RemoveCell.
type Graph struct {
	forward  map[position.Position]map[position.Position]struct{}
	backward map[position.Position]map[position.Position]struct{}
}

// NewGraph returns an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		forward:  make(map[position.Position]map[position.Position]struct{}),
		backward: make(map[position.Position]map[position.Position]struct{}),
	}
}

// AddCell registers pos with the graph even if it has no edges yet, so
// that Contains and iteration see it. It is a no-op if pos is already
// known.
func (g *Graph) AddCell(pos position.Position) {
	if _, ok := g.forward[pos]; !ok {
		g.forward[pos] = make(map[position.Position]struct{})
	}
	if _, ok := g.backward[pos]; !ok {
		g.backward[pos] = make(map[position.Position]struct{})
	}
}

// RemoveCell removes pos and every edge touching it. Neighbours stay in
// the graph, with pos simply dropped from their edge sets.
func (g *Graph) RemoveCell(pos position.Position) {
	for to := range g.forward[pos] {
		delete(g.backward[to], pos)
	}
	for from := range g.backward[pos] {
		delete(g.forward[from], pos)
	}
	delete(g.forward, pos)
	delete(g.backward, pos)
}

// Contains reports whether pos has been registered via AddCell or is an
// endpoint of some edge.
func (g *Graph) Contains(pos position.Position) bool {
	_, ok := g.forward[pos]
	return ok
}

// AddDependency records that from reads the value of to: an edge from ->
// to in the forward set, and from in to's backward set. Both endpoints
// are implicitly registered.
func (g *Graph) AddDependency(from, to position.Position) {
	g.AddCell(from)
	g.AddCell(to)
	g.forward[from][to] = struct{}{}
	g.backward[to][from] = struct{}{}
}

// RemoveDependency undoes a single AddDependency call. It does not remove
// either endpoint from the graph even if it ends up with no remaining
// edges — callers that want that should call RemoveCell explicitly.
func (g *Graph) RemoveDependency(from, to position.Position) {
	delete(g.forward[from], to)
	delete(g.backward[to], from)
}

// Dependencies returns the cells pos directly depends on (reads from).
// The order is unspecified.
func (g *Graph) Dependencies(pos position.Position) []position.Position {
	return setToSlice(g.forward[pos])
}

// Dependents returns the cells that directly depend on (read from) pos.
// The order is unspecified.
func (g *Graph) Dependents(pos position.Position) []position.Position {
	return setToSlice(g.backward[pos])
}

func setToSlice(set map[position.Position]struct{}) []position.Position {
	if len(set) == 0 {
		return nil
	}
	out := make([]position.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// HasCycleFrom reports whether, starting a depth-first search from start
// and following forward edges, start is reachable from itself — i.e.
// whether start lies on a cycle. Sheet.SetCell calls this after
// provisionally installing a candidate formula's edges, so that a cycle
// can be detected and the edges rolled back before any cache is touched.
func (g *Graph) HasCycleFrom(start position.Position) bool {
	visited := make(map[position.Position]bool)
	var visit func(pos position.Position) bool
	visit = func(pos position.Position) bool {
		for next := range g.forward[pos] {
			if next == start {
				return true
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			if visit(next) {
				return true
			}
		}
		return false
	}
	return visit(start)
}

// InvalidateReverse returns every cell reachable from start by following
// backward edges — start itself plus every (transitive) dependent of
// start — in a breadth-first order with start first. Sheet uses this to
// find every cached cell that must be recomputed after start's own value
// changes.
func (g *Graph) InvalidateReverse(start position.Position) []position.Position {
	visited := map[position.Position]bool{start: true}
	order := []position.Position{start}
	queue := []position.Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := range g.backward[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			order = append(order, next)
			queue = append(queue, next)
		}
	}
	return order
}
