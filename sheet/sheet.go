// Package sheet owns the cell grid and the dependency graph for a single
// spreadsheet, and commits every write atomically — either the new cell,
// its graph edges, and its dependents' invalidated caches all land
// together, or nothing changes at all.
package sheet

import (
	"go.uber.org/zap"

	"github.com/lmika/cellsheet/cell"
	"github.com/lmika/cellsheet/depgraph"
	"github.com/lmika/cellsheet/formulaval"
	"github.com/lmika/cellsheet/position"
	"github.com/lmika/cellsheet/sheeterr"
)

// Sheet owns the cell grid and dependency graph for one spreadsheet. The
// zero value is not usable; construct with New.
type Sheet struct {
	limits Limits
	grid   map[position.Position]*cell.Cell
	graph  *depgraph.Graph

	printableRows int
	printableCols int

	logger   *zap.Logger
	recorder Recorder
}

// Option configures a Sheet at construction time.
type Option func(*Sheet)

// WithLimits overrides the grid bound used to validate positions. Default
// is DefaultLimits.
func WithLimits(limits Limits) Option {
	return func(s *Sheet) { s.limits = limits }
}

// WithLogger attaches a structured logger. Default is zap.NewNop — the
// engine is silent unless a caller opts in.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sheet) { s.logger = logger }
}

// WithRecorder attaches a metrics Recorder. Default is a no-op.
func WithRecorder(recorder Recorder) Option {
	return func(s *Sheet) { s.recorder = recorder }
}

// New constructs an empty Sheet.
func New(opts ...Option) *Sheet {
	s := &Sheet{
		limits:   DefaultLimits(),
		grid:     make(map[position.Position]*cell.Cell),
		graph:    depgraph.NewGraph(),
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lookup resolves a cell reference during formula evaluation. An invalid
// position yields a Ref error; an absent or empty cell resolves to nil,
// which formula.Node implementations treat as the number 0.0.
func (s *Sheet) lookup(pos position.Position) formulaval.Value {
	if !pos.IsValid(s.limits) {
		return formulaval.NewCellError(formulaval.KindRef)
	}
	c, ok := s.grid[pos]
	if !ok || c.IsEmpty() {
		return nil
	}
	return c.GetValue(s.lookup)
}

// SetCell is the atomic unit of change: it either installs text at pos
// with a consistent graph and invalidated dependents, or fails leaving
// the Sheet exactly as it was.
func (s *Sheet) SetCell(pos position.Position, text string) error {
	// 1. Validate pos.
	if !pos.IsValid(s.limits) {
		return &sheeterr.InvalidPositionError{Text: pos.String()}
	}

	// 2. Parse candidate.
	candidate := cell.New()
	if err := candidate.Set(text); err != nil {
		return err
	}
	refs := candidate.GetReferencedCells()

	// 3. Self-reference check.
	for _, r := range refs {
		if r == pos {
			return &sheeterr.CircularDependencyError{Pos: pos.String()}
		}
	}

	// 4. Allocate placeholders for referenced positions not yet in the grid.
	var newlyEmpty []position.Position
	for _, r := range refs {
		if _, ok := s.grid[r]; !ok {
			s.grid[r] = cell.New()
			newlyEmpty = append(newlyEmpty, r)
		}
	}

	// 5. Snapshot old dependencies and remove their edges.
	var oldRefs []position.Position
	if s.graph.Contains(pos) {
		oldRefs = s.graph.Dependencies(pos)
		for _, r := range oldRefs {
			s.graph.RemoveDependency(pos, r)
		}
	}

	// 6. Install new edges.
	s.graph.AddCell(pos)
	for _, r := range refs {
		s.graph.AddCell(r)
		s.graph.AddDependency(pos, r)
	}

	// 7. Cycle test.
	if s.graph.HasCycleFrom(pos) {
		for _, r := range refs {
			s.graph.RemoveDependency(pos, r)
		}
		for _, p := range newlyEmpty {
			delete(s.grid, p)
			if len(s.graph.Dependencies(p)) == 0 && len(s.graph.Dependents(p)) == 0 {
				s.graph.RemoveCell(p)
			}
		}
		for _, r := range oldRefs {
			s.graph.AddCell(r)
			s.graph.AddDependency(pos, r)
		}
		s.logger.Debug("rejected circular dependency",
			zap.String("pos", pos.String()),
			zap.Int("rolled_back_edges", len(refs)),
		)
		s.recorder.CycleRejected()
		return &sheeterr.CircularDependencyError{Pos: pos.String()}
	}

	// 8. Invalidate caches of pos and every transitive dependent.
	invalidated := s.graph.InvalidateReverse(pos)
	for _, q := range invalidated {
		if c, ok := s.grid[q]; ok {
			c.ResetCache()
		}
	}
	s.logger.Debug("invalidated dependents",
		zap.String("pos", pos.String()),
		zap.Int("count", len(invalidated)),
	)
	s.recorder.CacheInvalidated(len(invalidated))

	// 9. Place the new cell and grow the printable bound.
	s.grid[pos] = candidate
	s.growPrintable(pos)

	s.recorder.WriteCommitted()
	return nil
}

// GetCell returns the cell at pos, or nil if none has ever been placed
// there. It validates pos but never mutates the Sheet.
func (s *Sheet) GetCell(pos position.Position) (*cell.Cell, error) {
	if !pos.IsValid(s.limits) {
		return nil, &sheeterr.InvalidPositionError{Text: pos.String()}
	}
	return s.grid[pos], nil
}

// GetValue returns the value at pos: the empty string for an absent or
// Empty cell, otherwise the cell's own computed value.
func (s *Sheet) GetValue(pos position.Position) (formulaval.Value, error) {
	c, err := s.GetCell(pos)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return "", nil
	}
	return c.GetValue(s.lookup), nil
}

// GetText returns the canonical text at pos, or "" if no cell has ever
// been placed there.
func (s *Sheet) GetText(pos position.Position) (string, error) {
	c, err := s.GetCell(pos)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", nil
	}
	return c.GetText(), nil
}

// ClearCell removes the cell at pos from the grid, if one exists. The
// dependency graph is not trimmed — a cleared position persists in the
// graph (and resolves to 0.0 from a referencing formula) until it is
// overwritten or no longer referenced.
func (s *Sheet) ClearCell(pos position.Position) error {
	if !pos.IsValid(s.limits) {
		return &sheeterr.InvalidPositionError{Text: pos.String()}
	}
	if _, ok := s.grid[pos]; !ok {
		return nil
	}
	delete(s.grid, pos)
	if pos.Row+1 == s.printableRows || pos.Col+1 == s.printableCols {
		s.recomputePrintableSize()
	}
	return nil
}

// PrintableSize returns the tracked printable bound. It always encloses
// every non-empty cell and is (0, 0) for a new Sheet. Every SetCell grows
// it to include the written position (even for empty text); it is
// recomputed to the minimal box of non-empty cells only when ClearCell
// removes a cell on its last row or column, so it may be larger than
// that minimal box.
func (s *Sheet) PrintableSize() (rows, cols int) {
	return s.printableRows, s.printableCols
}

// Iterate walks the printable rectangle in row-major order, invoking fn
// for every cell actually present in the grid. Absent positions are
// skipped. This is the iteration primitive an external renderer or
// exporter would build on; the engine itself does no rendering.
func (s *Sheet) Iterate(fn func(pos position.Position, c *cell.Cell)) {
	for row := 0; row < s.printableRows; row++ {
		for col := 0; col < s.printableCols; col++ {
			pos := position.Position{Row: row, Col: col}
			if c, ok := s.grid[pos]; ok {
				fn(pos, c)
			}
		}
	}
}

func (s *Sheet) growPrintable(pos position.Position) {
	if pos.Row+1 > s.printableRows {
		s.printableRows = pos.Row + 1
	}
	if pos.Col+1 > s.printableCols {
		s.printableCols = pos.Col + 1
	}
}

// recomputePrintableSize scans every grid entry for the bounding box of
// non-empty cells, skipping placeholder cells that were only ever
// allocated as a formula's unreferenced-until-now target.
func (s *Sheet) recomputePrintableSize() {
	rows, cols := 0, 0
	for pos, c := range s.grid {
		if c.IsEmpty() {
			continue
		}
		if pos.Row+1 > rows {
			rows = pos.Row + 1
		}
		if pos.Col+1 > cols {
			cols = pos.Col + 1
		}
	}
	s.printableRows, s.printableCols = rows, cols
}
