package sheet

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lmika/cellsheet/position"
)

// Limits bounds the grid a Sheet manages. It is an alias of
// position.Limits so the same value flows into Position.IsValid without
// conversion.
type Limits = position.Limits

// DefaultLimits returns the bound a Sheet uses when none is supplied.
func DefaultLimits() Limits {
	return position.DefaultLimits()
}

type limitsDoc struct {
	MaxRows int `yaml:"max_rows"`
	MaxCols int `yaml:"max_cols"`
}

// ParseLimits decodes YAML read from r into a Limits value; it never
// opens a file itself, so the caller chooses where r comes from. Both
// max_rows and max_cols must be positive.
func ParseLimits(r io.Reader) (Limits, error) {
	var doc limitsDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Limits{}, fmt.Errorf("parse limits: %w", err)
	}
	if doc.MaxRows <= 0 || doc.MaxCols <= 0 {
		return Limits{}, fmt.Errorf("parse limits: max_rows and max_cols must be positive, got %d/%d", doc.MaxRows, doc.MaxCols)
	}
	return Limits{MaxRows: doc.MaxRows, MaxCols: doc.MaxCols}, nil
}
