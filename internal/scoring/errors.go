package scoring

import (
	"fmt"
	"strings"
)

// ShapeError reports a dimensional mismatch between related inputs.
type ShapeError struct {
	Got  string
	Want string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("bad shape: got %s, want %s", e.Got, e.Want)
}

// ValidationError carries every pairwise matrix rule violation found, not just
// the first one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid pairwise matrix: " + strings.Join(e.Violations, "; ")
}

// UnknownCategoryError means a requested category label has no entry in its
// score map.
type UnknownCategoryError struct {
	Criterion Criterion
	Value     string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s category: %q", e.Criterion, e.Value)
}

// InvalidInputError covers inputs that are structurally fine but numerically
// unusable: empty matrices, non-finite cells, bad weights or directions.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }
