package splice

import (
	"errors"
	"fmt"
)

// Configuration errors. Run reports these before touching the tree.
var (
	ErrNilRoot         = errors.New("root node is nil")
	ErrInvalidRoot     = errors.New("root must be an element or document node")
	ErrNilPattern      = errors.New("pattern is nil")
	ErrInvalidContent  = errors.New("invalid replacement content")
	ErrGroupOutOfRange = errors.New("capture group out of range")
)

// ErrDetachedLeaf is returned when a text leaf without a parent must be split.
var ErrDetachedLeaf = errors.New("text leaf has no parent")

// ErrAttachedNode is returned when a factory hands back a node that is
// already part of a tree.
var ErrAttachedNode = errors.New("replacement node is already attached to a tree")

// ReplaceError reports a failure while producing or inserting the
// replacement for one portion. The edits of the failing match have been
// rolled back; earlier matches of the same run stay applied.
type ReplaceError struct {
	// Match is the index of the failing match within the run.
	Match int

	// Portion is the index of the failing portion within the match.
	Portion int

	Err error
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("replace match %d, portion %d: %v", e.Match, e.Portion, e.Err)
}

func (e *ReplaceError) Unwrap() error {
	return e.Err
}
