package domain

import "errors"

// Per-file failure conditions. All are local to the file being processed;
// callers skip the file and continue the batch (the query re-prompt case
// for ErrOutOfRange excepted).
var (
	// ErrSchemaMismatch reports a file name that does not identify a
	// known product.
	ErrSchemaMismatch = errors.New("not a recognized product")

	// ErrFieldNotFound reports a named field missing from an otherwise
	// valid schema group.
	ErrFieldNotFound = errors.New("field not found")

	// ErrShapeMismatch reports geolocation and data arrays that disagree
	// in shape, or a ragged input array.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrOutOfRange reports a query point outside the file's observed
	// latitude/longitude bounds.
	ErrOutOfRange = errors.New("query point outside observed bounds")

	// ErrContainerUnreadable reports a source container that could not
	// be opened or read at all.
	ErrContainerUnreadable = errors.New("container unreadable")
)
