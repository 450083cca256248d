package mutate

import (
	"errors"
)

var (
	// ErrMalformedSpan means no matching close tag could be found
	// for an element span, usually truncated or malformed input.
	ErrMalformedSpan = errors.New("no matching close tag")
	// ErrBadLocator means the locator carried no usable reference.
	ErrBadLocator = errors.New("empty locator")
	// ErrNoParser means the operation needed a fresh parse but was
	// given no parser.
	ErrNoParser = errors.New("no parser for document")
)
