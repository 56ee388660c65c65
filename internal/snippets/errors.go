package snippets

import "errors"

var (
	// ErrInvariantViolation reports an empty set or ambiguous fragment names.
	ErrInvariantViolation = errors.New("snippet invariant violation")
	// ErrMissingFragment reports a required or requested name absent from a set.
	ErrMissingFragment = errors.New("missing snippet")
	// ErrOverlap reports a strict merge of sets sharing names.
	ErrOverlap = errors.New("overlapping snippet names")
	// ErrNoBlocksFound reports snippet text without any recognized name line.
	ErrNoBlocksFound = errors.New("no snippet blocks found")
	// ErrEmptyInput reports a parse attempt without names or content.
	ErrEmptyInput = errors.New("empty snippet input")
)
