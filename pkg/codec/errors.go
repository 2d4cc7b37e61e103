package codec

import "errors"

// Errors
var (
	ErrNotFound      = errors.New("maze file not found")
	ErrUnknownFormat = errors.New("unknown maze file format")
	ErrTruncated     = errors.New("maze file truncated")
	ErrMalformed     = errors.New("malformed maze file")
	ErrIO            = errors.New("maze file i/o failure")
)
