package codec

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is wrapped by a ParseError when the input holds no document at all.
var ErrEmptyDocument = errors.New("empty document")

// ErrInvalidUTF8 is returned by Marshal when a node id, text, next id or
// choice holds bytes that are not valid UTF-8. JSON would rewrite them to
// U+FFFD and change the id across a save and load.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// ParseError reports a persisted graph that could not be decoded.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s graph: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
