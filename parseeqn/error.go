package parseeqn

import "github.com/cpmech/gosl/io"

// ParseError reports a lexical or structural failure at a byte offset into
// the equation's source text (§4.2). It is a plain value, never a panic: the
// caller records it against the owning equation and keeps parsing others.
type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return io.Sf("parseeqn: position %d: %s", e.Position, e.Message)
}
