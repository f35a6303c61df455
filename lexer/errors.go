package lexer

import (
	"errors"
	"fmt"
)

// Position describes a location in a source buffer.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// LexicalError reports input that cannot be split into tokens.
type LexicalError struct {
	Pos     Position
	Message string

	incomplete bool
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *LexicalError) GetPosition() Position {
	return e.Pos
}

// IndentationError reports a line whose indentation violates the block structure.
type IndentationError struct {
	Pos     Position
	Message string
}

func (e *IndentationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *IndentationError) GetPosition() Position {
	return e.Pos
}

// IsIncomplete reports whether err was caused by the input ending in the
// middle of a construct, such as an open string or bracket. Appending more
// input may make such a document valid.
func IsIncomplete(err error) bool {
	var lexErr *LexicalError
	return errors.As(err, &lexErr) && lexErr.incomplete
}

const (
	msgInvalidSyntax      = "invalid syntax"
	msgEOLSingle          = "EOL while scanning single-quoted string"
	msgEOFString          = "EOF while scanning %s-quoted string"
	msgEOFStatement       = "EOF in multi-line statement"
	msgUnmatchedBracket   = "unmatched '%c'"
	msgExpectedIndent     = "expected an indented block"
	msgUnexpectedIndent   = "unexpected indent"
	msgUnindentMismatch   = "unindent does not match any outer level of indentation"
	msgInvalidEscape      = "invalid %s escape"
	msgUnknownUnicodeName = "unknown unicode character name %q"
)
