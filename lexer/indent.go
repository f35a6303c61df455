package lexer

import (
	"strings"

	"golang.org/x/exp/slices"
)

// indentIntent tracks whether the next real token must open a block.
//
// enaml has the same three cases as Python:
//
//	x = 1             no colon, no indent
//	if a: go()        a colon followed by a simple statement, no indent
//	if a:\n    go()   a colon followed by a newline, the block must indent
type indentIntent uint8

const (
	noIndent indentIntent = iota
	mayIndent
	mustIndent
)

// annotator stamps each token with its line-start and must-indent flags
// and publishes the line-start state back to the scanner, which only
// emits WS at the start of a logical line.
type annotator struct {
	s           *session
	src         *stringJoiner
	intent      indentIntent
	atLineStart bool
}

func (a *annotator) next() (Token, bool, error) {
	tok, ok, err := a.src.next()
	if err != nil || !ok {
		return tok, ok, err
	}

	tok.atLineStart = a.atLineStart

	switch tok.Type {
	case COLON:
		a.atLineStart = false
		a.intent = mayIndent

	case NEWLINE:
		a.atLineStart = true
		if a.intent == mayIndent {
			a.intent = mustIndent
		}

	case ws:
		a.atLineStart = true

	default:
		tok.mustIndent = a.intent == mustIndent
		a.atLineStart = false
		a.intent = noIndent
	}

	a.s.atLineStart = a.atLineStart
	return tok, true, nil
}

// synthesizer turns leading whitespace into INDENT and DEDENT tokens using
// the session's indentation stack. WS tokens and blank lines are dropped.
type synthesizer struct {
	s   *session
	src *annotator

	depth   int     // Indentation of the current line
	pending []Token // Tokens ready to be handed out
	last    TokenType
	emitted bool
	done    bool
}

func (y *synthesizer) next() (Token, bool, error) {
	for len(y.pending) == 0 {
		if y.done {
			return Token{}, false, nil
		}
		if err := y.fill(); err != nil {
			return Token{}, false, err
		}
	}

	tok := y.pending[0]
	y.pending = y.pending[1:]
	return tok, true, nil
}

// fill pulls one upstream token and queues whatever it expands to.
func (y *synthesizer) fill() error {
	tok, ok, err := y.src.next()
	if err != nil {
		return err
	}
	if !ok {
		y.finish()
		return nil
	}

	switch tok.Type {
	case ws:
		y.depth = indentWidth(tok.Value)
		return nil

	case NEWLINE:
		y.depth = 0
		if !tok.atLineStart {
			y.emit(tok)
		}
		return nil
	}

	levels := y.s.levels
	top := levels[len(levels)-1]

	switch {
	case tok.mustIndent:
		if y.depth <= top {
			return y.indentError(tok, msgExpectedIndent)
		}
		y.s.levels = append(levels, y.depth)
		y.emit(y.synthetic(INDENT, tok))

	case tok.atLineStart:
		switch {
		case y.depth == top:
		case y.depth > top:
			return y.indentError(tok, msgUnexpectedIndent)
		default:
			i := slices.Index(levels, y.depth)
			if i < 0 {
				return y.indentError(tok, msgUnindentMismatch)
			}
			for range levels[i+1:] {
				y.emit(y.synthetic(DEDENT, tok))
			}
			y.s.levels = levels[:i+1]
		}
	}

	y.emit(tok)
	return nil
}

// finish closes the stream: a trailing NEWLINE if the input did not end
// with one, then a DEDENT for every level still open.
func (y *synthesizer) finish() {
	y.done = true

	end := y.s.token(ENDMARKER, "", y.s.mark())
	if y.emitted && y.last != NEWLINE {
		y.emit(y.synthetic(NEWLINE, end))
	}
	for len(y.s.levels) > 1 {
		y.s.levels = y.s.levels[:len(y.s.levels)-1]
		y.emit(y.synthetic(DEDENT, end))
	}
}

func (y *synthesizer) emit(tok Token) {
	y.pending = append(y.pending, tok)
	y.last = tok.Type
	y.emitted = true
}

func (y *synthesizer) synthetic(typ TokenType, at Token) Token {
	return Token{
		Type:   typ,
		Offset: at.Offset,
		Line:   at.Line,
		Column: at.Column,
	}
}

func (y *synthesizer) indentError(tok Token, message string) error {
	return &IndentationError{Pos: y.s.position(tok), Message: message}
}

// indentWidth measures a run of leading whitespace. Counting restarts
// after the last form feed, and each tab advances to the next multiple
// of eight.
func indentWidth(run string) int {
	if i := strings.LastIndexByte(run, '\f'); i >= 0 {
		run = run[i+1:]
	}

	width := 0
	for i := 0; i < len(run); i++ {
		if run[i] == '\t' {
			width += 8 - width%8
		} else {
			width++
		}
	}
	return width
}
