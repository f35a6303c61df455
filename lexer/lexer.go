// Package lexer tokenizes enaml documents.
//
// The lexer is a chain of pull-based stages sharing one session:
//
//	scan (rule table + string modes)
//	  -> join string fragments into STRING tokens
//	  -> annotate line-start / must-indent flags
//	  -> synthesize INDENT / DEDENT
//	  -> append ENDMARKER
//
// Each call to Lexer.Next runs the stages just far enough to produce one
// token. A session is single-use; create a new Lexer to scan the input again.
package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

// scanMode selects the rule set used for the next character run.
type scanMode uint8

const (
	modeInitial  scanMode = iota
	modeSingleQ1          // '...'
	modeSingleQ2          // "..."
	modeTripleQ1          // '''...'''
	modeTripleQ2          // """..."""
)

func (m scanMode) quote() byte {
	switch m {
	case modeSingleQ1, modeTripleQ1:
		return '\''
	default:
		return '"'
	}
}

// session is the mutable state of one lexing pass. Every stage holds a
// pointer to the same session.
type session struct {
	src      string
	filename string
	pos      int // Current byte position
	line     int // Current line (1-indexed)
	column   int // Current column (1-indexed)

	mode        scanMode
	parenCount  int      // Open (), [] and {} pairs
	parenOpened Position // Where the outermost open bracket started
	isRaw       bool     // Scanning the body of an r'' literal
	atLineStart bool     // Published by the annotate stage
	levels      []int    // Indentation stack, never shorter than one

	interner *Interner
}

func newSession(src, filename string, interner *Interner) *session {
	return &session{
		src:         src,
		filename:    filename,
		line:        1,
		column:      1,
		atLineStart: true,
		levels:      []int{0},
		interner:    interner,
	}
}

type ruleAction uint8

const (
	actComment ruleAction = iota
	actWhitespace
	actContinuation
	actNewline
	actStringStart
	actName
	actNumber
	actOperator
)

type rule struct {
	action ruleAction
	re     *regexp.Regexp
}

// Python 2 numeric literals. Alternation is leftmost-first, so imaginary
// and float forms must precede the integer forms.
const (
	hexNumber   = `0[xX][0-9a-fA-F]+[lL]?`
	octNumber   = `0[oO][0-7]+|0[0-7]*[lL]?`
	binNumber   = `0[bB][01]+[lL]?`
	decNumber   = `[1-9][0-9]*[lL]?`
	exponent    = `[eE][-+]?[0-9]+`
	pointFloat  = `(?:[0-9]+\.[0-9]*|\.[0-9]+)(?:` + exponent + `)?`
	expFloat    = `[0-9]+` + exponent
	floatNumber = `(?:` + pointFloat + `|` + expFloat + `)`
	imagNumber  = `(?:[0-9]+[jJ]|` + floatNumber + `[jJ])`
	intNumber   = `(?:` + hexNumber + `|` + binNumber + `|` + octNumber + `|` + decNumber + `)`
	number      = `^(?:` + imagNumber + `|` + floatNumber + `|` + intNumber + `)`
)

// operators is ordered longest first.
var operators = []struct {
	text string
	typ  TokenType
}{
	{"**", DOUBLESTAR},
	{"//", DOUBLESLASH},
	{":=", COLONEQUAL},
	{"==", EQEQUAL},
	{">=", GREATEREQUAL},
	{"<<", LEFTSHIFT},
	{"<=", LESSEQUAL},
	{"!=", NOTEQUAL},
	{">>", RIGHTSHIFT},
	{"%", PERCENT},
	{"+", PLUS},
	{".", DOT},
	{"^", CIRCUMFLEX},
	{"*", STAR},
	{"|", VBAR},
	{"&", AMPER},
	{"@", AT},
	{":", COLON},
	{",", COMMA},
	{"=", EQUAL},
	{">", GREATER},
	{"<", LESS},
	{"-", MINUS},
	{"/", SLASH},
	{"~", TILDE},
	{"(", LPAR},
	{")", RPAR},
	{"[", LSQB},
	{"]", RSQB},
	{"{", LBRACE},
	{"}", RBRACE},
}

var operatorTypes = func() map[string]TokenType {
	m := make(map[string]TokenType, len(operators))
	for _, op := range operators {
		m[op.text] = op.typ
	}
	return m
}()

func operatorPattern() string {
	alts := make([]string, 0, len(operators))
	for _, op := range operators {
		alts = append(alts, regexp.QuoteMeta(op.text))
	}
	return `^(?:` + strings.Join(alts, "|") + `)`
}

// initialRules are tried in order outside of string literals; the first
// match wins. Comments come before whitespace so that a comment-only line
// consumes its leading spaces, and string starts come before names so that
// r"" and u"" are not scanned as identifiers.
var initialRules = []rule{
	{actComment, regexp.MustCompile(`^ *#[^\r\n]*`)},
	{actWhitespace, regexp.MustCompile(`^[ \t\f]+`)},
	{actContinuation, regexp.MustCompile(`^\\\r?\n`)},
	{actNewline, regexp.MustCompile(`^(?:\r?\n)+`)},
	{actStringStart, regexp.MustCompile(`^([uU][rR]?|[rR][uU]?)?('''|"""|'|")`)},
	{actName, regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`)},
	{actNumber, regexp.MustCompile(number)},
	{actOperator, regexp.MustCompile(operatorPattern())},
}

// scan produces the next raw token, including the internal WS and string
// fragment tokens. It reports false once the input is exhausted.
func (s *session) scan() (Token, bool, error) {
	for s.pos < len(s.src) {
		var (
			tok  Token
			emit bool
			err  error
		)
		switch s.mode {
		case modeInitial:
			tok, emit, err = s.scanInitial()
		case modeSingleQ1, modeSingleQ2:
			tok, emit, err = s.scanSingle()
		case modeTripleQ1, modeTripleQ2:
			tok, emit, err = s.scanTriple()
		}
		if err != nil {
			return Token{}, false, err
		}
		if emit {
			return tok, true, nil
		}
	}

	if s.mode == modeInitial && s.parenCount > 0 {
		return Token{}, false, &LexicalError{Pos: s.parenOpened, Message: msgEOFStatement, incomplete: true}
	}
	return Token{}, false, nil
}

func (s *session) scanInitial() (Token, bool, error) {
	rest := s.src[s.pos:]

	for _, r := range initialRules {
		loc := r.re.FindStringIndex(rest)
		if loc == nil || loc[1] == 0 {
			continue
		}

		start := s.mark()
		text := s.consume(loc[1])

		switch r.action {
		case actComment, actContinuation:
			return Token{}, false, nil

		case actWhitespace:
			if s.atLineStart && s.parenCount == 0 {
				return s.token(ws, text, start), true, nil
			}
			return Token{}, false, nil

		case actNewline:
			if s.parenCount == 0 {
				return s.token(NEWLINE, text, start), true, nil
			}
			return Token{}, false, nil

		case actStringStart:
			return s.enterString(text, start), true, nil

		case actName:
			typ := LookupKeyword(text)
			if typ == NAME {
				text = s.interner.Intern(text)
			}
			return s.token(typ, text, start), true, nil

		case actNumber:
			return s.token(NUMBER, text, start), true, nil

		case actOperator:
			typ := operatorTypes[text]
			switch typ {
			case LPAR, LSQB, LBRACE:
				if s.parenCount == 0 {
					s.parenOpened = start
				}
				s.parenCount++
			case RPAR, RSQB, RBRACE:
				if s.parenCount == 0 {
					return Token{}, false, &LexicalError{Pos: start, Message: fmt.Sprintf(msgUnmatchedBracket, text[0])}
				}
				s.parenCount--
			}
			return s.token(typ, text, start), true, nil
		}
	}

	return Token{}, false, &LexicalError{Pos: s.mark(), Message: msgInvalidSyntax}
}

// enterString switches to the string mode selected by the opening quote.
// The START token carries the lower-cased prefix.
func (s *session) enterString(text string, start Position) Token {
	quoteAt := strings.IndexAny(text, `'"`)
	prefix := strings.ToLower(text[:quoteAt])
	quote := text[quoteAt:]

	typ := stringStartSingle
	switch quote {
	case `'`:
		s.mode = modeSingleQ1
	case `"`:
		s.mode = modeSingleQ2
	case `'''`:
		s.mode = modeTripleQ1
		typ = stringStartTriple
	case `"""`:
		s.mode = modeTripleQ2
		typ = stringStartTriple
	}
	s.isRaw = strings.Contains(prefix, "r")

	return s.token(typ, prefix, start)
}

// scanSingle handles one run inside a single-line string.
func (s *session) scanSingle() (Token, bool, error) {
	rest := s.src[s.pos:]
	quote := s.mode.quote()
	start := s.mark()

	switch rest[0] {
	case '\\':
		return s.token(stringContinue, s.consume(escapeLen(rest)), start), true, nil
	case quote:
		s.consume(1)
		s.mode = modeInitial
		return s.token(stringEnd, "", start), true, nil
	case '\n':
		return Token{}, false, &LexicalError{Pos: start, Message: msgEOLSingle}
	}

	n := strings.IndexAny(rest, string([]byte{quote, '\\', '\n'}))
	if n < 0 {
		n = len(rest)
	}
	return s.token(stringContinue, s.consume(n), start), true, nil
}

// scanTriple handles one run inside a triple-quoted string. Newlines and
// lone quote characters are part of the body.
func (s *session) scanTriple() (Token, bool, error) {
	rest := s.src[s.pos:]
	quote := s.mode.quote()
	start := s.mark()

	switch rest[0] {
	case '\\':
		return s.token(stringContinue, s.consume(escapeLen(rest)), start), true, nil
	case quote:
		if len(rest) >= 3 && rest[1] == quote && rest[2] == quote {
			s.consume(3)
			s.mode = modeInitial
			return s.token(stringEnd, "", start), true, nil
		}
		return s.token(stringContinue, s.consume(1), start), true, nil
	}

	n := strings.IndexAny(rest, string([]byte{quote, '\\'}))
	if n < 0 {
		n = len(rest)
	}
	return s.token(stringContinue, s.consume(n), start), true, nil
}

// escapeLen returns the length of the escape pair at the start of rest,
// treating a backslash before CRLF as a single escaped line break.
func escapeLen(rest string) int {
	switch {
	case len(rest) == 1:
		return 1
	case strings.HasPrefix(rest, "\\\r\n"):
		return 3
	default:
		return 2
	}
}

// consume advances the cursor by n bytes and returns the consumed text.
func (s *session) consume(n int) string {
	text := s.src[s.pos : s.pos+n]
	for i := 0; i < len(text); i++ {
		switch ch := text[i]; {
		case ch == '\n':
			s.line++
			s.column = 1
		case ch&0xC0 != 0x80: // Skip UTF-8 continuation bytes
			s.column++
		}
	}
	s.pos += n
	return text
}

func (s *session) mark() Position {
	return Position{
		Filename: s.filename,
		Offset:   s.pos,
		Line:     s.line,
		Column:   s.column,
	}
}

func (s *session) token(typ TokenType, value string, at Position) Token {
	return Token{
		Type:   typ,
		Value:  value,
		Offset: at.Offset,
		Line:   at.Line,
		Column: at.Column,
	}
}

func (s *session) position(tok Token) Position {
	return Position{
		Filename: s.filename,
		Offset:   tok.Offset,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
