package lexer

import (
	"io"
	"iter"
)

// Lexer produces the token stream of one enaml document.
//
// Tokens are computed on demand by Next. The stream always ends with
// exactly one ENDMARKER; Next returns io.EOF after it. Once an error has
// been returned, every further call returns the same error.
//
// A Lexer must not be used from more than one goroutine at a time.
// Independent Lexers can run in parallel.
type Lexer struct {
	session *session
	tokens  *synthesizer

	finished bool
	err      error
}

// Option configures a Lexer.
type Option func(*lexerConfig)

type lexerConfig struct {
	interner *Interner
}

// WithInterner shares a string interner between several lexers.
func WithInterner(i *Interner) Option {
	return func(c *lexerConfig) {
		c.interner = i
	}
}

// NewLexer creates a lexer for the given source. The filename is only
// used in error positions.
func NewLexer(source []byte, filename string, opts ...Option) *Lexer {
	var cfg lexerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.interner == nil {
		// Roughly one distinct name per 40 bytes of markup
		capacity := len(source) / 40
		if capacity < 256 {
			capacity = 256
		}
		cfg.interner = NewInterner(capacity)
	}

	s := newSession(string(source), filename, cfg.interner)
	scan := &stringJoiner{s: s}
	annotate := &annotator{s: s, src: scan, atLineStart: true}

	return &Lexer{
		session: s,
		tokens:  &synthesizer{s: s, src: annotate},
	}
}

// Interner returns the string interner used for NAME values.
func (l *Lexer) Interner() *Interner {
	return l.session.interner
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	if l.finished {
		return Token{}, io.EOF
	}

	tok, ok, err := l.tokens.next()
	if err != nil {
		l.err = err
		return Token{}, err
	}
	if !ok {
		l.finished = true
		return l.session.token(ENDMARKER, "", l.session.mark()), nil
	}
	return tok, nil
}

// All iterates over the remaining tokens, ENDMARKER included. Iteration
// stops after the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// ScanAll lexes the entire source and returns all tokens. On error no
// tokens are returned.
func (l *Lexer) ScanAll() ([]Token, error) {
	// Empirically about one token per 6 bytes of markup
	tokens := make([]Token, 0, len(l.session.src)/6+16)
	for tok, err := range l.All() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Tokenize lexes src in a fresh session.
func Tokenize(src string) ([]Token, error) {
	return NewLexer([]byte(src), "").ScanAll()
}
