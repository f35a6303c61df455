package lexer

import (
	"io"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// Definition plugs the enaml lexer into a participle grammar:
//
//	parser := participle.MustBuild[Document](participle.Lexer(lexer.Definition))
//
// Grammar tags refer to token types by name, e.g. `@NAME`, `NEWLINE`,
// `INDENT @@+ DEDENT`. The stream ends with ENDMARKER followed by
// participle's EOF.
var Definition plexer.Definition = definition{}

type definition struct{}

var (
	_ plexer.Definition       = definition{}
	_ plexer.StringDefinition = definition{}
)

func (definition) Symbols() map[string]plexer.TokenType {
	symbols := map[string]plexer.TokenType{"EOF": plexer.EOF}
	for t, name := range tokenNames {
		if t.internal() {
			continue
		}
		symbols[name] = symbolType(t)
	}
	return symbols
}

func (d definition) Lex(filename string, r io.Reader) (plexer.Lexer, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexString(filename, string(source))
}

func (definition) LexString(filename string, input string) (plexer.Lexer, error) {
	return &participleLexer{lexer: NewLexer([]byte(input), filename)}, nil
}

// symbolType maps a TokenType onto participle's type space, where
// negative values are reserved.
func symbolType(t TokenType) plexer.TokenType {
	return plexer.TokenType(t) + 1
}

type participleLexer struct {
	lexer *Lexer
	end   plexer.Position
}

func (p *participleLexer) Next() (plexer.Token, error) {
	tok, err := p.lexer.Next()
	if err == io.EOF {
		return plexer.EOFToken(p.end), nil
	}
	if err != nil {
		return plexer.Token{}, err
	}

	pos := plexer.Position{
		Filename: p.lexer.session.filename,
		Offset:   tok.Offset,
		Line:     tok.Line,
		Column:   tok.Column,
	}
	if tok.Type == ENDMARKER {
		p.end = pos
	}
	return plexer.Token{Type: symbolType(tok.Type), Value: tok.Value, Pos: pos}, nil
}
