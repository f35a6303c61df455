package lexer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestIndentWidth(t *testing.T) {
	tests := []struct {
		run  string
		want int
	}{
		{"", 0},
		{"    ", 4},
		{"\t", 8},
		{"  \t", 8},
		{"\t  ", 10},
		{"        \t", 16},
		{"   \t \t", 16},
		{"  \f  ", 2},
		{"\f", 0},
		{"\t\f\t", 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, indentWidth(tt.run), "run %q", tt.run)
	}
}

func TestLexerIndentation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "simple block",
			input: "if x:\n    y\n",
			want:  []TokenType{IF, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, DEDENT, ENDMARKER},
		},
		{
			name:  "inline suite",
			input: "if x: y\nz\n",
			want:  []TokenType{IF, NAME, COLON, NAME, NEWLINE, NAME, NEWLINE, ENDMARKER},
		},
		{
			name:  "nested blocks",
			input: "A:\n    B:\n        c\n    d\ne\n",
			want: []TokenType{
				NAME, COLON, NEWLINE,
				INDENT, NAME, COLON, NEWLINE,
				INDENT, NAME, NEWLINE,
				DEDENT, NAME, NEWLINE,
				DEDENT, NAME, NEWLINE,
				ENDMARKER,
			},
		},
		{
			name:  "dedent several levels",
			input: "A:\n  B:\n    C:\n      d\n  e\n",
			want: []TokenType{
				NAME, COLON, NEWLINE,
				INDENT, NAME, COLON, NEWLINE,
				INDENT, NAME, COLON, NEWLINE,
				INDENT, NAME, NEWLINE,
				DEDENT, DEDENT, NAME, NEWLINE,
				DEDENT, ENDMARKER,
			},
		},
		{
			name:  "blank and comment lines inside block",
			input: "if x:\n    y\n\n    # c\n    \n# d\n    z\nw\n",
			want: []TokenType{
				IF, NAME, COLON, NEWLINE,
				INDENT, NAME, NEWLINE,
				NAME, NEWLINE,
				DEDENT, NAME, NEWLINE,
				ENDMARKER,
			},
		},
		{
			name:  "colon followed by comment",
			input: "if x:  # note\n    y\n",
			want:  []TokenType{IF, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, DEDENT, ENDMARKER},
		},
		{
			name:  "no trailing newline",
			input: "if x:\n    y",
			want:  []TokenType{IF, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, DEDENT, ENDMARKER},
		},
		{
			name:  "brackets span lines inside block",
			input: "A:\n    f(1,\n  2)\n    g\n",
			want: []TokenType{
				NAME, COLON, NEWLINE,
				INDENT, NAME, LPAR, NUMBER, COMMA, NUMBER, RPAR, NEWLINE,
				NAME, NEWLINE,
				DEDENT, ENDMARKER,
			},
		},
		{
			name:  "colon inside brackets",
			input: "x = {a:\n b}\ny\n",
			want:  []TokenType{NAME, EQUAL, LBRACE, NAME, COLON, NAME, RBRACE, NEWLINE, NAME, NEWLINE, ENDMARKER},
		},
		{
			name:  "tab matches eight spaces",
			input: "if x:\n\ty\n        z\n",
			want:  []TokenType{IF, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, NAME, NEWLINE, DEDENT, ENDMARKER},
		},
		{
			name:  "else clause",
			input: "if a:\n    b\nelse:\n    c\n",
			want: []TokenType{
				IF, NAME, COLON, NEWLINE, INDENT, NAME, NEWLINE, DEDENT,
				ELSE, COLON, NEWLINE, INDENT, NAME, NEWLINE, DEDENT,
				ENDMARKER,
			},
		},
		{
			name:  "leading blank lines",
			input: "\n\n  \nx\n",
			want:  []TokenType{NAME, NEWLINE, ENDMARKER},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(t, tt.input))
		})
	}
}

func TestLexerIndentationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
	}{
		{"expected indent", "if x:\ny\n", msgExpectedIndent, 2, 1},
		{"expected deeper indent", "A:\n    B:\n    c\n", msgExpectedIndent, 3, 5},
		{"unexpected indent", "x\n    y\n", msgUnexpectedIndent, 2, 5},
		{"indented first line", "  x\n", msgUnexpectedIndent, 1, 3},
		{"unindent mismatch", "if x:\n    y\n  z\n", msgUnindentMismatch, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			assert.Error(t, err)

			var indentErr *IndentationError
			assert.True(t, errors.As(err, &indentErr))
			assert.Equal(t, tt.message, indentErr.Message)
			assert.Equal(t, tt.line, indentErr.Pos.Line)
			assert.Equal(t, tt.column, indentErr.Pos.Column)
			assert.False(t, IsIncomplete(err))
		})
	}
}

func TestLexerLineFlags(t *testing.T) {
	tokens, err := Tokenize("if x:\n    y = 1\n")
	assert.NoError(t, err)

	type flags struct {
		Type        TokenType
		AtLineStart bool
		MustIndent  bool
	}
	var got []flags
	for _, tok := range tokens {
		got = append(got, flags{tok.Type, tok.AtLineStart(), tok.MustIndent()})
	}

	assert.Equal(t, []flags{
		{IF, true, false},
		{NAME, false, false},
		{COLON, false, false},
		{NEWLINE, false, false},
		{INDENT, false, false},
		{NAME, true, true},
		{EQUAL, false, false},
		{NUMBER, false, false},
		{NEWLINE, false, false},
		{DEDENT, false, false},
		{ENDMARKER, false, false},
	}, got)
}

func TestLexerIndentStackRestored(t *testing.T) {
	l := NewLexer([]byte("A:\n  B:\n    c\n"), "")
	_, err := l.ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, []int{0}, l.session.levels)
}
