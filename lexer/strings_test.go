package lexer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func firstString(t *testing.T, src string) Token {
	t.Helper()
	tokens, err := Tokenize(src)
	assert.NoError(t, err)
	assert.Equal(t, STRING, tokens[0].Type)
	return tokens[0]
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single quoted", `'hello'`, "hello"},
		{"double quoted", `"it's"`, "it's"},
		{"empty", `''`, ""},
		{"escaped quote", `'a\'b'`, "a'b"},
		{"escaped double quote", `"say \"hi\""`, `say "hi"`},
		{"tab and newline", `'tab\there\n'`, "tab\there\n"},
		{"bell and friends", `'\a\b\f\v\r'`, "\a\b\f\v\r"},
		{"backslash", `'a\\b'`, `a\b`},
		{"hex and octal", `'\x41\101\0'`, "AA\x00"},
		{"high byte", `'\xff'`, "\xff"},
		{"unknown escape kept", `'\q\d'`, `\q\d`},
		{"unicode escape ignored without prefix", `'\u00e9'`, `\u00e9`},
		{"escaped newline removed", "'line\\\nnext'", "linenext"},
		{"utf-8 body", `'héllo wörld'`, "héllo wörld"},

		{"unicode prefix", `u'\u00e9'`, "é"},
		{"upper unicode prefix", `U"\u00e9"`, "é"},
		{"unicode long escape", `u'\U0001F600'`, "😀"},
		{"unicode hex", `u'\xff'`, "ÿ"},
		{"unicode named", `u'\N{BULLET} \N{latin small letter a}'`, "• a"},

		{"raw", `r'\n\t'`, `\n\t`},
		{"raw escaped quote", `r'\''`, `\'`},
		{"upper raw", `R"C:\path\to"`, `C:\path\to`},
		{"raw escaped newline kept", "r'a\\\nb'", "a\\\nb"},

		{"raw unicode", `ur'\u00e9\n'`, `é\n`},
		{"raw unicode reversed prefix", `ru'\u00e9'`, "é"},
		{"raw unicode even backslashes", `ur'\\u00e9'`, `\\u00e9`},
		{"raw unicode odd backslashes", `ur'\\\u00e9'`, `\\é`},

		{"triple quoted", `'''a'b''c'''`, "a'b''c"},
		{"triple double quoted", "\"\"\"multi\nline \"quoted\" text\"\"\"", "multi\nline \"quoted\" text"},
		{"triple with escapes", `'''\t\''''`, "\t'"},
		{"raw triple", `r'''\d+'''`, `\d+`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := firstString(t, tt.input)
			assert.Equal(t, tt.want, tok.Value)
		})
	}
}

func TestLexerStringLineTracking(t *testing.T) {
	tokens, err := Tokenize("x = '''a\nb\nc'''\ny\n")
	assert.NoError(t, err)

	assert.Equal(t, STRING, tokens[2].Type)
	assert.Equal(t, 1, tokens[2].Line)
	assert.Equal(t, NEWLINE, tokens[3].Type)
	assert.Equal(t, NAME, tokens[4].Type)
	assert.Equal(t, 4, tokens[4].Line)
}

func TestLexerStringsInsideBlock(t *testing.T) {
	got := tokenTypes(t, "Label:\n    text = '''first\nsecond'''\n    tip = 'x'\n")
	assert.Equal(t, []TokenType{
		NAME, COLON, NEWLINE,
		INDENT, NAME, EQUAL, STRING, NEWLINE,
		NAME, EQUAL, STRING, NEWLINE,
		DEDENT, ENDMARKER,
	}, got)
}

func TestLexerStringErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		message    string
		line       int
		incomplete bool
	}{
		{"newline in single quoted", "x = 'abc\ny'", msgEOLSingle, 1, false},
		{"newline in double quoted", "x = 1\ny = \"abc\n", msgEOLSingle, 2, false},
		{"eof in single quoted", "x = 'abc", "EOF while scanning single-quoted string", 1, false},
		{"eof in triple quoted", "x = 1\ny = '''abc\n\n", "EOF while scanning triple-quoted string", 2, true},
		{"eof after trailing backslash", `"""abc\`, "EOF while scanning triple-quoted string", 1, true},
		{"bad hex escape", `'\x4'`, `invalid \x escape`, 1, false},
		{"bad unicode escape", `u'\u12'`, `invalid \u escape`, 1, false},
		{"out of range unicode", `u'\UFFFFFFFF'`, `invalid \U escape`, 1, false},
		{"bad raw unicode escape", `ur'\u12'`, `invalid \u escape`, 1, false},
		{"unterminated name escape", `u'\N{BULLET'`, `invalid \N escape`, 1, false},
		{"unknown name", `u'\N{NOT A REAL NAME}'`, `unknown unicode character name "NOT A REAL NAME"`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			assert.Error(t, err)

			var lexErr *LexicalError
			assert.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tt.message, lexErr.Message)
			assert.Equal(t, tt.line, lexErr.Pos.Line)
			assert.Equal(t, tt.incomplete, IsIncomplete(err))
		})
	}
}

func TestLexerRawFlagReset(t *testing.T) {
	l := NewLexer([]byte("a = r'\\d'\nb = 'x'\n"), "")
	for tok, err := range l.All() {
		assert.NoError(t, err)
		if tok.Type == STRING {
			assert.False(t, l.session.isRaw)
		}
	}

	l = NewLexer([]byte("r'''unterminated"), "")
	_, err := l.ScanAll()
	assert.Error(t, err)
	assert.False(t, l.session.isRaw)
}

func TestLexerStringRoundTrip(t *testing.T) {
	bodies := []string{
		"",
		"plain",
		"with spaces and punctuation: ;,.!?",
		"double \" quote",
		"unicode ☃ snowman",
		"tabs\tand\tmore",
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			tok := firstString(t, "'"+body+"'")
			assert.Equal(t, body, tok.Value)
		})
	}
}

func TestLexerRawStringIdempotent(t *testing.T) {
	bodies := []string{
		`\d+\.\d*`,
		`C:\path\to\file`,
		`\\`,
		`\'`,
		`\x41\u00e9\N{BULLET}`,
		`no escapes`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			tok := firstString(t, "r'"+body+"'")
			assert.Equal(t, body, tok.Value)

			again := firstString(t, "r'"+tok.Value+"'")
			assert.Equal(t, body, again.Value)
		})
	}
}

func TestDecodeEscapesFastPath(t *testing.T) {
	got, err := decodeEscapes("nothing to do", true)
	assert.NoError(t, err)
	assert.Equal(t, "nothing to do", got)

	got, err = decodeEscapes(`trailing\`, false)
	assert.NoError(t, err)
	assert.Equal(t, `trailing\`, got)
}
