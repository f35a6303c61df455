package lexer

import "fmt"

// TokenType represents the type of token produced by the lexer.
type TokenType uint8

const (
	// Synthetic tokens
	ENDMARKER TokenType = iota
	NEWLINE
	INDENT
	DEDENT

	// Literals
	NAME   // identifier
	NUMBER // 42, 0x2a, 1.5e3, 2j
	STRING // decoded string literal

	// Operators and punctuation
	AMPER        // &
	AT           // @
	CIRCUMFLEX   // ^
	COLON        // :
	COLONEQUAL   // :=
	COMMA        // ,
	DOT          // .
	DOUBLESLASH  // //
	DOUBLESTAR   // **
	EQEQUAL      // ==
	EQUAL        // =
	GREATER      // >
	GREATEREQUAL // >=
	LBRACE       // {
	LEFTSHIFT    // <<
	LESS         // <
	LESSEQUAL    // <=
	LPAR         // (
	LSQB         // [
	MINUS        // -
	NOTEQUAL     // !=
	PERCENT      // %
	PLUS         // +
	RBRACE       // }
	RIGHTSHIFT   // >>
	RPAR         // )
	RSQB         // ]
	SLASH        // /
	STAR         // *
	TILDE        // ~
	VBAR         // |

	// Keywords
	AND
	AS
	ELSE
	FROM
	FOR
	IF
	IMPORT
	IN
	IS
	LAMBDA
	NOT
	OR
	PASS

	// Internal tokens, never yielded by a Lexer
	ws
	stringStartSingle
	stringStartTriple
	stringContinue
	stringEnd
)

var tokenNames = map[TokenType]string{
	ENDMARKER: "ENDMARKER",
	NEWLINE:   "NEWLINE",
	INDENT:    "INDENT",
	DEDENT:    "DEDENT",

	NAME:   "NAME",
	NUMBER: "NUMBER",
	STRING: "STRING",

	AMPER:        "AMPER",
	AT:           "AT",
	CIRCUMFLEX:   "CIRCUMFLEX",
	COLON:        "COLON",
	COLONEQUAL:   "COLONEQUAL",
	COMMA:        "COMMA",
	DOT:          "DOT",
	DOUBLESLASH:  "DOUBLESLASH",
	DOUBLESTAR:   "DOUBLESTAR",
	EQEQUAL:      "EQEQUAL",
	EQUAL:        "EQUAL",
	GREATER:      "GREATER",
	GREATEREQUAL: "GREATEREQUAL",
	LBRACE:       "LBRACE",
	LEFTSHIFT:    "LEFTSHIFT",
	LESS:         "LESS",
	LESSEQUAL:    "LESSEQUAL",
	LPAR:         "LPAR",
	LSQB:         "LSQB",
	MINUS:        "MINUS",
	NOTEQUAL:     "NOTEQUAL",
	PERCENT:      "PERCENT",
	PLUS:         "PLUS",
	RBRACE:       "RBRACE",
	RIGHTSHIFT:   "RIGHTSHIFT",
	RPAR:         "RPAR",
	RSQB:         "RSQB",
	SLASH:        "SLASH",
	STAR:         "STAR",
	TILDE:        "TILDE",
	VBAR:         "VBAR",

	AND:    "AND",
	AS:     "AS",
	ELSE:   "ELSE",
	FROM:   "FROM",
	FOR:    "FOR",
	IF:     "IF",
	IMPORT: "IMPORT",
	IN:     "IN",
	IS:     "IS",
	LAMBDA: "LAMBDA",
	NOT:    "NOT",
	OR:     "OR",
	PASS:   "PASS",

	ws:                "WS",
	stringStartSingle: "STRING_START_SINGLE",
	stringStartTriple: "STRING_START_TRIPLE",
	stringContinue:    "STRING_CONTINUE",
	stringEnd:         "STRING_END",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= AND && t <= PASS
}

// IsSynthetic reports whether t has no corresponding source text.
func (t TokenType) IsSynthetic() bool {
	return t == ENDMARKER || t == INDENT || t == DEDENT
}

func (t TokenType) internal() bool {
	return t >= ws
}

var keywords = map[string]TokenType{
	"and":    AND,
	"as":     AS,
	"else":   ELSE,
	"from":   FROM,
	"for":    FOR,
	"if":     IF,
	"import": IMPORT,
	"in":     IN,
	"is":     IS,
	"lambda": LAMBDA,
	"not":    NOT,
	"or":     OR,
	"pass":   PASS,
}

// LookupKeyword returns the keyword type for name, or NAME if name is not reserved.
func LookupKeyword(name string) TokenType {
	if t, ok := keywords[name]; ok {
		return t
	}
	return NAME
}

// Token is a single lexical token.
//
// Value holds the lexeme for NAME and NUMBER, the decoded literal for
// STRING, and the operator text for punctuation. Synthetic tokens have
// an empty Value.
type Token struct {
	Type   TokenType
	Value  string
	Offset int // Byte offset into source buffer
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)

	atLineStart bool
	mustIndent  bool
}

// AtLineStart reports whether the token is the first token on its logical line.
func (t Token) AtLineStart() bool {
	return t.atLineStart
}

// MustIndent reports whether the token opens an indented block.
func (t Token) MustIndent() bool {
	return t.mustIndent
}

func (t Token) String() string {
	switch t.Type {
	case NAME, NUMBER, STRING:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}
