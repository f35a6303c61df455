package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

// stringJoiner folds STRING_START, STRING_CONTINUE... STRING_END runs into
// a single decoded STRING token. Other tokens pass through.
type stringJoiner struct {
	s *session
}

func (j *stringJoiner) next() (Token, bool, error) {
	tok, ok, err := j.s.scan()
	if err != nil || !ok {
		return tok, ok, err
	}
	if tok.Type != stringStartSingle && tok.Type != stringStartTriple {
		return tok, true, nil
	}
	return j.join(tok)
}

func (j *stringJoiner) join(start Token) (Token, bool, error) {
	defer func() { j.s.isRaw = false }()

	var body strings.Builder
	for {
		tok, ok, err := j.s.scan()
		if err != nil {
			return Token{}, false, err
		}
		if !ok {
			width := "single"
			if start.Type == stringStartTriple {
				width = "triple"
			}
			return Token{}, false, &LexicalError{
				Pos:        j.s.position(start),
				Message:    fmt.Sprintf(msgEOFString, width),
				incomplete: start.Type == stringStartTriple,
			}
		}
		if tok.Type == stringEnd {
			break
		}
		body.WriteString(tok.Value)
	}

	value, err := decodeString(start.Value, j.s.isRaw, body.String())
	if err != nil {
		return Token{}, false, &LexicalError{Pos: j.s.position(start), Message: err.Error()}
	}

	start.Type = STRING
	start.Value = value
	return start, true, nil
}

// decodeString resolves the escapes of a literal body according to its
// quote prefix:
//
//	""        standard escapes, \ooo and \xhh produce bytes
//	"u"       standard escapes plus \uXXXX, \UXXXXXXXX and \N{NAME}
//	"r"       nothing is decoded
//	"ur" "ru" only \uXXXX and \UXXXXXXXX are decoded
func decodeString(prefix string, raw bool, body string) (string, error) {
	unicodeEscapes := strings.Contains(prefix, "u")

	switch {
	case raw && unicodeEscapes:
		return decodeRawUnicode(body)
	case raw:
		return body, nil
	default:
		return decodeEscapes(body, unicodeEscapes)
	}
}

var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// decodeEscapes implements the non-raw escapes. Unknown escapes are kept.
func decodeEscapes(body string, unicodeEscapes bool) (string, error) {
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			b.WriteByte(ch)
			i++
			continue
		}

		esc := body[i+1]
		if r, ok := simpleEscapes[esc]; ok {
			b.WriteByte(r)
			i += 2
			continue
		}

		switch {
		case esc == '\n':
			i += 2

		case esc == '\r':
			i += 2
			if i < len(body) && body[i] == '\n' {
				i++
			}

		case esc >= '0' && esc <= '7':
			j := i + 1
			for j < len(body) && j < i+4 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i+1:j], 8, 16)
			if unicodeEscapes {
				b.WriteRune(rune(v))
			} else {
				b.WriteByte(byte(v))
			}
			i = j

		case esc == 'x':
			v, ok := parseHex(body, i+2, 2)
			if !ok {
				return "", fmt.Errorf(msgInvalidEscape, `\x`)
			}
			if unicodeEscapes {
				b.WriteRune(rune(v))
			} else {
				b.WriteByte(byte(v))
			}
			i += 4

		case unicodeEscapes && (esc == 'u' || esc == 'U'):
			width := 4
			if esc == 'U' {
				width = 8
			}
			v, ok := parseHex(body, i+2, width)
			if !ok || v > unicode.MaxRune {
				return "", fmt.Errorf(msgInvalidEscape, `\`+string(esc))
			}
			b.WriteRune(rune(v))
			i += 2 + width

		case unicodeEscapes && esc == 'N':
			if i+2 >= len(body) || body[i+2] != '{' {
				return "", fmt.Errorf(msgInvalidEscape, `\N`)
			}
			end := strings.IndexByte(body[i+3:], '}')
			if end <= 0 {
				return "", fmt.Errorf(msgInvalidEscape, `\N`)
			}
			name := body[i+3 : i+3+end]
			r, ok := lookupRuneName(name)
			if !ok {
				return "", fmt.Errorf(msgUnknownUnicodeName, name)
			}
			b.WriteRune(r)
			i += 3 + end + 1

		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
			i += 2
		}
	}

	return b.String(), nil
}

// decodeRawUnicode decodes \u and \U escapes preceded by an odd number of
// backslashes and leaves everything else as written.
func decodeRawUnicode(body string) (string, error) {
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); {
		if body[i] != '\\' {
			b.WriteByte(body[i])
			i++
			continue
		}

		j := i
		for j < len(body) && body[j] == '\\' {
			j++
		}
		if (j-i)%2 == 0 || j >= len(body) || (body[j] != 'u' && body[j] != 'U') {
			b.WriteString(body[i:j])
			i = j
			continue
		}

		width := 4
		if body[j] == 'U' {
			width = 8
		}
		v, ok := parseHex(body, j+1, width)
		if !ok || v > unicode.MaxRune {
			return "", fmt.Errorf(msgInvalidEscape, `\`+string(body[j]))
		}
		b.WriteString(body[i : j-1])
		b.WriteRune(rune(v))
		i = j + 1 + width
	}

	return b.String(), nil
}

func parseHex(s string, at, width int) (uint64, bool) {
	if at+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}

var (
	runeNamesOnce sync.Once
	runeNames     map[string]rune
)

// lookupRuneName resolves a \N{NAME} escape. The reverse index is built on
// first use; most documents never need it.
func lookupRuneName(name string) (rune, bool) {
	runeNamesOnce.Do(func() {
		runeNames = make(map[string]rune, 1<<15)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if !utf8.ValidRune(r) {
				continue
			}
			if n := runenames.Name(r); n != "" && n[0] != '<' {
				runeNames[n] = r
			}
		}
	})
	r, ok := runeNames[strings.ToUpper(name)]
	return r, ok
}
