// Package errors renders lexer errors for people and for tools.
//
// Two Formatter implementations are provided:
//   - TextFormatter prints "file:line: message" followed, when the source
//     is known, by the offending lines and a caret under the error column
//   - JSONFormatter emits structured records for editors and scripts
//
// The error types themselves live in the lexer package; this package only
// handles presentation.
package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/agrawalprash/enaml/lexer"
	"github.com/agrawalprash/enaml/output"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// positioned is implemented by LexicalError and IndentationError.
type positioned interface {
	error
	GetPosition() lexer.Position
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	source []byte
	styles *output.Styles
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the document the errors refer to, enabling source context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.source = source
	}
}

// WithStyles colors the message and caret.
func WithStyles(styles *output.Styles) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.styles = styles
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	var e positioned
	if !errors.As(err, &e) || tf.source == nil {
		return tf.message(err.Error())
	}
	return tf.formatWithSourceContext(e.GetPosition(), e.Error())
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	var buf bytes.Buffer
	for i, err := range errs {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(strings.TrimRight(tf.Format(err), "\n"))
	}
	return buf.String()
}

func (tf *TextFormatter) message(text string) string {
	if tf.styles != nil {
		return tf.styles.Error(text)
	}
	return text
}

// formatWithSourceContext writes the message followed by the source lines
// around the error with a caret under the error column.
func (tf *TextFormatter) formatWithSourceContext(pos lexer.Position, message string) string {
	var buf bytes.Buffer
	buf.WriteString(tf.message(message))
	buf.WriteString("\n\n")

	for _, line := range SourceContext(tf.source, pos) {
		buf.WriteString("   ")
		buf.WriteString(line.Text)
		buf.WriteByte('\n')

		if line.HasCaret {
			caret := "^"
			if tf.styles != nil {
				caret = tf.styles.Error(caret)
			}
			buf.WriteString("   ")
			buf.WriteString(line.CaretPadding)
			buf.WriteString(caret)
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// ContextLine is one source line shown next to an error.
type ContextLine struct {
	Number int // 1-based line number
	Text   string

	// HasCaret marks the error line. CaretPadding is the whitespace that
	// puts a caret under the error column when printed below Text.
	HasCaret     bool
	CaretPadding string
}

// SourceContext returns up to two lines before the error line, the error
// line itself and one line after.
func SourceContext(source []byte, pos lexer.Position) []ContextLine {
	lines := sourceLines(source)
	first := max(pos.Line-3, 0)
	last := min(pos.Line, len(lines)-1)

	var shown []ContextLine
	for i := first; i <= last; i++ {
		line := ContextLine{Number: i + 1, Text: lines[i]}
		if i == pos.Line-1 && pos.Column > 0 {
			line.HasCaret = true
			line.CaretPadding = caretPadding(lines[i], pos.Column)
		}
		shown = append(shown, line)
	}
	return shown
}

// sourceLines splits source into lines without their terminators. A final
// line break does not produce an extra empty line.
func sourceLines(source []byte) []string {
	text := strings.TrimSuffix(string(source), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// caretPadding returns the whitespace that puts a caret under the given
// 1-based rune column of line. Tabs are kept so the terminal aligns them the
// same way it aligned the line; wide runes take two cells.
func caretPadding(line string, column int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n >= column-1 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		n++
	}
	for ; n < column-1; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    "error",
		Message: err.Error(),
	}

	var lexErr *lexer.LexicalError
	var indentErr *lexer.IndentationError
	switch {
	case errors.As(err, &lexErr):
		errJSON.Type = "lexical"
		errJSON.Message = lexErr.Message
		if lexer.IsIncomplete(err) {
			errJSON.Details = map[string]any{"incomplete": true}
		}
	case errors.As(err, &indentErr):
		errJSON.Type = "indentation"
		errJSON.Message = indentErr.Message
	}

	var e positioned
	if errors.As(err, &e) {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Offset:   pos.Offset,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	return errJSON
}
