// Package formatter renders token streams for the lex command.
package formatter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/repr"
	"gopkg.in/yaml.v3"

	"github.com/agrawalprash/enaml/lexer"
	"github.com/agrawalprash/enaml/output"
	"github.com/agrawalprash/enaml/telemetry"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatRepr Format = "repr"
)

// Formats lists the supported formats in the order they are documented.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatRepr}

const (
	typeWidth     = 12 // Wide enough for GREATEREQUAL
	positionWidth = 8
)

// Formatter writes tokens in one of the supported formats.
type Formatter struct {
	// Output is the encoding; the zero value means text.
	Output Format

	// ShowFlags includes the line-start and must-indent flags.
	ShowFlags bool

	styles *output.Styles
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.Output = format
	}
}

func WithFlags(show bool) Option {
	return func(f *Formatter) {
		f.ShowFlags = show
	}
}

// WithStyles colors the text format. Other formats are never styled.
func WithStyles(styles *output.Styles) Option {
	return func(f *Formatter) {
		f.styles = styles
	}
}

// New creates a formatter. Without options it writes plain text.
func New(opts ...Option) *Formatter {
	f := &Formatter{Output: FormatText}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Record is the structured form of a token used by the json, yaml and repr
// formats.
type Record struct {
	Type        string `json:"type" yaml:"type"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	Offset      int    `json:"offset" yaml:"offset"`
	Line        int    `json:"line" yaml:"line"`
	Column      int    `json:"column" yaml:"column"`
	AtLineStart bool   `json:"atLineStart,omitempty" yaml:"atLineStart,omitempty"`
	MustIndent  bool   `json:"mustIndent,omitempty" yaml:"mustIndent,omitempty"`
}

// Records converts tokens to records, keeping flags only when requested.
func (f *Formatter) Records(tokens []lexer.Token) []Record {
	records := make([]Record, 0, len(tokens))
	for _, tok := range tokens {
		r := Record{
			Type:   tok.Type.String(),
			Value:  tok.Value,
			Offset: tok.Offset,
			Line:   tok.Line,
			Column: tok.Column,
		}
		if f.ShowFlags {
			r.AtLineStart = tok.AtLineStart()
			r.MustIndent = tok.MustIndent()
		}
		records = append(records, r)
	}
	return records
}

// Format writes tokens to w.
func (f *Formatter) Format(ctx context.Context, tokens []lexer.Token, w io.Writer) error {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("format %s", f.Output))
	defer timer.End()
	timer.Count(len(tokens), "tokens")

	switch f.Output {
	case FormatText, "":
		return f.formatText(tokens, w)

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f.Records(tokens))

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f.Records(tokens)); err != nil {
			return err
		}
		return enc.Close()

	case FormatRepr:
		repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(f.Records(tokens))
		return nil

	default:
		return fmt.Errorf("unknown format %q", f.Output)
	}
}

func (f *Formatter) formatText(tokens []lexer.Token, w io.Writer) error {
	var buf strings.Builder
	for _, tok := range tokens {
		f.formatToken(tok, &buf)
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

// formatToken writes one line:
//
//	NAME         2:5      "title"
//	INDENT       2:5
func (f *Formatter) formatToken(tok lexer.Token, buf *strings.Builder) {
	name := fmt.Sprintf("%-*s", typeWidth, tok.Type)
	position := fmt.Sprintf("%d:%d", tok.Line, tok.Column)
	value := ""
	if tok.Value != "" {
		value = fmt.Sprintf("%q", tok.Value)
	}

	if s := f.styles; s != nil {
		switch {
		case tok.Type.IsSynthetic():
			name = s.Synthetic(name)
		case tok.Type.IsKeyword():
			name = s.Keyword(name)
		default:
			name = s.TokenType(name)
		}
		if tok.Type == lexer.STRING || tok.Type == lexer.NUMBER {
			value = s.Literal(value)
		}
	}

	buf.WriteString(name)
	buf.WriteByte(' ')
	if value == "" {
		buf.WriteString(position)
	} else {
		fmt.Fprintf(buf, "%-*s %s", positionWidth, position, value)
	}

	if f.ShowFlags {
		if flags := tokenFlags(tok); flags != "" {
			buf.WriteString(" [")
			buf.WriteString(flags)
			buf.WriteByte(']')
		}
	}
	buf.WriteByte('\n')
}

func tokenFlags(tok lexer.Token) string {
	var flags []string
	if tok.AtLineStart() {
		flags = append(flags, "bol")
	}
	if tok.MustIndent() {
		flags = append(flags, "must-indent")
	}
	return strings.Join(flags, ",")
}
