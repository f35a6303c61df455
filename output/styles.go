// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	output *termenv.Output
}

// Option configures Styles.
type Option func(*styleConfig)

type styleConfig struct {
	noColor bool
}

// WithoutColor disables all escape sequences regardless of the terminal.
func WithoutColor(disabled bool) Option {
	return func(c *styleConfig) {
		c.noColor = disabled
	}
}

// NewStyles creates a new Styles instance for the given writer. The color
// profile is detected from the writer unless color is disabled.
func NewStyles(w io.Writer, opts ...Option) *Styles {
	var cfg styleConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var termOpts []termenv.OutputOption
	if cfg.noColor {
		termOpts = append(termOpts, termenv.WithProfile(termenv.Ascii))
	}
	return &Styles{
		output: termenv.NewOutput(w, termOpts...),
	}
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("2")).
		Bold().
		String()
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("1")).
		Bold().
		String()
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("6")).
		String()
}

// TokenType returns a styled token type name (yellow).
func (s *Styles) TokenType(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		String()
}

// Literal returns a styled string or number value (magenta).
func (s *Styles) Literal(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("5")).
		String()
}

// Synthetic styles tokens that have no source text, such as INDENT.
func (s *Styles) Synthetic(text string) string {
	return s.output.String(text).
		Faint().
		Italic().
		String()
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		Bold().
		String()
}

// Timing returns a styled timing string. Slow operations are red, the
// rest dimmed.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.output.String(text).
			Foreground(s.output.Color("1")).
			String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
