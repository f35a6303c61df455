package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/agrawalprash/enaml/formatter"
	"github.com/agrawalprash/enaml/loader"
	"github.com/agrawalprash/enaml/output"
	"github.com/agrawalprash/enaml/telemetry"
)

// Vars returns the interpolation variables referenced by the command tree.
func Vars() kong.Vars {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return kong.Vars{"formats": strings.Join(names, ",")}
}

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Minimum level of diagnostic log lines written to stderr." enum:"debug,info,warn,error" default:"warn" env:"ENAML_LOG_LEVEL"`
	NoColor   bool   `help:"Disable colored output." env:"NO_COLOR"`
}

type Commands struct {
	Globals

	Lex   LexCmd   `cmd:"" help:"Print the token stream of an enaml file."`
	Check CheckCmd `cmd:"" help:"Check that enaml files tokenize cleanly."`
	Watch WatchCmd `cmd:"" help:"Re-check an enaml file whenever it changes."`
	Repl  ReplCmd  `cmd:"" help:"Tokenize snippets typed at an interactive prompt."`
}

// AfterApply runs once flags are parsed, before any command.
func (g *Globals) AfterApply() error {
	if g.NoColor {
		DisableColor()
	}
	return nil
}

// Logger returns a text logger writing to w at the configured level.
func (g *Globals) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
		level = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Styles returns output styles for w, honoring --no-color.
func (g *Globals) Styles(w io.Writer) *output.Styles {
	return output.NewStyles(w, output.WithoutColor(g.NoColor))
}

// Loader returns a loader that logs to w.
func (g *Globals) Loader(w io.Writer, opts ...loader.Option) *loader.Loader {
	opts = append([]loader.Option{loader.WithLogger(g.Logger(w))}, opts...)
	return loader.New(opts...)
}

// session is the telemetry scope of one command run.
type session struct {
	collector telemetry.Collector
	timer     telemetry.Timer
	once      sync.Once
	w         io.Writer
}

// startSession returns a context carrying a timing collector when
// --telemetry is set. Calling report ends the root timer and writes the
// timing tree to w; only the first call has an effect.
func (g *Globals) startSession(ctx context.Context, w io.Writer, name string) (context.Context, *session) {
	s := &session{w: w}
	if !g.Telemetry {
		return ctx, s
	}

	s.collector = telemetry.NewTimingCollector(telemetry.WithStyles(g.Styles(w)))
	s.timer = s.collector.Start(name)
	return telemetry.WithCollector(ctx, s.collector), s
}

func (s *session) report() {
	s.once.Do(func() {
		if s.collector == nil {
			return
		}
		s.timer.End()
		_, _ = fmt.Fprintln(s.w)
		s.collector.Report(s.w)
	})
}
