// Package loader reads enaml documents from disk and lexes them.
//
// A Loader shares one name interner between every document it loads, so
// projects with many files that reuse the same widget and attribute names
// keep a single copy of each. LoadAll lexes files in parallel.
//
// Example usage:
//
//	ldr := loader.New(loader.WithConcurrency(4))
//	results, err := ldr.LoadAll(ctx, []string{"main.enaml", "widgets.enaml"})
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agrawalprash/enaml/lexer"
	"github.com/agrawalprash/enaml/telemetry"
)

// Loader reads and lexes enaml files.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithConcurrency(2))
type Loader struct {
	// Concurrency bounds the number of files LoadAll lexes at once.
	Concurrency int

	interner *lexer.Interner
	logger   *slog.Logger
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithConcurrency sets how many files LoadAll processes in parallel.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.Concurrency = n
		}
	}
}

// WithInterner makes the loader intern names into i.
func WithInterner(i *lexer.Interner) Option {
	return func(l *Loader) {
		l.interner = i
	}
}

// WithLogger sets the logger used for per-file debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		Concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.interner == nil {
		l.interner = lexer.NewInterner(1024)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l
}

// Interner returns the interner shared by all loaded documents.
func (l *Loader) Interner() *lexer.Interner {
	return l.interner
}

// Result is one lexed document.
type Result struct {
	Filename string
	Source   []byte
	Tokens   []lexer.Token

	// Err is the error that stopped lexing, if any. Source is still set so
	// the error can be shown in context.
	Err error
}

// Load reads and lexes filename. A lexing failure returns both the partial
// Result and the error; a read failure returns no Result.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("load " + filename)
	defer timer.End()

	return l.load(ctx, timer, filename)
}

// LoadBytes lexes an in-memory document, e.g. one read from stdin.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("load " + name)
	defer timer.End()

	return l.lex(ctx, timer, name, data)
}

// LoadAll loads every file, at most Concurrency at a time. The results are
// in the order of files and never nil. The returned error joins the errors
// of all files that failed; cancelling ctx aborts the whole run.
func (l *Loader) LoadAll(ctx context.Context, files []string) ([]*Result, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("load %d files", len(files)))
	defer timer.End()

	results := make([]*Result, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.Concurrency)

	for i, filename := range files {
		g.Go(func() error {
			child := timer.Child(filename)
			defer child.End()

			result, err := l.load(gctx, child, filename)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			if result == nil {
				result = &Result{Filename: filename, Err: err}
			}
			results[i] = result
			errs[i] = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, errors.Join(errs...)
}

func (l *Loader) load(ctx context.Context, timer telemetry.Timer, filename string) (*Result, error) {
	read := timer.Child("read")
	data, err := os.ReadFile(filename)
	read.End()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.lex(ctx, timer, filename, data)
}

func (l *Loader) lex(ctx context.Context, timer telemetry.Timer, name string, data []byte) (*Result, error) {
	lexTimer := timer.Child("lex")
	defer lexTimer.End()

	result := &Result{Filename: name, Source: data}
	lx := lexer.NewLexer(data, name, lexer.WithInterner(l.interner))
	done := ctx.Done()

	for tok, err := range lx.All() {
		if err != nil {
			l.logger.Debug("lex failed", "file", name, "error", err)
			result.Tokens = nil
			result.Err = err
			return result, err
		}

		select {
		case <-done:
			return nil, ctx.Err()
		default:
		}
		result.Tokens = append(result.Tokens, tok)
	}

	lexTimer.Count(len(result.Tokens), "tokens")
	l.logger.Debug("lexed file", "file", name, "bytes", len(data), "tokens", len(result.Tokens))
	return result, nil
}
