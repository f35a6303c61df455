package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/peterh/liner"

	"github.com/agrawalprash/enaml/formatter"
	"github.com/agrawalprash/enaml/lexer"
	"github.com/agrawalprash/enaml/loader"
)

const (
	promptMain  = "enaml> "
	promptCont  = "  ...> "
	historyFile = ".enaml_history"
	replName    = "<repl>"
)

const replHelp = `Type enaml source to see its tokens. Blocks ending in ':' continue
until an empty line. Commands:
  :help  show this message
  :quit  leave the prompt`

type ReplCmd struct {
	Format  string `help:"Output format (${formats})." enum:"${formats}" default:"text" short:"f"`
	Flags   bool   `help:"Show line-start and must-indent flags."`
	History string `help:"History file (defaults to ~/.enaml_history)." type:"path"`
}

func (cmd *ReplCmd) Run(ctx *kong.Context, globals *Globals) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cmd.History
	if histPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, historyFile)
		}
	}
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	f := formatter.New(
		formatter.WithFormat(formatter.Format(cmd.Format)),
		formatter.WithFlags(cmd.Flags),
		formatter.WithStyles(globals.Styles(ctx.Stdout)),
	)
	return runREPL(context.Background(), ln, globals.Loader(ctx.Stderr), f, ctx.Stdout, ctx.Stderr)
}

// prompter reads lines from the user. liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runREPL(ctx context.Context, p prompter, ldr *loader.Loader, f *formatter.Formatter, stdout, stderr io.Writer) error {
	for {
		src, ok := readSnippet(p, promptMain, promptCont)
		if !ok {
			_, _ = fmt.Fprintln(stdout)
			return nil
		}

		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit" || trimmed == ":q":
			return nil
		case trimmed == ":help":
			_, _ = fmt.Fprintln(stdout, replHelp)
			continue
		case strings.HasPrefix(trimmed, ":"):
			_, _ = fmt.Fprintf(stdout, "unknown command %s. Type :help for help.\n", trimmed)
			continue
		}

		p.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		source := []byte(src + "\n")
		result, err := ldr.LoadBytes(ctx, replName, source)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, NewErrorRenderer(source).Render(err))
			continue
		}
		if err := f.Format(ctx, result.Tokens, stdout); err != nil {
			return err
		}
	}
}

// readSnippet reads one complete snippet. Lines are added while the
// source so far ends inside a string or bracket. Once a line opens a block
// with a trailing colon, lines are added until an empty one. It reports
// false at end of input.
func readSnippet(p prompter, prompt, cont string) (string, bool) {
	var b strings.Builder
	inBlock := false

	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}

		line, err := p.Prompt(current)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if inBlock && strings.TrimSpace(line) == "" {
			return b.String(), true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		incomplete, opensBlock := probe(b.String() + "\n")
		if incomplete {
			continue
		}
		if opensBlock {
			inBlock = true
		}
		if !inBlock {
			return b.String(), true
		}
	}
}

// probe lexes src and reports whether it stops inside an unfinished
// construct and whether any line ends with a block-opening colon.
func probe(src string) (incomplete, opensBlock bool) {
	var prev lexer.TokenType
	for tok, err := range lexer.NewLexer([]byte(src), replName).All() {
		if err != nil {
			return lexer.IsIncomplete(err), opensBlock
		}
		if prev == lexer.COLON && tok.Type == lexer.NEWLINE {
			opensBlock = true
		}
		prev = tok.Type
	}
	return false, opensBlock
}
