package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/agrawalprash/enaml/formatter"
)

// largeDump is the token count above which lex asks before flooding a
// terminal.
const largeDump = 5000

type LexCmd struct {
	File   FileOrStdin `help:"Enaml input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Format string      `help:"Output format (${formats})." enum:"${formats}" default:"text" short:"f"`
	Flags  bool        `help:"Show line-start and must-indent flags."`
}

func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx, sess := globals.startSession(context.Background(), ctx.Stderr, fmt.Sprintf("lex %s", filepath.Base(cmd.File.Filename)))
	defer sess.report()

	ldr := globals.Loader(ctx.Stderr)
	result, err := cmd.File.Load(runCtx, ldr)
	if err != nil {
		if result == nil {
			return err
		}
		renderer := NewErrorRenderer(result.Source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "lex error")
		return NewCommandError(1, "lex error in %s", result.Filename)
	}

	if len(result.Tokens) > largeDump && writesToTerminal(ctx.Stdout) {
		ok, err := promptYesNo(fmt.Sprintf("Print %s tokens?", humanize.Comma(int64(len(result.Tokens)))))
		if err != nil {
			return err
		}
		if !ok {
			printInfof(ctx.Stderr, "Skipped %s tokens", humanize.Comma(int64(len(result.Tokens))))
			return nil
		}
	}

	f := formatter.New(
		formatter.WithFormat(formatter.Format(cmd.Format)),
		formatter.WithFlags(cmd.Flags),
		formatter.WithStyles(globals.Styles(ctx.Stdout)),
	)
	return f.Format(runCtx, result.Tokens, ctx.Stdout)
}
