package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/agrawalprash/enaml/loader"
)

type CheckCmd struct {
	Files []string `help:"Enaml input filenames." arg:"" type:"existingfile"`
	Jobs  int      `help:"Number of files to lex in parallel (0 uses one per CPU)." default:"0" short:"j"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, sess := globals.startSession(context.Background(), ctx.Stderr, fmt.Sprintf("check %d files", len(cmd.Files)))
	defer sess.report()

	var opts []loader.Option
	if cmd.Jobs > 0 {
		opts = append(opts, loader.WithConcurrency(cmd.Jobs))
	}
	ldr := globals.Loader(ctx.Stderr, opts...)

	start := time.Now()
	results, err := ldr.LoadAll(runCtx, cmd.Files)
	if results == nil {
		return err
	}

	failed := 0
	var bytes, tokens int
	for _, result := range results {
		bytes += len(result.Source)
		tokens += len(result.Tokens)
		if result.Err == nil {
			continue
		}
		failed++
		renderer := NewErrorRenderer(result.Source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(result.Err))
	}

	if failed > 0 {
		cmdErr := NewCommandError(1, "%d of %d file(s) failed", failed, len(results))
		printError(ctx.Stderr, cmdErr.Reason)
		return cmdErr
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %s in %s, %s tokens (%s)",
		pluralFiles(len(results)),
		humanize.Bytes(uint64(bytes)),
		humanize.Comma(int64(tokens)),
		time.Since(start).Round(time.Millisecond),
	))
	return nil
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
