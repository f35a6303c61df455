package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/agrawalprash/enaml/lexer"
	"github.com/agrawalprash/enaml/telemetry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.enaml", "enamldef Main(Window):\n    title = 'Hi'\n")

	result, err := New().Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, path, result.Filename)
	assert.Equal(t, "enamldef Main(Window):\n    title = 'Hi'\n", string(result.Source))
	assert.Zero(t, result.Err)
	assert.Equal(t, lexer.ENDMARKER, result.Tokens[len(result.Tokens)-1].Type)
	assert.Equal(t, 14, len(result.Tokens))
}

func TestLoadMissingFile(t *testing.T) {
	result, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.enaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Zero(t, result)
}

func TestLoadBytesLexError(t *testing.T) {
	result, err := New().LoadBytes(context.Background(), "<stdin>", []byte("a = 1\nb = $\n"))
	assert.EqualError(t, err, "<stdin>:2: invalid syntax")
	assert.Equal(t, err, result.Err)
	assert.Equal(t, "a = 1\nb = $\n", string(result.Source))
	assert.Zero(t, result.Tokens)
}

func TestLoadBytesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().LoadBytes(ctx, "main.enaml", []byte("x = 1\n"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, result)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.enaml", "Window:\n    title = 'a'\n"),
		writeFile(t, dir, "b.enaml", "Window:\n  title = 'b'\n title = 'c'\n"),
		writeFile(t, dir, "c.enaml", "Label:\n    text = title\n"),
		filepath.Join(dir, "missing.enaml"),
	}

	for _, concurrency := range []int{1, 4} {
		results, err := New(WithConcurrency(concurrency)).LoadAll(context.Background(), files)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "b.enaml:3: unindent does not match any outer level of indentation")
		assert.Contains(t, err.Error(), "failed to read")

		assert.Equal(t, len(files), len(results))
		for i, result := range results {
			assert.Equal(t, files[i], result.Filename)
		}
		assert.Zero(t, results[0].Err)
		assert.NotZero(t, results[1].Err)
		assert.NotZero(t, results[1].Source)
		assert.Zero(t, results[2].Err)
		assert.True(t, errors.Is(results[3].Err, os.ErrNotExist))
	}
}

func TestLoadAllSuccess(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.enaml", "Window:\n    title = 'a'\n"),
		writeFile(t, dir, "b.enaml", "Window:\n    title = 'b'\n"),
	}

	ldr := New()
	results, err := ldr.LoadAll(context.Background(), files)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(results))

	// Window and title, shared by both files
	assert.Equal(t, 2, ldr.Interner().Size())
}

func TestLoadAllCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "a.enaml", "x\n")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New().LoadAll(ctx, files)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, results)
}

func TestLoadWithInterner(t *testing.T) {
	interner := lexer.NewInterner(8)
	_, err := New(WithInterner(interner)).LoadBytes(context.Background(), "x", []byte("alpha beta alpha\n"))
	assert.NoError(t, err)
	assert.Equal(t, 2, interner.Size())
}

func TestLoadTelemetry(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.enaml", "a b c\n"),
		writeFile(t, dir, "b.enaml", "d\n"),
	}

	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)
	_, err := New().LoadAll(ctx, files)
	assert.NoError(t, err)

	var buf bytes.Buffer
	collector.Report(&buf)
	report := buf.String()

	assert.True(t, strings.HasPrefix(report, "load 2 files: "), "report:\n%s", report)
	assert.Contains(t, report, "a.enaml: ")
	assert.Contains(t, report, "(5 tokens)")
	assert.Contains(t, report, "(3 tokens)")
	assert.Contains(t, report, "read: ")
}
