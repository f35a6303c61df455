// Package enaml tokenizes enaml source.
//
// Tokenize is the short path for whole documents. For streaming, custom
// interning or error inspection use the lexer package directly:
//
//	l := lexer.NewLexer(src, "main.enaml")
//	for tok, err := range l.All() {
//		...
//	}
package enaml

import (
	"context"

	"github.com/agrawalprash/enaml/lexer"
	"github.com/agrawalprash/enaml/loader"
)

// Tokenize lexes src as a document named filename.
func Tokenize(src []byte, filename string) ([]lexer.Token, error) {
	return lexer.NewLexer(src, filename).ScanAll()
}

// TokenizeFiles lexes every file concurrently. See loader.Loader.LoadAll.
func TokenizeFiles(ctx context.Context, files ...string) ([]*loader.Result, error) {
	return loader.New().LoadAll(ctx, files)
}
