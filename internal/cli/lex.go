// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"runtime"

	"gopkg.microglot.org/parsec.go/internal/fs"
	"gopkg.microglot.org/parsec.go/internal/iter"
	"gopkg.microglot.org/parsec.go/internal/lexer"
	"gopkg.microglot.org/parsec.go/internal/parse"
	"gopkg.microglot.org/parsec.go/internal/stream"
)

func defaultJobs() int {
	max := runtime.GOMAXPROCS(-1)
	cpus := runtime.NumCPU()
	if max > cpus {
		max = cpus
	}
	return max
}

type fileResult struct {
	index   int
	uri     string
	tokens  stream.Seq[lexer.Token]
	faulted bool
	errs    []*parse.Error
	err     error
}

// lexFiles lexes every file with at most jobs files in flight. Results are
// returned in the order of files.
func lexFiles(ctx context.Context, l *lexer.Lexer, files []fs.File, jobs int) ([]fileResult, error) {
	tokens := l.Tokens()
	sem := newSemaphore(jobs)
	results := make(chan fileResult, len(files))
	for x, file := range files {
		go func(x int, file fs.File) {
			sem.Lock()
			defer sem.Unlock()
			results <- lexFile(ctx, tokens, x, file)
		}(x, file)
	}

	out := make([]fileResult, len(files))
	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			out[result.index] = result
		}
	}
	return out, nil
}

func lexFile(ctx context.Context, tokens parse.Parser[stream.Seq[lexer.Token]], index int, f fs.File) fileResult {
	result := fileResult{index: index, uri: f.Path(ctx)}
	in, err := iter.ReadInput(ctx, f)
	if err != nil {
		result.err = err
		return result
	}
	out := tokens(in)
	toks, ok := out.Value()
	if !ok {
		log.Debugf("lexing %s failed", result.uri)
		result.faulted = true
		result.errs = out.Errors()
		return result
	}
	log.Debugf("lexed %d tokens from %s", toks.Len(), result.uri)
	result.tokens = toks
	return result
}
