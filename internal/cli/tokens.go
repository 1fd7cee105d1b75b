// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/fs"
	"gopkg.microglot.org/parsec.go/internal/iter"
	"gopkg.microglot.org/parsec.go/internal/lexer"
)

type tokenRecord struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
}

func newTokenRecord(file string, t lexer.Token) tokenRecord {
	r := tokenRecord{
		File:   file,
		Line:   t.Pos().Line,
		Column: t.Pos().Column,
		Kind:   t.Kind().String(),
		Text:   t.Text(),
	}
	switch tok := t.(type) {
	case lexer.IntegerToken:
		r.Value = tok.Value
	case lexer.FloatToken:
		r.Value = tok.Value
	case lexer.StringToken:
		r.Value = tok.Value
	case lexer.CharToken:
		r.Value = string(tok.Value)
	}
	return r
}

func newTokensCommand(o *options) *cobra.Command {
	var format string
	var kinds []string
	var jobs int
	cmd := &cobra.Command{
		Use:   "tokens [file|directory|-]",
		Short: "Print the tokens of source files",
		Long: `Lex the named file, every source file of the named directory, or
standard input when no argument or "-" is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json", "yaml"); err != nil {
				return err
			}
			keep, err := kindFilter(kinds)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			fsys, err := o.fileSystem()
			if err != nil {
				return err
			}
			_, def, err := o.config(ctx, fsys)
			if err != nil {
				return err
			}
			files, err := sources(ctx, fsys, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			results, err := lexFiles(ctx, lexer.New(def), files, jobs)
			if err != nil {
				return err
			}
			reporter := exc.NewReporter(nil)
			var records []tokenRecord
			for _, result := range results {
				if result.err != nil {
					return result.err
				}
				if result.faulted {
					if fatal := report(reporter, result.uri, result.errs); fatal != nil {
						break
					}
					continue
				}
				kept, err := iter.Collect(ctx, iter.NewIteratorFilter(iter.NewSeq(result.tokens), keep))
				if err != nil {
					return err
				}
				for _, t := range kept {
					records = append(records, newTokenRecord(result.uri, t))
				}
			}
			if err := writeTokens(cmd.OutOrStdout(), format, records); err != nil {
				return err
			}
			return reported(reporter)
		},
	}
	formatFlag(cmd.Flags(), &format, "text", "text", "json", "yaml")
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "Only print tokens of the given kinds.")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultJobs(), "Maximum number of files lexed at once.")
	return cmd
}

func kindFilter(names []string) (iter.Filter[lexer.Token], error) {
	keep := make(map[lexer.Kind]bool, len(names))
	for _, name := range names {
		k, ok := lexer.ParseKind(name)
		if !ok {
			return nil, exc.New(exc.Location{}, exc.CodeUnknownFatal, fmt.Sprintf("unknown token kind %q", name))
		}
		keep[k] = true
	}
	return iter.FilterFunc[lexer.Token](func(_ context.Context, t lexer.Token) bool {
		return len(keep) == 0 || keep[t.Kind()]
	}), nil
}

// sources returns the files to lex. Definition files found in a directory
// are skipped.
func sources(ctx context.Context, fsys fs.FileSystem, stdin io.Reader, args []string) ([]fs.File, error) {
	if len(args) == 0 || args[0] == "-" {
		return []fs.File{fs.NewFileReader("-", stdin, fs.FileKindSource)}, nil
	}
	files, err := fsys.Open(ctx, args[0])
	if err != nil {
		return nil, err
	}
	isSource := iter.FilterFunc[fs.File](func(ctx context.Context, f fs.File) bool {
		return f.Kind(ctx) == fs.FileKindSource
	})
	out, err := iter.Collect(ctx, iter.NewIteratorFilter(iter.NewSlice(files), isSource))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, exc.New(exc.Location{URI: args[0]}, exc.CodeFileNotFound, "no source files")
	}
	return out, nil
}

func writeTokens(w io.Writer, format string, records []tokenRecord) error {
	switch format {
	case "json":
		if records == nil {
			records = []tokenRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		if len(records) == 0 {
			return nil
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, r := range records {
			if _, err := fmt.Fprintf(w, "%s:%d:%d\t%s\t%s\n", r.File, r.Line, r.Column, r.Kind, r.Text); err != nil {
				return err
			}
		}
		return nil
	}
}
