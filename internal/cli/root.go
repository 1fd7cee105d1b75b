// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the parsec command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/fs"
	"gopkg.microglot.org/parsec.go/internal/iter"
	"gopkg.microglot.org/parsec.go/internal/lexer"
	"gopkg.microglot.org/parsec.go/internal/parse"
)

var log = commonlog.GetLogger("parsec.cli")

type options struct {
	verbose    int
	roots      []string
	definition string
	lookupEnv  func(string) (string, bool)
}

// NewCommand returns the root of the parsec command tree.
func NewCommand() *cobra.Command {
	o := &options{lookupEnv: os.LookupEnv}
	root := &cobra.Command{
		Use:           "parsec",
		Short:         "Lex and evaluate text with parser combinators",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(o.verbose, nil)
		},
	}
	flags := root.PersistentFlags()
	flags.CountVarP(&o.verbose, "verbose", "v", "Increase log verbosity. May be repeated.")
	flags.StringSliceVar(&o.roots, "root", []string{"."}, "Root search paths for sources and definitions.")
	flags.StringVarP(&o.definition, "definition", "d", "haskell",
		"Preset name ("+strings.Join(lexer.Presets(), ", ")+") or path to a TOML or YAML definition.")
	root.AddCommand(
		newTokensCommand(o),
		newCalcCommand(o),
		newDefinitionCommand(o),
	)
	return root
}

// Execute runs the command tree with args and writes any failure to the
// command's error stream. The result is the process exit status.
func Execute(ctx context.Context, args []string) int {
	cmd := NewCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		printErr(cmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func printErr(w io.Writer, err error) {
	var me exc.MultiException
	if errors.As(err, &me) {
		for _, e := range me {
			fmt.Fprintln(w, e.Error())
		}
		return
	}
	fmt.Fprintln(w, err.Error())
}

func formatFlag(flags *pflag.FlagSet, target *string, value string, allowed ...string) {
	flags.StringVarP(target, "format", "f", value, "Output format: "+strings.Join(allowed, ", ")+".")
}

func checkFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return exc.New(exc.Location{}, exc.CodeUnsupportedFileFormat, fmt.Sprintf("unsupported format %q", format))
}

// fileSystem searches the --root directories in order and then the shared
// definition directories.
func (o *options) fileSystem() (fs.FileSystemMulti, error) {
	mf := make(fs.FileSystemMulti, 0, len(o.roots)+1)
	for _, root := range o.roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, exc.WrapUnknown(exc.Location{URI: root}, err)
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		mf = append(mf, rf)
	}
	dfs, err := fs.NewDefaultFS(o.lookupEnv)
	if err != nil {
		return nil, err
	}
	return append(mf, dfs), nil
}

// config resolves the --definition flag into a fully populated config and
// the definition built from it.
func (o *options) config(ctx context.Context, fsys fs.FileSystem) (lexer.Config, lexer.Definition, error) {
	cfg, ok := lexer.PresetConfig(o.definition)
	if ok {
		log.Debugf("using preset definition %q", o.definition)
	} else {
		loaded, err := o.loadConfig(ctx, fsys)
		if err != nil {
			return lexer.Config{}, lexer.Definition{}, err
		}
		cfg = loaded
	}
	def, err := cfg.Definition()
	if err != nil {
		return lexer.Config{}, lexer.Definition{}, exc.Wrap(exc.Location{URI: o.definition}, exc.CodeInvalidDefinition, err)
	}
	return cfg, def, nil
}

func (o *options) loadConfig(ctx context.Context, fsys fs.FileSystem) (lexer.Config, error) {
	loc := exc.Location{URI: o.definition}
	files, err := fsys.Open(ctx, o.definition)
	if err != nil {
		return lexer.Config{}, err
	}
	if len(files) != 1 || !files[0].Kind(ctx).IsDefinition() {
		return lexer.Config{}, exc.New(loc, exc.CodeInvalidDefinition, "definition must name a single .toml, .yaml or .yml file")
	}
	body, err := files[0].Body(ctx)
	if err != nil {
		return lexer.Config{}, err
	}
	r := iter.NewReader(ctx, body)
	defer r.Close()
	cfg, err := lexer.DecodeConfig(files[0].Path(ctx), r)
	if err != nil {
		return lexer.Config{}, err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return lexer.Config{}, exc.Wrap(loc, exc.CodeInvalidDefinition, err)
	}
	log.Infof("loaded definition %q from %s", resolved.Name, files[0].Path(ctx))
	return resolved, nil
}

// report adds the errors of a failed parse to r under uri. The result is
// the first error r considers fatal.
func report(r exc.Reporter, uri string, errs []*parse.Error) exc.Exception {
	if len(errs) == 0 {
		return r.Report(exc.New(exc.Location{URI: uri, EOF: true}, exc.CodeUnexpected, "no match"))
	}
	es := make([]exc.Exception, 0, len(errs))
	for _, e := range errs {
		es = append(es, e.WithURI(uri))
	}
	return exc.ReportAll(r, es...)
}

func reported(r exc.Reporter) error {
	if es := r.Reported(); len(es) > 0 {
		return exc.MultiException(es)
	}
	return nil
}
