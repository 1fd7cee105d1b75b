// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/parsec.go/internal/exc"
	"gopkg.microglot.org/parsec.go/internal/lexer"
)

func newDefinitionCommand(o *options) *cobra.Command {
	var format string
	var output string
	cmd := &cobra.Command{
		Use:   "definition",
		Short: "Print the resolved language definition",
		Long: `Print the definition selected with --definition with every field
filled in from its preset. With --output the definition is written below the
first --root instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "toml", "yaml"); err != nil {
				return err
			}
			ctx := cmd.Context()
			fsys, err := o.fileSystem()
			if err != nil {
				return err
			}
			cfg, _, err := o.config(ctx, fsys)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := lexer.EncodeConfig(&buf, format, cfg); err != nil {
				return exc.WrapUnknown(exc.Location{URI: o.definition}, err)
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := fsys.Write(ctx, output, buf.String()); err != nil {
				return err
			}
			log.Infof("wrote definition %q to %s", cfg.Name, output)
			return nil
		},
	}
	formatFlag(cmd.Flags(), &format, "toml", "toml", "yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this path below the first root instead of standard output.")
	return cmd
}
