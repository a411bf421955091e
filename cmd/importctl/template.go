package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newTemplateCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template <student|employee>",
		Short: "Write the import template CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			tmpl, err := a.Service.Template(args[0])
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), tmpl.SampleCSV)
				return err
			}
			if err := os.WriteFile(out, []byte(tmpl.SampleCSV), 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}
