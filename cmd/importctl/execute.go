package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

func newExecuteCmd(opts *rootOptions) *cobra.Command {
	var (
		school      string
		skipInvalid bool
		report      string
	)
	cmd := &cobra.Command{
		Use:   "execute <student|employee> <file>",
		Short: "Import a file into the database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := readUpload(args[0], args[1], school)
			if err != nil {
				return err
			}
			req.SkipInvalid = skipInvalid

			res, err := a.Service.Execute(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}
			if err := printJSON(cmd, res); err != nil {
				return err
			}
			if report != "" && len(res.Errors) > 0 {
				if err := writeReport(report, res.Errors); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d row errors to %s\n", len(res.Errors), report)
			}
			if res.Status != core.StatusCompleted {
				return fmt.Errorf("import %s", res.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&school, "school", "", "school id the rows belong to (required)")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "import valid rows even when some rows are invalid")
	cmd.Flags().StringVar(&report, "report", "", "write failed rows to this CSV file")
	_ = cmd.MarkFlagRequired("school")
	return cmd
}

// reportRow is one line of the --report CSV.
type reportRow struct {
	Row   int    `csv:"row"`
	Error string `csv:"error"`
}

func reportRows(outcomes []core.RowOutcome) []reportRow {
	rows := make([]reportRow, 0, len(outcomes))
	for _, o := range outcomes {
		msg := o.Error
		if len(o.Errors) > 0 {
			msg = strings.Join(o.Errors, "; ")
		}
		rows = append(rows, reportRow{Row: o.Row, Error: msg})
	}
	return rows
}

func writeReport(path string, outcomes []core.RowOutcome) error {
	if len(outcomes) == 0 {
		return errors.New("no row errors to report")
	}
	data, err := csvutil.Marshal(reportRows(outcomes))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
