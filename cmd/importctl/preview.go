package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var school string
	cmd := &cobra.Command{
		Use:   "preview <student|employee> <file>",
		Short: "Validate a file and print the preview without importing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := readUpload(args[0], args[1], school)
			if err != nil {
				return err
			}
			res, err := a.Service.Preview(cmd.Context(), req)
			if err != nil {
				return userError(err)
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&school, "school", "", "school id the rows belong to")
	return cmd
}

func readUpload(importType, path, school string) (core.UploadRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.UploadRequest{}, fmt.Errorf("read %s: %w", path, err)
	}
	return core.UploadRequest{
		ImportType: importType,
		SchoolID:   school,
		FileName:   filepath.Base(path),
		Data:       data,
	}, nil
}
