package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ImportTemplate is the downloadable starting point for an import type.
type ImportTemplate struct {
	ImportType ImportType `json:"import_type"`
	Headers    []string   `json:"headers"`
	SampleCSV  string     `json:"sample_csv"`
}

// GenerateTemplate builds the header list and a one-row example CSV from
// schema. The example row uses each field's Sample value and passes
// validation.
func GenerateTemplate(schema Schema) (ImportTemplate, error) {
	headers := schema.Headers()
	sample := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		sample[i] = f.Sample
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{headers, sample}); err != nil {
		return ImportTemplate{}, fmt.Errorf("write %s template: %w", schema.Type, err)
	}

	return ImportTemplate{
		ImportType: schema.Type,
		Headers:    headers,
		SampleCSV:  buf.String(),
	}, nil
}

// TemplateFilename is the suggested download name, e.g. "student_import_template.csv".
func TemplateFilename(t ImportType) string {
	return fmt.Sprintf("%s_import_template.csv", t)
}
