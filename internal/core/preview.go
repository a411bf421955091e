package core

// preview.go assembles the read-only preview of an upload.
//
// Every row is validated so the counts are exact, but only the first
// PreviewRows rows and the first MaxErrors messages are kept. Both windows
// are filled during the single pass over the RowIterator.

import (
	"errors"
	"fmt"
	"io"
)

const (
	DefaultPreviewRows = 10
	DefaultMaxErrors   = 100
)

// RowIterator yields RawRows until io.EOF. *RowReader implements it.
type RowIterator interface {
	Next() (RawRow, error)
}

// RowsOf adapts an in-memory slice to a RowIterator.
func RowsOf(rows []RawRow) RowIterator {
	return &sliceRows{rows: rows}
}

type sliceRows struct {
	rows []RawRow
	i    int
}

func (s *sliceRows) Next() (RawRow, error) {
	if s.i >= len(s.rows) {
		return RawRow{}, io.EOF
	}
	s.i++
	return s.rows[s.i-1], nil
}

// PreviewRow is the reduced rendering of one validated row.
type PreviewRow struct {
	RowNumber int               `json:"row_number"`
	Data      map[string]string `json:"data"`
	IsValid   bool              `json:"is_valid"`
}

// PreviewResult summarizes an upload without persisting anything.
type PreviewResult struct {
	TotalRows   int          `json:"total_rows"`
	ValidRows   int          `json:"valid_rows"`
	InvalidRows int          `json:"invalid_rows"`
	PreviewData []PreviewRow `json:"preview_data"`
	AllErrors   []string     `json:"all_errors"`
}

// PreviewAssembler builds PreviewResults with fixed window sizes.
type PreviewAssembler struct {
	previewRows int
	maxErrors   int
}

// NewPreviewAssembler returns an assembler. Non-positive sizes use the defaults.
func NewPreviewAssembler(previewRows, maxErrors int) *PreviewAssembler {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &PreviewAssembler{previewRows: previewRows, maxErrors: maxErrors}
}

// Assemble validates every row from rows against schema. A ParseError from
// the iterator fails the whole preview.
func (p *PreviewAssembler) Assemble(rows RowIterator, schema Schema) (PreviewResult, error) {
	res := PreviewResult{
		PreviewData: make([]PreviewRow, 0, p.previewRows),
	}
	errs := newErrorWindow(p.maxErrors)
	validator := NewRowValidator(schema)

	for {
		raw, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return PreviewResult{}, err
		}

		vr := validator.Validate(raw)
		res.TotalRows++
		if vr.Valid {
			res.ValidRows++
		} else {
			res.InvalidRows++
			for _, fe := range vr.Errors {
				errs.add(fmt.Sprintf("Row %d: %s", vr.Number, fe.Message))
			}
		}

		if len(res.PreviewData) < p.previewRows {
			res.PreviewData = append(res.PreviewData, summarize(vr, schema))
		}
	}

	res.AllErrors = errs.lines()
	return res, nil
}

func summarize(vr ValidatedRow, schema Schema) PreviewRow {
	data := make(map[string]string, len(schema.Summary))
	for _, name := range schema.Summary {
		data[name] = vr.Display[name]
	}
	return PreviewRow{RowNumber: vr.Number, Data: data, IsValid: vr.Valid}
}

// errorWindow keeps the first limit messages and counts the rest.
type errorWindow struct {
	limit    int
	kept     []string
	overflow int
}

func newErrorWindow(limit int) *errorWindow {
	return &errorWindow{limit: limit, kept: make([]string, 0)}
}

func (w *errorWindow) add(msg string) {
	if len(w.kept) < w.limit {
		w.kept = append(w.kept, msg)
		return
	}
	w.overflow++
}

func (w *errorWindow) lines() []string {
	if w.overflow == 0 {
		return w.kept
	}
	return append(w.kept, fmt.Sprintf("... and %d more errors", w.overflow))
}
