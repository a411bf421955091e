package core

// ingest.go turns uploaded bytes into RawRows.
//
// The first row of the first sheet is the header. It is mapped onto schema
// fields once, then every later row becomes a RawRow numbered from 1. Rows
// are produced one at a time through RowReader.Next so preview and execute
// never hold a second copy of the workbook as strings.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultMaxFileSize = 10 << 20
	DefaultMaxRows     = 10000
)

// Supported upload extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// RawRow is one data line keyed by canonical field name. Number is the row's
// position below the header, starting at 1.
type RawRow struct {
	Number int
	Cells  map[string]string
}

// Get returns the cell for field, or "" when the column was absent.
func (r RawRow) Get(field string) string {
	return r.Cells[field]
}

// NormalizeExtension lowercases ext and ensures a leading dot, so "XLSX",
// "xlsx" and ".xlsx" compare equal.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtensionOf returns the normalized extension of a file name.
func ExtensionOf(filename string) string {
	return NormalizeExtension(filepath.Ext(filename))
}

// Fingerprint is a stable content hash used to correlate preview and
// execute calls for the same file in logs and import run records.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Ingestor parses uploads under fixed size and row limits.
type Ingestor struct {
	maxFileSize int64
	maxRows     int
}

// NewIngestor returns an Ingestor. Non-positive limits fall back to the
// package defaults.
func NewIngestor(maxFileSize int64, maxRows int) *Ingestor {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Ingestor{maxFileSize: maxFileSize, maxRows: maxRows}
}

// MaxFileSize returns the configured size ceiling in bytes.
func (in *Ingestor) MaxFileSize() int64 { return in.maxFileSize }

// Open validates the file envelope, reads the header row and returns a
// reader positioned at the first data row.
func (in *Ingestor) Open(data []byte, ext string, schema Schema) (rr *RowReader, err error) {
	ext = NormalizeExtension(ext)
	switch ext {
	case ExtCSV, ExtXLSX, ExtXLS:
	default:
		return nil, parseErrorf(ErrUnsupportedExtension, "%q (allowed: .csv, .xlsx, .xls)", ext)
	}
	if int64(len(data)) > in.maxFileSize {
		return nil, parseErrorf(ErrFileTooLarge, "%d bytes exceeds the %d byte limit", len(data), in.maxFileSize)
	}
	if len(bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))) == 0 {
		return nil, &ParseError{Kind: ErrEmptyFile}
	}

	defer func() {
		// Legacy workbook decoders panic on some malformed files.
		if p := recover(); p != nil {
			rr, err = nil, parseErrorf(ErrUnreadableFile, "%v", p)
		}
	}()

	var src rowSource
	switch ext {
	case ExtCSV:
		src = newCSVSource(data)
	case ExtXLSX:
		src, err = newXLSXSource(data)
	case ExtXLS:
		src, err = newXLSSource(data)
	}
	if err != nil {
		return nil, err
	}

	header, headerPos, err := src.next()
	if errors.Is(err, io.EOF) {
		src.close()
		return nil, &ParseError{Kind: ErrMissingHeader}
	}
	if err != nil {
		src.close()
		return nil, asParseError(err)
	}

	columns, matched := schema.MapHeaders(header)
	if matched == 0 {
		src.close()
		return nil, parseErrorf(ErrMissingHeader, "no column matches a %s field (expected e.g. %s)",
			strings.ToLower(schema.Label), strings.Join(schema.Headers(), ", "))
	}

	rr = &RowReader{
		src:       src,
		columns:   columns,
		maxRows:   in.maxRows,
		headerPos: headerPos,
	}
	if ext != ExtCSV {
		rr.dateFields = make(map[string]bool)
		for _, f := range schema.Fields {
			if f.Kind == KindDate {
				rr.dateFields[f.Name] = true
			}
		}
	}
	return rr, nil
}

// Parse reads every data row. Prefer Open for large files.
func (in *Ingestor) Parse(data []byte, ext string, schema Schema) ([]RawRow, error) {
	rr, err := in.Open(data, ext, schema)
	if err != nil {
		return nil, err
	}
	defer rr.Close()

	var rows []RawRow
	for {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RowReader yields RawRows in file order.
type RowReader struct {
	src        rowSource
	columns    []string
	dateFields map[string]bool
	maxRows    int

	headerPos int
	position  int // current row below the header, blank rows included
	emitted   int
}

// Columns returns the field each uploaded column was mapped to ("" when ignored).
func (r *RowReader) Columns() []string { return r.columns }

// Next returns the next non-blank data row, or io.EOF after the last one.
// Blank rows are skipped but still advance the row number.
func (r *RowReader) Next() (row RawRow, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = parseErrorf(ErrUnreadableFile, "row %d: %v", r.position, p)
		}
	}()

	for {
		record, pos, err := r.src.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return RawRow{}, io.EOF
			}
			return RawRow{}, asParseError(err)
		}
		r.position = pos - r.headerPos

		if isBlankRecord(record) {
			continue
		}
		r.emitted++
		if r.emitted > r.maxRows {
			return RawRow{}, parseErrorf(ErrTooManyRows, "more than %d data rows", r.maxRows)
		}
		return r.buildRow(record), nil
	}
}

// Close releases the underlying workbook.
func (r *RowReader) Close() error {
	return r.src.close()
}

func (r *RowReader) buildRow(record []string) RawRow {
	cells := make(map[string]string, len(r.columns))
	for i, field := range r.columns {
		if field == "" {
			continue
		}
		var v string
		if i < len(record) {
			v = CleanCell(record[i])
		}
		if r.dateFields[field] && v != "" {
			v = normalizeSheetDate(v, r.src.numeric(i))
		}
		cells[field] = v
	}
	return RawRow{Number: r.position, Cells: cells}
}

func isBlankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func asParseError(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{Kind: ErrUnreadableFile, Detail: err.Error()}
}

// rowSource yields raw records, returning io.EOF after the last one.
// Positions are 1-based and count every row of the file, so a gap of
// empty lines or sheet rows advances them by more than one.
type rowSource interface {
	next() (record []string, pos int, err error)
	// numeric reports whether column col of the last record holds a
	// number in the workbook rather than text.
	numeric(col int) bool
	close() error
}

type csvSource struct {
	r       *csv.Reader
	pos     int
	lastEnd int // physical line the previous record ended on
}

func newCSVSource(data []byte) *csvSource {
	r := csv.NewReader(NewDecodingReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return &csvSource{r: r}
}

// next counts the empty lines encoding/csv skips over so that row
// numbers match what a spreadsheet shows. A quoted field spanning several
// lines still counts as one row.
func (s *csvSource) next() ([]string, int, error) {
	rec, err := s.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("invalid csv: %w", err)
	}
	start, _ := s.r.FieldPos(0)
	s.pos += start - s.lastEnd
	last := len(rec) - 1
	end, _ := s.r.FieldPos(last)
	s.lastEnd = end + strings.Count(rec[last], "\n")
	return rec, s.pos, nil
}

func (s *csvSource) numeric(int) bool { return false }

func (s *csvSource) close() error { return nil }

type xlsxSource struct {
	f     *excelize.File
	sheet string
	rows  *excelize.Rows
	pos   int
}

func newXLSXSource(data []byte) (*xlsxSource, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseErrorf(ErrUnreadableFile, "invalid xlsx: %v", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, parseErrorf(ErrUnreadableFile, "workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, parseErrorf(ErrUnreadableFile, "read sheet %q: %v", sheets[0], err)
	}
	return &xlsxSource{f: f, sheet: sheets[0], rows: rows}, nil
}

// next yields every sheet row, including ones the file leaves out.
func (s *xlsxSource) next() ([]string, int, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, 0, err
		}
		return nil, 0, io.EOF
	}
	s.pos++
	cells, err := s.rows.Columns(excelize.Options{RawCellValue: true})
	return cells, s.pos, err
}

// numeric treats untyped cells as numbers, which is how spreadsheet
// applications store them.
func (s *xlsxSource) numeric(col int) bool {
	cell, err := excelize.CoordinatesToCellName(col+1, s.pos)
	if err != nil {
		return false
	}
	typ, err := s.f.GetCellType(s.sheet, cell)
	if err != nil {
		return false
	}
	return typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber
}

func (s *xlsxSource) close() error {
	s.rows.Close()
	return s.f.Close()
}

// BIFF8 sheets are at most 256 columns wide.
const xlsMaxCols = 256

type xlsSource struct {
	sheet  *xls.WorkSheet
	cursor int
	width  int // header width, once read
}

func newXLSSource(data []byte) (*xlsSource, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, parseErrorf(ErrUnreadableFile, "invalid xls: %v", err)
	}
	if wb == nil {
		return nil, parseErrorf(ErrUnreadableFile, "invalid xls: no workbook stream")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, parseErrorf(ErrUnreadableFile, "workbook has no sheets")
	}
	return &xlsSource{sheet: sheet}, nil
}

// next reads the header across the full sheet width because its ROW
// record may be missing. Data rows are read as wide as the header or
// their own extent, whichever is larger.
func (s *xlsSource) next() ([]string, int, error) {
	if s.cursor > int(s.sheet.MaxRow) {
		return nil, 0, io.EOF
	}
	idx := s.cursor
	s.cursor++
	row := sheetRow(s.sheet, idx)
	if row == nil {
		return nil, idx + 1, nil
	}

	n := max(row.LastCol()+1, s.width)
	if s.width == 0 {
		n = xlsMaxCols
	}
	cells := make([]string, n)
	for j := range cells {
		cells[j] = row.Col(j)
	}
	if s.width == 0 {
		for n > 0 && cells[n-1] == "" {
			n--
		}
		cells = cells[:n]
		s.width = max(n, 1)
	}
	return cells, idx + 1, nil
}

// numeric is always false: the decoder hands back rendered strings only,
// so a number and numeric-looking text cannot be told apart. Date cells
// with a custom format still arrive as RFC 3339 timestamps.
func (s *xlsSource) numeric(int) bool { return false }

func (s *xlsSource) close() error { return nil }

// sheetRow returns row i, or nil when the sheet stores nothing for it.
// WorkSheet.Row panics on rows absent from the file.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
