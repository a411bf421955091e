package core

// convert.go holds the pure coercion functions behind each field Kind.
//
// Every function takes an already cleaned cell and reports whether it
// satisfied the rule, so the validator can record one error per failed
// field without any cell being interpreted twice.

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// Excel serial day numbers accepted as dates (1900-01-01 to 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// CleanCell trims whitespace and unwraps spreadsheet text guards such as
// ="0123" and a leading apostrophe.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "'")
	return strings.TrimSpace(s)
}

// CoerceMobile accepts exactly ten ASCII digits.
func CoerceMobile(s string) (string, bool) {
	if len(s) != 10 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", false
		}
	}
	return s, true
}

// CoerceDate parses a YYYY-MM-DD calendar date.
func CoerceDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CoerceEnum returns the declared spelling of s when it matches one of values.
func CoerceEnum(s string, values []string) (string, bool) {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return v, true
		}
	}
	return "", false
}

// normalizeSheetDate rewrites spreadsheet date representations into
// YYYY-MM-DD. A serial day number is converted only when the cell was
// stored as a number, so text such as "2024" reaches the validator as
// typed. RFC 3339 timestamps are converted regardless of cell type.
// Anything else is returned untouched so the validator can reject it.
func normalizeSheetDate(s string, numeric bool) string {
	if s == "" {
		return s
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if !numeric {
			return s
		}
		if serial < minExcelSerial || serial > maxExcelSerial {
			return s
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return s
		}
		return t.Format(DateLayout)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateLayout)
	}
	return s
}
