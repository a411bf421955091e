package core

// validation.go applies the per-field and per-file rules to RawRows.
//
// For every field, in schema order:
//  1. required presence ("<label> is required")
//  2. kind format (Mobile10, Date, Enum), only when the cell is non-empty
//
// then a cross-row duplicate check on (name, mobile). All rules run, so a row
// reports every problem at once. A RowValidator carries the duplicate set for
// one pass over one file and must not be reused across files.

import (
	"fmt"
	"strings"
)

// FieldError is a validation failure scoped to one field. Field is empty for
// row-level rules.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Message }

// ValidatedRow is a RawRow after rule evaluation. Fields holds typed values
// for rules that passed (string, or time.Time for dates); Display keeps the
// cleaned cell text, including values that failed, for rendering.
type ValidatedRow struct {
	Number  int
	Fields  map[string]any
	Display map[string]string
	Valid   bool
	Errors  []FieldError
}

// Messages returns the row's error messages in rule order.
func (v ValidatedRow) Messages() []string {
	out := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		out[i] = e.Message
	}
	return out
}

const (
	dupNameField   = "name"
	dupMobileField = "mobile"
)

// RowValidator validates the rows of a single file.
type RowValidator struct {
	schema Schema
	seen   map[string]int // duplicate key -> first row number
}

// NewRowValidator returns a validator with an empty duplicate set.
func NewRowValidator(schema Schema) *RowValidator {
	return &RowValidator{
		schema: schema,
		seen:   make(map[string]int),
	}
}

// Validate evaluates every rule against raw. Rows must be fed in file order
// for the duplicate check to blame the later occurrence.
func (v *RowValidator) Validate(raw RawRow) ValidatedRow {
	out := ValidatedRow{
		Number:  raw.Number,
		Fields:  make(map[string]any, len(v.schema.Fields)),
		Display: make(map[string]string, len(v.schema.Fields)),
	}

	for _, f := range v.schema.Fields {
		cell := strings.TrimSpace(raw.Get(f.Name))
		out.Display[f.Name] = cell

		if cell == "" {
			if f.Required {
				out.Errors = append(out.Errors, FieldError{Field: f.Name, Message: f.Label + " is required"})
			}
			continue
		}

		value, err := coerce(f, cell)
		if err != nil {
			out.Errors = append(out.Errors, *err)
			continue
		}
		out.Fields[f.Name] = value
	}

	if msg, dup := v.checkDuplicate(raw); dup {
		out.Errors = append(out.Errors, FieldError{Message: msg})
	}

	out.Valid = len(out.Errors) == 0
	return out
}

func coerce(f FieldSchema, cell string) (any, *FieldError) {
	switch f.Kind {
	case KindMobile10:
		if m, ok := CoerceMobile(cell); ok {
			return m, nil
		}
		return nil, &FieldError{Field: f.Name, Message: f.Label + " must be exactly 10 digits"}
	case KindDate:
		if t, ok := CoerceDate(cell); ok {
			return t, nil
		}
		return nil, &FieldError{Field: f.Name, Message: f.Label + " must be a valid date in YYYY-MM-DD format"}
	case KindEnum:
		if e, ok := CoerceEnum(cell, f.EnumValues); ok {
			return e, nil
		}
		return nil, &FieldError{Field: f.Name,
			Message: fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.EnumValues, ", "))}
	default:
		return cell, nil
	}
}

// checkDuplicate records the row's (name, mobile) pair and reports whether an
// earlier row already used it. Rows missing either value are not tracked.
func (v *RowValidator) checkDuplicate(raw RawRow) (string, bool) {
	name := strings.ToLower(strings.Join(strings.Fields(raw.Get(dupNameField)), " "))
	mobile := strings.TrimSpace(raw.Get(dupMobileField))
	if name == "" || mobile == "" {
		return "", false
	}

	key := name + "\x00" + mobile
	if first, ok := v.seen[key]; ok {
		return fmt.Sprintf("Duplicate entry: same name and mobile as row %d", first), true
	}
	v.seen[key] = raw.Number
	return "", false
}
