package core

import (
	"strings"
	"testing"
	"time"
)

func studentRow(n int, cells map[string]string) RawRow {
	base := map[string]string{
		"name":       "Aarav Sharma",
		"class_name": "5",
		"mobile":     "9876543210",
	}
	for k, v := range cells {
		base[k] = v
	}
	return RawRow{Number: n, Cells: base}
}

func TestRowValidator_Rules(t *testing.T) {
	tests := []struct {
		name      string
		cells     map[string]string
		wantValid bool
		wantField string
		wantMsg   string
	}{
		{"valid minimal row", nil, true, "", ""},
		{"ten digit mobile passes", map[string]string{"mobile": "9876543210"}, true, "", ""},
		{"eight digit mobile", map[string]string{"mobile": "98765432"}, false, "mobile", "Mobile Number must be exactly 10 digits"},
		{"missing name", map[string]string{"name": "   "}, false, "name", "Student Name is required"},
		{"missing class", map[string]string{"class_name": ""}, false, "class_name", "Class is required"},
		{"iso date passes", map[string]string{"dob": "2024-01-15"}, true, "", ""},
		{"day-first date", map[string]string{"dob": "15-01-2024"}, false, "dob", "Date of Birth must be a valid date in YYYY-MM-DD format"},
		{"enum case-insensitive", map[string]string{"gender": "Female"}, true, "", ""},
		{"enum outside values", map[string]string{"gender": "f"}, false, "gender", "Gender must be one of: male, female, other"},
		{"optional empty fields allowed", map[string]string{"dob": "", "gender": "", "section": ""}, true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr := NewRowValidator(StudentSchema()).Validate(studentRow(1, tt.cells))
			if vr.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", vr.Valid, tt.wantValid, vr.Errors)
			}
			if tt.wantValid {
				if len(vr.Errors) != 0 {
					t.Errorf("valid row has errors: %v", vr.Errors)
				}
				return
			}
			if len(vr.Errors) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(vr.Errors), vr.Errors)
			}
			if vr.Errors[0].Field != tt.wantField || vr.Errors[0].Message != tt.wantMsg {
				t.Errorf("error = %+v, want {%s %s}", vr.Errors[0], tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestRowValidator_ReportsEveryError(t *testing.T) {
	vr := NewRowValidator(StudentSchema()).Validate(studentRow(3, map[string]string{
		"name":   "",
		"dob":    "12/05/2015",
		"gender": "unknown",
		"mobile": "12345",
	}))

	if vr.Valid {
		t.Fatal("row should be invalid")
	}
	got := vr.Messages()
	want := []string{
		"Student Name is required",
		"Date of Birth must be a valid date in YYYY-MM-DD format",
		"Gender must be one of: male, female, other",
		"Mobile Number must be exactly 10 digits",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("messages = %q, want %q (schema order)", got, want)
	}
}

func TestRowValidator_TypedFields(t *testing.T) {
	vr := NewRowValidator(StudentSchema()).Validate(studentRow(1, map[string]string{
		"dob":    "2015-04-12",
		"gender": "MALE",
	}))
	if !vr.Valid {
		t.Fatalf("unexpected errors: %v", vr.Errors)
	}

	if dob, ok := vr.Fields["dob"].(time.Time); !ok || dob.Format(DateLayout) != "2015-04-12" {
		t.Errorf("dob typed value = %#v", vr.Fields["dob"])
	}
	if vr.Fields["gender"] != "male" {
		t.Errorf("gender = %#v, want canonical \"male\"", vr.Fields["gender"])
	}
	if _, ok := vr.Fields["section"]; ok {
		t.Error("empty optional field should not be typed")
	}
}

func TestRowValidator_FailedDateKeepsDisplayOnly(t *testing.T) {
	vr := NewRowValidator(StudentSchema()).Validate(studentRow(1, map[string]string{"dob": "15-01-2024"}))

	if _, ok := vr.Fields["dob"]; ok {
		t.Error("failed date must not appear in typed fields")
	}
	if vr.Display["dob"] != "15-01-2024" {
		t.Errorf("display dob = %q, want raw value kept", vr.Display["dob"])
	}
}

func TestRowValidator_Duplicates(t *testing.T) {
	v := NewRowValidator(StudentSchema())

	first := v.Validate(studentRow(1, nil))
	other := v.Validate(studentRow(2, map[string]string{"mobile": "9123456780"}))
	second := v.Validate(studentRow(3, map[string]string{"name": "  aarav   SHARMA "}))

	if !first.Valid {
		t.Errorf("first occurrence should be unaffected: %v", first.Errors)
	}
	if !other.Valid {
		t.Errorf("different mobile is not a duplicate: %v", other.Errors)
	}
	if second.Valid {
		t.Fatal("second occurrence should be flagged")
	}
	if msg := second.Errors[0].Message; !strings.Contains(msg, "Duplicate") || !strings.Contains(msg, "row 1") {
		t.Errorf("duplicate message = %q", msg)
	}
}

func TestRowValidator_DuplicateSetIsPerValidator(t *testing.T) {
	if vr := NewRowValidator(StudentSchema()).Validate(studentRow(1, nil)); !vr.Valid {
		t.Fatal(vr.Errors)
	}
	if vr := NewRowValidator(StudentSchema()).Validate(studentRow(1, nil)); !vr.Valid {
		t.Error("a new validator must start with an empty duplicate set")
	}
}

func TestRowValidator_Employee(t *testing.T) {
	v := NewRowValidator(EmployeeSchema())
	vr := v.Validate(RawRow{Number: 1, Cells: map[string]string{
		"name":         "Priya Verma",
		"designation":  "",
		"mobile":       "9123456780",
		"joining_date": "2020/06/01",
	}})

	got := vr.Messages()
	want := []string{"Designation is required", "Joining Date must be a valid date in YYYY-MM-DD format"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("messages = %q, want %q", got, want)
	}
}
