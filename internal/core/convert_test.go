package core

import (
	"testing"
	"time"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Asha  ", "Asha"},
		{`="0987654321"`, "0987654321"},
		{"'9876543210", "9876543210"},
		{"father's name", "father's name"},
		{"", ""},
		{`="`, `="`},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoerceMobile(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"0123456789", true},
		{"98765432", false},
		{"98765432101", false},
		{"98765-4321", false},
		{"987654321a", false},
		{"९८७६५४३२१०", false}, // non-ASCII digits
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CoerceMobile(tt.in)
			if ok != tt.want {
				t.Fatalf("CoerceMobile(%q) ok = %v, want %v", tt.in, ok, tt.want)
			}
			if ok && got != tt.in {
				t.Errorf("CoerceMobile(%q) = %q", tt.in, got)
			}
		})
	}
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-01-15", true},
		{"2024-02-29", true},
		{"15-01-2024", false},
		{"2024/01/15", false},
		{"2024-1-5", false},
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"yesterday", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CoerceDate(tt.in)
			if ok != tt.want {
				t.Fatalf("CoerceDate(%q) ok = %v, want %v", tt.in, ok, tt.want)
			}
			if ok && got.Format(DateLayout) != tt.in {
				t.Errorf("CoerceDate(%q) = %v", tt.in, got)
			}
		})
	}
}

func TestCoerceEnum(t *testing.T) {
	values := []string{"male", "female", "other"}

	if got, ok := CoerceEnum("FEMALE", values); !ok || got != "female" {
		t.Errorf("CoerceEnum(FEMALE) = %q, %v; want female, true", got, ok)
	}
	if _, ok := CoerceEnum("f", values); ok {
		t.Error("CoerceEnum(f) should not match")
	}
}

func TestNormalizeSheetDate(t *testing.T) {
	tests := []struct {
		in      string
		numeric bool
		want    string
	}{
		{"45292", true, "2024-01-01"},
		{"45306", true, "2024-01-15"},
		{"45306.5", true, "2024-01-15"},
		{"2024-01-15T00:00:00Z", false, "2024-01-15"},
		{"2024-01-15", false, "2024-01-15"},
		{"15-01-2024", false, "15-01-2024"},
		{"0", true, "0"},
		{"", true, ""},
		// Numeric-looking text is left for the validator.
		{"2024", false, "2024"},
		{"15", false, "15"},
		{"45306", false, "45306"},
	}
	for _, tt := range tests {
		if got := normalizeSheetDate(tt.in, tt.numeric); got != tt.want {
			t.Errorf("normalizeSheetDate(%q, %v) = %q, want %q", tt.in, tt.numeric, got, tt.want)
		}
	}
}

func TestCoerceDate_ReturnsUTCMidnight(t *testing.T) {
	got, ok := CoerceDate("2015-04-12")
	if !ok {
		t.Fatal("expected valid date")
	}
	want := time.Date(2015, 4, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CoerceDate = %v, want %v", got, want)
	}
}
