package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"file too large", &ParseError{Kind: ErrFileTooLarge, Detail: "11 MB"}, "FILE001"},
		{"unsupported extension", parseErrorf(ErrUnsupportedExtension, "%q", ".pdf"), "FILE002"},
		{"unreadable", &ParseError{Kind: ErrUnreadableFile}, "FILE003"},
		{"no file", fmt.Errorf("read form: %w", ErrNoFile), "FILE004"},
		{"empty file", &ParseError{Kind: ErrEmptyFile}, "FILE005"},
		{"missing header", &ParseError{Kind: ErrMissingHeader}, "FILE006"},
		{"too many rows", &ParseError{Kind: ErrTooManyRows}, "FILE007"},
		{"unknown import type", &UnknownImportTypeError{Type: "parent"}, "IMP001"},
		{"limiter busy", ErrTooManyImports, "IMP002"},
		{"cancelled", fmt.Errorf("acquire: %w", context.Canceled), "IMP003"},
		{"deadline", context.DeadlineExceeded, "IMP004"},
		{"duplicate key text", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"case insensitive", errors.New("DUPLICATE KEY"), "DB001"},
		{"value too long", errors.New("value too long for type character varying(200)"), "DB002"},
		{"system error unwraps", NewSystemError(errors.New("dial tcp: connection refused")), "DB003"},
		{"deadlock", errors.New("deadlock detected"), "DB004"},
		{"unknown", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(&ParseError{Kind: ErrUnsupportedExtension})
	want := "Unsupported file type (Code: FILE002). Upload a .csv, .xlsx or .xls file"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"parse error is user facing", &ParseError{Kind: ErrEmptyFile}, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	pe := NewPersistenceError("already exists", errors.New("duplicate key"))
	if pe.Error() != "already exists: duplicate key" {
		t.Errorf("PersistenceError.Error() = %q", pe.Error())
	}
	if IsSystemError(pe) {
		t.Error("persistence error is not a system error")
	}

	wrapped := fmt.Errorf("insert student: %w", NewSystemError(errors.New("pool closed")))
	if !IsSystemError(wrapped) {
		t.Error("wrapped system error should be detected")
	}
	if NewSystemError(nil) != nil {
		t.Error("NewSystemError(nil) should be nil")
	}
}
