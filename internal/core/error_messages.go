package core

// error_messages.go maps internal errors to messages an administrator can act
// on, each with a short code support staff can search logs for.
//
//	FILE001  file too large              FILE004  no file in request
//	FILE002  unsupported file type       FILE005  empty file
//	FILE003  unreadable / invalid file   FILE006  missing header row
//	FILE007  too many rows
//	IMP001   unknown import type         IMP002   too many concurrent imports
//	IMP003   request cancelled           IMP004   request timed out
//	DB001    record already exists       DB002    invalid value for storage
//	DB003    database unavailable        DB004    database busy (deadlock)
//	ERR000   anything else
//
// Typed errors are matched first with errors.Is/As. Errors that only exist as
// text, typically from drivers, fall through to substring patterns.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoFile is returned when an upload request carries no file part.
var ErrNoFile = errors.New("no file provided")

// UserMessage is a user-facing description of an error.
type UserMessage struct {
	Message string `json:"error"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var (
	msgFileTooLarge  = UserMessage{"File exceeds the maximum upload size (10 MB)", "Split the file into smaller files and import them one by one", "FILE001"}
	msgUnsupported   = UserMessage{"Unsupported file type", "Upload a .csv, .xlsx or .xls file", "FILE002"}
	msgUnreadable    = UserMessage{"The file could not be read", "Re-save the file from Excel and upload it again", "FILE003"}
	msgNoFile        = UserMessage{"No file was selected", "Choose a spreadsheet to upload", "FILE004"}
	msgEmptyFile     = UserMessage{"The uploaded file is empty", "Add a header row and at least one data row", "FILE005"}
	msgMissingHeader = UserMessage{"The first row does not contain recognised column headers", "Download the template and keep its header row", "FILE006"}
	msgTooManyRows   = UserMessage{"The file has too many rows", "Split the file into smaller files", "FILE007"}
	msgUnknownType   = UserMessage{"Unknown import type", "Choose student or employee", "IMP001"}
	msgBusy          = UserMessage{"Too many imports are running", "Wait a moment and try again", "IMP002"}
	msgCancelled     = UserMessage{"The request was cancelled", "Try again", "IMP003"}
	msgTimeout       = UserMessage{"The request timed out", "Try again with a smaller file", "IMP004"}
	msgExists        = UserMessage{"A record with the same name and mobile already exists", "Remove the row or update the existing record", "DB001"}
	msgBadValue      = UserMessage{"A value could not be stored", "Check the row for unusually long or malformed values", "DB002"}
	msgUnavailable   = UserMessage{"The database is unavailable", "Try again in a few moments", "DB003"}
	msgDeadlock      = UserMessage{"The database was busy", "Try again", "DB004"}

	defaultMessage = UserMessage{"An unexpected error occurred", "Try again or contact support", "ERR000"}
)

var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrUnsupportedExtension, msgUnsupported},
	{ErrUnreadableFile, msgUnreadable},
	{ErrNoFile, msgNoFile},
	{ErrEmptyFile, msgEmptyFile},
	{ErrMissingHeader, msgMissingHeader},
	{ErrTooManyRows, msgTooManyRows},
	{ErrTooManyImports, msgBusy},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPatterns are checked in order against the lowercased error text.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"duplicate key", msgExists},
	{"unique constraint", msgExists},
	{"already exists", msgExists},
	{"value too long", msgBadValue},
	{"invalid input syntax", msgBadValue},
	{"connection refused", msgUnavailable},
	{"connection reset", msgUnavailable},
	{"closed pool", msgUnavailable},
	{"deadlock", msgDeadlock},
	{"timeout", msgTimeout},
}

// MapError converts err into a UserMessage. Nil yields the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ute *UnknownImportTypeError
	if errors.As(err, &ute) {
		return msgUnknownType
	}
	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	return err != nil && MapError(err).Code != defaultMessage.Code
}
