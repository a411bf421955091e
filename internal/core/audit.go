package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImportRun is the audit record of one execute call.
type ImportRun struct {
	ID           uuid.UUID
	ImportType   ImportType
	SchoolID     string
	FileName     string
	Checksum     string
	Status       ExecStatus
	TotalRows    int
	SuccessCount int
	ErrorCount   int
	SystemError  string
	IPAddress    string
	UserAgent    string
	StartedAt    time.Time
	Duration     time.Duration
}

// RunRecorder stores ImportRuns.
type RunRecorder interface {
	RecordImportRun(ctx context.Context, run ImportRun) error
}

func newImportRun(ctx context.Context, req UploadRequest, schema Schema, started time.Time, res ExecutionResult) ImportRun {
	client := ClientInfoFrom(ctx)
	return ImportRun{
		ID:           uuid.New(),
		ImportType:   schema.Type,
		SchoolID:     req.SchoolID,
		FileName:     req.FileName,
		Checksum:     Fingerprint(req.Data),
		Status:       res.Status,
		TotalRows:    res.TotalRows,
		SuccessCount: res.SuccessCount,
		ErrorCount:   res.ErrorCount,
		SystemError:  res.SystemError,
		IPAddress:    client.IPAddress,
		UserAgent:    client.UserAgent,
		StartedAt:    started,
		Duration:     time.Since(started),
	}
}
