package core

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// CreateRequest is one validated row handed to the entity store.
type CreateRequest struct {
	ImportType ImportType
	SchoolID   string
	RowNumber  int
	Fields     map[string]any
}

// EntityCreator persists one entity. Returning a *SystemError (see
// NewSystemError) aborts the remaining rows; any other error is reported
// against the row and the import continues.
//
// Implementations must be safe for concurrent use and must surface
// uniqueness conflicts as errors rather than creating a second entity.
type EntityCreator interface {
	Create(ctx context.Context, req CreateRequest) (id string, err error)
}

// CreatorFunc adapts a function to EntityCreator.
type CreatorFunc func(ctx context.Context, req CreateRequest) (string, error)

func (f CreatorFunc) Create(ctx context.Context, req CreateRequest) (string, error) {
	return f(ctx, req)
}

// ExecStatus summarizes how an execute call ended.
type ExecStatus string

const (
	StatusCompleted ExecStatus = "completed" // every row was attempted
	StatusRejected  ExecStatus = "rejected"  // invalid rows and skip_invalid=false; nothing created
	StatusAborted   ExecStatus = "aborted"   // a system error stopped the run part way
)

// RowOutcome is a failed row. Validation failures use Errors; persistence
// and system failures use Error.
type RowOutcome struct {
	Row    int      `json:"row"`
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// ExecutionResult is the single record of what an execute call did.
type ExecutionResult struct {
	Status       ExecStatus   `json:"status"`
	TotalRows    int          `json:"total_rows"`
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
	Errors       []RowOutcome `json:"errors"`

	// Set only when Status is aborted. Rows before ProcessedRows were
	// attempted; the row that hit the system error is the last entry in
	// Errors and its outcome in the store is unknown.
	Aborted         bool   `json:"aborted,omitempty"`
	SystemError     string `json:"system_error,omitempty"`
	ProcessedRows   int    `json:"processed_rows,omitempty"`
	UnprocessedRows int    `json:"unprocessed_rows,omitempty"`

	CreatedIDs []string `json:"-"`
}

// ExecuteOptions carries per-call parameters.
type ExecuteOptions struct {
	SchoolID    string
	SkipInvalid bool
}

// CommitExecutor validates a file and creates its rows one by one.
type CommitExecutor struct {
	creator EntityCreator
}

// NewCommitExecutor returns an executor writing through creator.
func NewCommitExecutor(creator EntityCreator) *CommitExecutor {
	return &CommitExecutor{creator: creator}
}

// Execute re-validates every row, then creates valid rows in file order.
//
// A ParseError from rows is returned before anything is created. After
// validation the run is detached from ctx cancellation: once the first row is
// written the remaining rows are always attempted.
func (e *CommitExecutor) Execute(ctx context.Context, rows RowIterator, schema Schema, opts ExecuteOptions) (ExecutionResult, error) {
	validated, invalid, err := validateAll(rows, schema)
	if err != nil {
		return ExecutionResult{}, err
	}

	res := ExecutionResult{
		Status:    StatusCompleted,
		TotalRows: len(validated),
		Errors:    make([]RowOutcome, 0),
	}

	if invalid > 0 && !opts.SkipInvalid {
		res.Status = StatusRejected
		for _, vr := range validated {
			if !vr.Valid {
				res.Errors = append(res.Errors, RowOutcome{Row: vr.Number, Errors: vr.Messages()})
			}
		}
		res.ErrorCount = len(res.Errors)
		return res, nil
	}

	ctx = context.WithoutCancel(ctx)
	for i, vr := range validated {
		if !vr.Valid {
			res.Errors = append(res.Errors, RowOutcome{Row: vr.Number, Errors: vr.Messages()})
			continue
		}

		id, err := e.creator.Create(ctx, CreateRequest{
			ImportType: schema.Type,
			SchoolID:   opts.SchoolID,
			RowNumber:  vr.Number,
			Fields:     vr.Fields,
		})
		if err == nil {
			res.SuccessCount++
			res.CreatedIDs = append(res.CreatedIDs, id)
			continue
		}

		if IsSystemError(err) {
			res.Status = StatusAborted
			res.Aborted = true
			res.SystemError = err.Error()
			res.Errors = append(res.Errors, RowOutcome{
				Row:   vr.Number,
				Error: fmt.Sprintf("Import stopped at this row: %s. Rows from here on were not imported.", FormatUserError(err)),
			})
			res.ProcessedRows = i
			res.UnprocessedRows = len(validated) - i
			break
		}

		res.Errors = append(res.Errors, RowOutcome{Row: vr.Number, Error: persistenceMessage(err)})
	}

	res.ErrorCount = len(res.Errors)
	return res, nil
}

func validateAll(rows RowIterator, schema Schema) ([]ValidatedRow, int, error) {
	validator := NewRowValidator(schema)
	var out []ValidatedRow
	invalid := 0
	for {
		raw, err := rows.Next()
		if errors.Is(err, io.EOF) {
			return out, invalid, nil
		}
		if err != nil {
			return nil, 0, err
		}
		vr := validator.Validate(raw)
		if !vr.Valid {
			invalid++
		}
		out = append(out, vr)
	}
}

func persistenceMessage(err error) string {
	var pe *PersistenceError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return FormatUserError(err)
}
