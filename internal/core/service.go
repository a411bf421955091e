package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/logging"
)

// UploadRequest is an uploaded spreadsheet plus its routing parameters.
type UploadRequest struct {
	ImportType  string
	SchoolID    string
	FileName    string
	Extension   string // defaults to the FileName extension
	Data        []byte
	SkipInvalid bool // execute only
}

func (r UploadRequest) extension() string {
	if r.Extension != "" {
		return r.Extension
	}
	return ExtensionOf(r.FileName)
}

// Options configures a Service. Zero values use package defaults.
type Options struct {
	MaxFileSize   int64
	MaxRows       int
	PreviewRows   int
	MaxErrors     int
	MaxConcurrent int
	QueueTimeout  time.Duration
}

// Service runs the template, preview and execute operations.
type Service struct {
	registry *Registry
	ingestor *Ingestor
	preview  *PreviewAssembler
	limiter  *ImportLimiter
	creator  EntityCreator
	recorder RunRecorder
}

// NewService wires a Service. creator may be nil for read-only use (template
// and preview); recorder may be nil to skip import run records.
func NewService(registry *Registry, creator EntityCreator, recorder RunRecorder, opts Options) *Service {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Service{
		registry: registry,
		ingestor: NewIngestor(opts.MaxFileSize, opts.MaxRows),
		preview:  NewPreviewAssembler(opts.PreviewRows, opts.MaxErrors),
		limiter:  NewImportLimiter(opts.MaxConcurrent, opts.QueueTimeout),
		creator:  creator,
		recorder: recorder,
	}
}

// ErrReadOnly is returned by Execute on a Service built without a creator.
var ErrReadOnly = errors.New("import service has no entity store configured")

// ImportTypes lists the supported import types.
func (s *Service) ImportTypes() []ImportType {
	return s.registry.Types()
}

// MaxFileSize is the upload ceiling enforced by the ingestor.
func (s *Service) MaxFileSize() int64 {
	return s.ingestor.MaxFileSize()
}

// Limiter exposes the concurrency limiter for health reporting and drain.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// Template returns the import template for importType.
func (s *Service) Template(importType string) (ImportTemplate, error) {
	schema, err := s.registry.Resolve(importType)
	if err != nil {
		return ImportTemplate{}, err
	}
	return GenerateTemplate(schema)
}

// Preview validates an upload without persisting anything.
func (s *Service) Preview(ctx context.Context, req UploadRequest) (PreviewResult, error) {
	schema, err := s.registry.Resolve(req.ImportType)
	if err != nil {
		return PreviewResult{}, err
	}
	log := logging.ForImport(ctx, string(schema.Type), req.SchoolID,
		"file", req.FileName, "checksum", Fingerprint(req.Data))

	if err := s.limiter.Acquire(ctx); err != nil {
		return PreviewResult{}, err
	}
	defer s.limiter.Release()

	start := time.Now()
	rows, err := s.ingestor.Open(req.Data, req.extension(), schema)
	if err != nil {
		log.Warn("preview rejected", "error", err)
		return PreviewResult{}, err
	}
	defer rows.Close()

	res, err := s.preview.Assemble(rows, schema)
	if err != nil {
		log.Warn("preview rejected", "error", err)
		return PreviewResult{}, err
	}

	log.Info("preview complete",
		"total_rows", res.TotalRows,
		"valid_rows", res.ValidRows,
		"invalid_rows", res.InvalidRows,
		"duration", time.Since(start))
	return res, nil
}

// Execute validates an upload and creates its rows.
func (s *Service) Execute(ctx context.Context, req UploadRequest) (ExecutionResult, error) {
	if s.creator == nil {
		return ExecutionResult{}, ErrReadOnly
	}
	schema, err := s.registry.Resolve(req.ImportType)
	if err != nil {
		return ExecutionResult{}, err
	}
	log := logging.ForImport(ctx, string(schema.Type), req.SchoolID,
		"file", req.FileName, "checksum", Fingerprint(req.Data), "skip_invalid", req.SkipInvalid)

	if err := s.limiter.Acquire(ctx); err != nil {
		return ExecutionResult{}, err
	}
	defer s.limiter.Release()

	start := time.Now()
	rows, err := s.ingestor.Open(req.Data, req.extension(), schema)
	if err != nil {
		log.Warn("execute rejected", "error", err)
		return ExecutionResult{}, err
	}
	defer rows.Close()

	res, err := NewCommitExecutor(s.creator).Execute(ctx, rows, schema, ExecuteOptions{
		SchoolID:    req.SchoolID,
		SkipInvalid: req.SkipInvalid,
	})
	if err != nil {
		log.Warn("execute rejected", "error", err)
		return ExecutionResult{}, err
	}

	level := slog.LevelInfo
	if res.Status == StatusAborted {
		level = slog.LevelError
	}
	log.Log(ctx, level, "execute finished",
		"status", res.Status,
		"total_rows", res.TotalRows,
		"success_count", res.SuccessCount,
		"error_count", res.ErrorCount,
		"unprocessed_rows", res.UnprocessedRows,
		"system_error", res.SystemError,
		"duration", time.Since(start))

	s.record(ctx, log, newImportRun(ctx, req, schema, start, res))
	return res, nil
}

func (s *Service) record(ctx context.Context, log *slog.Logger, run ImportRun) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordImportRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("failed to record import run", "run_id", run.ID, "error", err)
	}
}
