// Package store persists imported entities and import runs in Postgres.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	_ core.EntityCreator = (*Store)(nil)
	_ core.RunRecorder   = (*Store)(nil)
)

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return pool, nil
}

// insert is a prepared INSERT for one import type. Column order follows the
// schema field order.
type insert struct {
	sql    string
	fields []core.FieldSchema
	label  string
}

// Store writes one row per Create call. There is no cross-row transaction.
type Store struct {
	db      DB
	inserts map[core.ImportType]insert
}

// New builds a Store for every schema in registry. A nil registry uses the
// built-in student and employee schemas.
func New(db DB, registry *core.Registry) (*Store, error) {
	if registry == nil {
		registry = core.DefaultRegistry()
	}
	s := &Store{db: db, inserts: make(map[core.ImportType]insert)}
	for _, t := range registry.Types() {
		schema, err := registry.Resolve(string(t))
		if err != nil {
			return nil, err
		}
		table, ok := tables[string(t)]
		if !ok {
			return nil, fmt.Errorf("no table for import type %q", t)
		}
		s.inserts[t] = buildInsert(table, schema)
	}
	return s, nil
}

func buildInsert(table string, schema core.Schema) insert {
	cols := []string{"id", "school_id"}
	marks := []string{"$1", "$2"}
	for i, f := range schema.Fields {
		cols = append(cols, f.Name)
		marks = append(marks, fmt.Sprintf("$%d", i+3))
	}
	return insert{
		sql: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(cols, ", "), strings.Join(marks, ", ")),
		fields: schema.Fields,
		label:  schema.Label,
	}
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range ddl {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
	}
	return nil
}

// Create inserts one validated row and returns the new entity id.
func (s *Store) Create(ctx context.Context, req core.CreateRequest) (string, error) {
	ins, ok := s.inserts[req.ImportType]
	if !ok {
		return "", core.NewSystemError(fmt.Errorf("no table for import type %q", req.ImportType))
	}

	id := uuid.New()
	args := make([]any, 0, len(ins.fields)+2)
	args = append(args, id, req.SchoolID)
	for _, f := range ins.fields {
		args = append(args, toPg(f.Kind, req.Fields[f.Name]))
	}

	if _, err := s.db.Exec(ctx, ins.sql, args...); err != nil {
		return "", classify(ins.label, err)
	}
	return id.String(), nil
}

const insertRun = `INSERT INTO import_runs (
	id, import_type, school_id, file_name, checksum, status,
	total_rows, success_count, error_count, system_error,
	ip_address, user_agent, started_at, duration_ms
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// RecordImportRun stores the audit record of an execute call.
func (s *Store) RecordImportRun(ctx context.Context, run core.ImportRun) error {
	_, err := s.db.Exec(ctx, insertRun,
		run.ID,
		string(run.ImportType),
		run.SchoolID,
		run.FileName,
		run.Checksum,
		string(run.Status),
		run.TotalRows,
		run.SuccessCount,
		run.ErrorCount,
		ToPgText(run.SystemError),
		ToPgText(run.IPAddress),
		ToPgText(run.UserAgent),
		run.StartedAt,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record import run %s: %w", run.ID, err)
	}
	return nil
}

func toPg(kind core.Kind, v any) any {
	switch kind {
	case core.KindDate:
		t, _ := v.(time.Time)
		return ToPgDate(t)
	default:
		str, _ := v.(string)
		return ToPgText(str)
	}
}

// ToPgText maps "" to NULL.
func ToPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate maps the zero time to NULL.
func ToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}
