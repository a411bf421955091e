package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	calls []execCall
	err   error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func newStore(t *testing.T, db DB) *Store {
	t.Helper()
	s, err := New(db, nil)
	require.NoError(t, err)
	return s
}

func TestCreate_Student(t *testing.T) {
	db := &fakeDB{}
	s := newStore(t, db)
	dob := time.Date(2015, 4, 12, 0, 0, 0, 0, time.UTC)

	id, err := s.Create(context.Background(), core.CreateRequest{
		ImportType: core.ImportStudent,
		SchoolID:   "sch-1",
		RowNumber:  2,
		Fields: map[string]any{
			"name":       "Aarav Sharma",
			"class_name": "5",
			"mobile":     "9876543210",
			"dob":        dob,
		},
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	require.Len(t, db.calls, 1)
	call := db.calls[0]
	assert.True(t, strings.HasPrefix(call.sql, "INSERT INTO students (id, school_id, name, class_name, mobile"), call.sql)
	assert.Len(t, call.args, 2+len(core.StudentSchema().Fields))
	assert.Equal(t, "sch-1", call.args[1])
	assert.Equal(t, pgtype.Text{String: "Aarav Sharma", Valid: true}, call.args[2])

	for i, f := range core.StudentSchema().Fields {
		arg := call.args[i+2]
		switch f.Name {
		case "dob":
			assert.Equal(t, pgtype.Date{Time: dob, Valid: true}, arg)
		case "section", "address":
			assert.Equal(t, pgtype.Text{}, arg, "%s should be NULL", f.Name)
		}
	}
}

func TestCreate_EmployeeTable(t *testing.T) {
	db := &fakeDB{}
	s := newStore(t, db)

	_, err := s.Create(context.Background(), core.CreateRequest{
		ImportType: core.ImportEmployee,
		SchoolID:   "sch-1",
		Fields:     map[string]any{"name": "Priya Verma", "designation": "Teacher", "mobile": "9123456780"},
	})
	require.NoError(t, err)
	assert.Contains(t, db.calls[0].sql, "INSERT INTO employees")
}

func TestCreate_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		system     bool
		wantInText string
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "students_school_name_mobile"}, false, "already exists"},
		{"not null", &pgconn.PgError{Code: "23502"}, false, "constraint"},
		{"value too long", &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(50)"}, false, "value too long"},
		{"undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "students" does not exist`}, true, ""},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true, ""},
		{"connection", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, &fakeDB{err: tt.err})
			_, err := s.Create(context.Background(), core.CreateRequest{
				ImportType: core.ImportStudent,
				Fields:     map[string]any{"name": "A", "class_name": "1", "mobile": "9876543210"},
			})
			require.Error(t, err)
			assert.Equal(t, tt.system, core.IsSystemError(err))
			assert.ErrorIs(t, err, tt.err)

			if !tt.system {
				var pe *core.PersistenceError
				require.ErrorAs(t, err, &pe)
				assert.Contains(t, pe.Message, tt.wantInText)
			}
		})
	}
}

func TestCreate_UnknownTypeIsSystemError(t *testing.T) {
	s := newStore(t, &fakeDB{})
	_, err := s.Create(context.Background(), core.CreateRequest{ImportType: "alumni"})
	assert.True(t, core.IsSystemError(err))
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, newStore(t, db).EnsureSchema(context.Background()))
	assert.Len(t, db.calls, len(ddl))
	for _, c := range db.calls {
		assert.Contains(t, c.sql, "IF NOT EXISTS")
	}

	failing := &fakeDB{err: errors.New("permission denied")}
	err := newStore(t, failing).EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
	assert.Len(t, failing.calls, 1, "stops at the first failure")
}

func TestRecordImportRun(t *testing.T) {
	db := &fakeDB{}
	run := core.ImportRun{
		ID:           uuid.New(),
		ImportType:   core.ImportStudent,
		SchoolID:     "sch-1",
		FileName:     "roster.xlsx",
		Checksum:     "00ff00ff00ff00ff",
		Status:       core.StatusCompleted,
		TotalRows:    3,
		SuccessCount: 3,
		StartedAt:    time.Now(),
		Duration:     1500 * time.Millisecond,
	}
	require.NoError(t, newStore(t, db).RecordImportRun(context.Background(), run))

	args := db.calls[0].args
	require.Len(t, args, 14)
	assert.Equal(t, run.ID, args[0])
	assert.Equal(t, "student", args[1])
	assert.Equal(t, "completed", args[5])
	assert.Equal(t, pgtype.Text{}, args[9], "empty system error is NULL")
	assert.Equal(t, int64(1500), args[13])
}

func TestToPgHelpers(t *testing.T) {
	assert.False(t, ToPgText("").Valid)
	assert.Equal(t, "x", ToPgText("x").String)
	assert.False(t, ToPgDate(time.Time{}).Valid)
	assert.True(t, ToPgDate(time.Now()).Valid)
}
