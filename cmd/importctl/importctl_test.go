package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/app"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/config"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

const roster = "name,class_name,mobile\nAarav Sharma,5,9876543210\nDiya Patel,6,98765\n"

// memoryApp opens an App whose rows go to an in-memory creator.
func memoryApp(created *[]core.CreateRequest) func(context.Context, *config.Config, bool) (*app.App, error) {
	return func(_ context.Context, cfg *config.Config, _ bool) (*app.App, error) {
		creator := core.CreatorFunc(func(_ context.Context, req core.CreateRequest) (string, error) {
			*created = append(*created, req)
			return "id", nil
		})
		return &app.App{Service: core.NewService(nil, creator, nil, app.ServiceOptions(cfg.Import))}, nil
	}
}

func run(t *testing.T, opts *rootOptions, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	if opts.open == nil {
		opts.open = app.Open
	}
	cmd := newRootCmdWith(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTemplateCmd(t *testing.T) {
	out, err := run(t, &rootOptions{}, "template", "student")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, strings.Join(core.StudentSchema().Headers(), ",")), out)

	path := filepath.Join(t.TempDir(), "employees.csv")
	_, err = run(t, &rootOptions{}, "template", "employee", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "designation")

	_, err = run(t, &rootOptions{}, "template", "alumni")
	assert.ErrorContains(t, err, "IMP001")
}

func TestPreviewCmd(t *testing.T) {
	out, err := run(t, &rootOptions{}, "preview", "student", writeFile(t, "roster.csv", roster), "--school", "sch-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_rows": 2`)
	assert.Contains(t, out, `"invalid_rows": 1`)
}

func TestExecuteCmd_RequiresSchool(t *testing.T) {
	_, err := run(t, &rootOptions{}, "execute", "student", writeFile(t, "roster.csv", roster))
	assert.ErrorContains(t, err, "school")
}

func TestExecuteCmd_RequiresDatabase(t *testing.T) {
	_, err := run(t, &rootOptions{}, "execute", "student", writeFile(t, "roster.csv", roster), "--school", "s")
	assert.ErrorIs(t, err, app.ErrNoDatabase)
}

func TestExecuteCmd_RejectedWritesReport(t *testing.T) {
	var created []core.CreateRequest
	report := filepath.Join(t.TempDir(), "errors.csv")

	out, err := run(t, &rootOptions{open: memoryApp(&created)},
		"execute", "student", writeFile(t, "roster.csv", roster), "--school", "sch-1", "--report", report)
	assert.ErrorContains(t, err, "rejected")
	assert.Contains(t, out, `"status": "rejected"`)
	assert.Empty(t, created)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var rows []reportRow
	require.NoError(t, csvutil.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Row)
	assert.Contains(t, rows[0].Error, "10 digits")
}

func TestExecuteCmd_SkipInvalid(t *testing.T) {
	var created []core.CreateRequest
	out, err := run(t, &rootOptions{open: memoryApp(&created)},
		"execute", "student", writeFile(t, "roster.csv", roster), "--school", "sch-1", "--skip-invalid")
	require.NoError(t, err)
	assert.Contains(t, out, `"success_count": 1`)
	require.Len(t, created, 1)
	assert.Equal(t, "sch-1", created[0].SchoolID)
}

func TestReportRows(t *testing.T) {
	rows := reportRows([]core.RowOutcome{
		{Row: 3, Errors: []string{"Mobile Number is required", "Class is required"}},
		{Row: 7, Error: "A Student with this name and mobile already exists"},
	})
	assert.Equal(t, []reportRow{
		{Row: 3, Error: "Mobile Number is required; Class is required"},
		{Row: 7, Error: "A Student with this name and mobile already exists"},
	}, rows)
}
