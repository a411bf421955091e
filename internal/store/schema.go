package store

// ddl creates the entity and audit tables. Every statement is idempotent.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id           UUID PRIMARY KEY,
		school_id    VARCHAR(64)  NOT NULL,
		name         VARCHAR(200) NOT NULL,
		class_name   VARCHAR(50)  NOT NULL,
		mobile       CHAR(10)     NOT NULL,
		section      VARCHAR(20),
		dob          DATE,
		gender       VARCHAR(10),
		father_name  VARCHAR(200),
		mother_name  VARCHAR(200),
		admission_no VARCHAR(50),
		address      TEXT,
		created_at   TIMESTAMPTZ  NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS students_school_name_mobile
		ON students (school_id, lower(name), mobile)`,

	`CREATE TABLE IF NOT EXISTS employees (
		id            UUID PRIMARY KEY,
		school_id     VARCHAR(64)  NOT NULL,
		name          VARCHAR(200) NOT NULL,
		designation   VARCHAR(100) NOT NULL,
		mobile        CHAR(10)     NOT NULL,
		email         VARCHAR(254),
		gender        VARCHAR(10),
		dob           DATE,
		joining_date  DATE,
		qualification VARCHAR(200),
		address       TEXT,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS employees_school_name_mobile
		ON employees (school_id, lower(name), mobile)`,

	`CREATE TABLE IF NOT EXISTS import_runs (
		id            UUID PRIMARY KEY,
		import_type   VARCHAR(20)  NOT NULL,
		school_id     VARCHAR(64)  NOT NULL,
		file_name     VARCHAR(255) NOT NULL,
		checksum      VARCHAR(16)  NOT NULL,
		status        VARCHAR(20)  NOT NULL CHECK (status IN ('completed', 'rejected', 'aborted')),
		total_rows    INTEGER      NOT NULL,
		success_count INTEGER      NOT NULL,
		error_count   INTEGER      NOT NULL,
		system_error  TEXT,
		ip_address    VARCHAR(45),
		user_agent    TEXT,
		started_at    TIMESTAMPTZ  NOT NULL,
		duration_ms   BIGINT       NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS import_runs_school_started
		ON import_runs (school_id, started_at DESC)`,
}

// tables maps an import type to its entity table.
var tables = map[string]string{
	"student":  "students",
	"employee": "employees",
}
