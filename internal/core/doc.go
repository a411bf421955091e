// Package core implements the student and employee spreadsheet import
// pipeline. It has no HTTP or database dependencies; persistence happens
// through the EntityCreator a host supplies.
//
// # Pipeline
//
//	upload bytes
//	    │
//	    ▼
//	Ingestor.Open ── ParseError (extension, size, empty, header, row cap)
//	    │  RowReader.Next, one RawRow at a time
//	    ▼
//	RowValidator.Validate ── required, kind format, (name, mobile) duplicates
//	    │
//	    ├──▶ PreviewAssembler.Assemble   counts, first 10 rows, first 100 errors
//	    │
//	    └──▶ CommitExecutor.Execute      all-or-nothing or skip_invalid,
//	                                     EntityCreator.Create per row
//
// # Schemas
//
// A Registry maps an ImportType ("student", "employee") to a Schema: the
// ordered FieldSchemas with label, required flag, Kind and header aliases.
// GenerateTemplate derives the downloadable header row and a sample row that
// always validates.
//
// # Errors
//
// ParseError rejects a file outright. FieldError is attached to a row.
// PersistenceError is a row-level store failure. SystemError stops an execute
// part way; the ExecutionResult then reports what completed and what did not.
// MapError turns any of them into a coded UserMessage.
//
// # Statelessness
//
// Nothing is kept between calls. Execute re-parses and re-validates the file
// it is given, so the verdict for a row is the same in preview and execute.
package core
