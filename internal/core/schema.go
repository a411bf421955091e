package core

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// ImportType selects the schema that governs an upload.
type ImportType string

const (
	ImportStudent  ImportType = "student"
	ImportEmployee ImportType = "employee"
)

// Kind is the validation rule attached to a field.
type Kind int

const (
	KindString Kind = iota
	KindMobile10
	KindDate
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindMobile10:
		return "mobile10"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	default:
		return "string"
	}
}

// FieldSchema describes one importable column.
type FieldSchema struct {
	Name       string   // canonical field name, also the template header
	Label      string   // used in error messages
	Required   bool
	Kind       Kind
	EnumValues []string // KindEnum only; matched case-insensitively
	Aliases    []string // extra accepted headers
	Sample     string   // template example value
}

// accepts reports whether an uploaded header names this field.
func (f FieldSchema) accepts(header string) bool {
	h := normalizeHeader(header)
	if h == normalizeHeader(f.Name) || h == normalizeHeader(f.Label) {
		return true
	}
	for _, a := range f.Aliases {
		if h == normalizeHeader(a) {
			return true
		}
	}
	return false
}

// Schema is the full field set for one import type.
type Schema struct {
	Type    ImportType
	Label   string // "Student", "Employee"
	Fields  []FieldSchema
	Summary []string // fields rendered in the preview table
}

// Field returns the named field.
func (s Schema) Field(name string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// Headers returns canonical field names in template order.
func (s Schema) Headers() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// MapHeaders resolves each uploaded column to a field name, or "" when the
// column is not part of the schema. If two columns resolve to the same field
// the leftmost wins. matched counts the distinct fields found.
func (s Schema) MapHeaders(headers []string) (columns []string, matched int) {
	columns = make([]string, len(headers))
	seen := make(map[string]bool, len(s.Fields))
	for i, h := range headers {
		for _, f := range s.Fields {
			if !seen[f.Name] && f.accepts(h) {
				columns[i] = f.Name
				seen[f.Name] = true
				matched++
				break
			}
		}
	}
	return columns, matched
}

// normalizeHeader lowercases, trims and collapses inner whitespace so
// "  Student   Name " matches "student name".
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(CleanCell(h))), " ")
}

// Registry resolves import types to schemas. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[ImportType]Schema
}

// NewRegistry creates a registry holding the given schemas.
func NewRegistry(schemas ...Schema) *Registry {
	r := &Registry{schemas: make(map[ImportType]Schema, len(schemas))}
	for _, s := range schemas {
		r.Register(s)
	}
	return r
}

// DefaultRegistry returns a registry with the built-in student and employee
// schemas.
func DefaultRegistry() *Registry {
	return NewRegistry(StudentSchema(), EmployeeSchema())
}

// Register adds a schema. Panics if the type is already registered.
func (r *Registry) Register(s Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.Type]; exists {
		panic(fmt.Sprintf("import type already registered: %s", s.Type))
	}
	r.schemas[s.Type] = cloneSchema(s)
}

// Resolve returns the schema for importType, matched case-insensitively.
func (r *Registry) Resolve(importType string) (Schema, error) {
	key := ImportType(strings.ToLower(strings.TrimSpace(importType)))

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[key]
	if !ok {
		return Schema{}, &UnknownImportTypeError{Type: importType}
	}
	return cloneSchema(s), nil
}

// Types lists registered import types in sorted order.
func (r *Registry) Types() []ImportType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ImportType, 0, len(r.schemas))
	for t := range r.schemas {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddAliases registers extra accepted headers for a field.
func (r *Registry) AddAliases(t ImportType, field string, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schemas[t]
	if !ok {
		return &UnknownImportTypeError{Type: string(t)}
	}
	for i := range s.Fields {
		if s.Fields[i].Name != field {
			continue
		}
		for _, a := range aliases {
			a = strings.TrimSpace(a)
			if a != "" && !slices.Contains(s.Fields[i].Aliases, a) {
				s.Fields[i].Aliases = append(s.Fields[i].Aliases, a)
			}
		}
		r.schemas[t] = s
		return nil
	}
	return fmt.Errorf("%s schema has no field %q", t, field)
}

func cloneSchema(s Schema) Schema {
	out := s
	out.Fields = make([]FieldSchema, len(s.Fields))
	for i, f := range s.Fields {
		f.Aliases = slices.Clone(f.Aliases)
		f.EnumValues = slices.Clone(f.EnumValues)
		out.Fields[i] = f
	}
	out.Summary = slices.Clone(s.Summary)
	return out
}
