package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaOverlay adds header aliases to registered schemas. The YAML shape is:
//
//	student:
//	  aliases:
//	    class_name: ["Std", "Kaksha"]
//	employee:
//	  aliases:
//	    designation: ["Job Title"]
type SchemaOverlay map[ImportType]struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadSchemaOverlay reads an overlay file. An empty path yields an empty overlay.
func LoadSchemaOverlay(path string) (SchemaOverlay, error) {
	if path == "" {
		return SchemaOverlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema overlay: %w", err)
	}
	return ParseSchemaOverlay(data)
}

// ParseSchemaOverlay decodes overlay YAML, rejecting unknown keys.
func ParseSchemaOverlay(data []byte) (SchemaOverlay, error) {
	var o SchemaOverlay
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse schema overlay: %w", err)
	}
	if o == nil {
		o = SchemaOverlay{}
	}
	return o, nil
}

// Apply registers every alias in the overlay.
func (o SchemaOverlay) Apply(r *Registry) error {
	for t, entry := range o {
		for field, aliases := range entry.Aliases {
			if err := r.AddAliases(t, field, aliases...); err != nil {
				return fmt.Errorf("apply schema overlay: %w", err)
			}
		}
	}
	return nil
}
