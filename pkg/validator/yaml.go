package validator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping of field name to sub-schema, keeping the
// order in which the fields appear in the document.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: fields must be a mapping", ErrInvalidSchema, node.Line)
	}

	fields := make(Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var sch Schema
		if err := val.Decode(&sch); err != nil {
			return fmt.Errorf("field %q: %w", key.Value, err)
		}
		fields = append(fields, Field{Name: key.Value, Schema: sch})
	}
	*f = fields
	return nil
}

// MarshalYAML encodes fields as an ordered mapping.
func (f Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, fld := range f {
		var val yaml.Node
		if err := val.Encode(fld.Schema); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: fld.Name},
			&val,
		)
	}
	return node, nil
}

// ParseSchemaYAML decodes and checks a schema document. JSON documents are
// accepted too since JSON is a subset of YAML.
func ParseSchemaYAML(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		if errors.Is(err, ErrInvalidSchema) {
			return Schema{}, err
		}
		return Schema{}, errors.Join(ErrInvalidSchema, err)
	}
	if err := s.Check(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// LoadSchemaFile reads and parses a schema file.
func LoadSchemaFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema %s: %w", path, err)
	}
	s, err := ParseSchemaYAML(data)
	if err != nil {
		return Schema{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadSchemaDir loads every .yaml, .yml and .json file in dir, keyed by file
// name without extension. Subdirectories are ignored.
func LoadSchemaDir(dir string) (map[string]Schema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir %s: %w", dir, err)
	}

	schemas := make(map[string]Schema, len(entries))
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		switch strings.ToLower(ext) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		s, err := LoadSchemaFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		schemas[strings.TrimSuffix(entry.Name(), ext)] = s
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return schemas, nil
}
