package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaDoc is the on-disk YAML layout for a set of table definitions.
type schemaDoc struct {
	Tables []tableDoc `yaml:"tables"`
}

type tableDoc struct {
	Name             string            `yaml:"name"`
	Columns          []columnDoc       `yaml:"columns"`
	Properties       map[string]string `yaml:"properties"`
	AppendOnly       bool              `yaml:"append_only"`
	Materialized     bool              `yaml:"materialized"`
	Stream           bool              `yaml:"stream"`
	RowFormat        string            `yaml:"row_format"`
	RowCountEstimate float64           `yaml:"row_count_estimate"`
}

type columnDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

// LoadSchema reads a YAML schema document and registers every table it
// declares into the registry. Each table definition goes through the
// Builder, so the same validation applies as for DDL-compiled tables.
func LoadSchema(r io.Reader, reg *Registry) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	for _, td := range doc.Tables {
		b := NewBuilder(td.Name).
			SetAppendOnly(td.AppendOnly).
			SetMaterialized(td.Materialized).
			SetStream(td.Stream).
			SetRowFormat(td.RowFormat)
		if len(td.Properties) > 0 {
			b.SetProperties(td.Properties)
		}
		for _, cd := range td.Columns {
			b.AddColumn(cd.Name, ColumnDescriptor{Type: DataType(cd.Type), Nullable: cd.Nullable})
		}

		def, err := b.Build()
		if err != nil {
			return fmt.Errorf("table %q: %w", td.Name, err)
		}
		if _, err := reg.Register(def, td.RowCountEstimate); err != nil {
			return err
		}
	}
	return nil
}

// LoadSchemaFile loads a YAML schema file into a fresh registry.
func LoadSchemaFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()

	reg := NewRegistry()
	if err := LoadSchema(f, reg); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return reg, nil
}
