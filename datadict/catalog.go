package datadict

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ColumnSpec is the hand-written metadata for one column.
type ColumnSpec struct {
	Desc  string   `yaml:"desc"`
	Joins []string `yaml:"joins"`
}

// Catalog maps dataset name to column name to its metadata.
type Catalog map[string]map[string]ColumnSpec

// Lookup returns the spec for table.column, or the zero spec.
func (c Catalog) Lookup(table, column string) ColumnSpec {
	return c[table][column]
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("datadict: embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c == nil {
		c = Catalog{}
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}
