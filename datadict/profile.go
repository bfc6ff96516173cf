package datadict

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Column is the metadata reported for one column.
type Column struct {
	Type              string   `json:"type"`
	Description       string   `json:"description"`
	ExampleValues     []string `json:"example_values"`
	UniqueValues      int      `json:"unique_values"`
	MissingPercentage string   `json:"missing_percentage"`
	JoinsWith         []string `json:"joins_with"`
}

// Table maps column name to metadata in file column order.
type Table = orderedmap.OrderedMap[string, Column]

// Dictionary maps dataset name to its table in dataset order.
type Dictionary = orderedmap.OrderedMap[string, *Table]

const (
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeDatetime = "datetime"
	TypeString   = "string"

	noDescription = "No description available."
	maxExamples   = 3
)

// missingTokens are the cell values treated as missing.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(v string) bool {
	_, ok := missingTokens[v]
	return ok
}

// profileTable computes metadata for every column of f.
func profileTable(name string, f *frame, catalog Catalog) *Table {
	t := orderedmap.New[string, Column]()
	for i, col := range f.header {
		spec := catalog.Lookup(name, col)
		c := profileColumn(f.column(i))
		c.Description = spec.Desc
		if c.Description == "" {
			c.Description = noDescription
		}
		c.JoinsWith = append([]string{}, spec.Joins...)
		t.Set(col, c)
	}
	return t
}

func profileColumn(cells []string) Column {
	var (
		present  []string
		missing  int
		seen     = map[string]struct{}{}
		examples = []string{}
	)
	for _, v := range cells {
		if isMissing(v) {
			missing++
			continue
		}
		present = append(present, v)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			if len(examples) < maxExamples {
				examples = append(examples, v)
			}
		}
	}

	pct := 0.0
	if len(cells) > 0 {
		pct = math.Round(float64(missing)/float64(len(cells))*100*100) / 100
	}
	return Column{
		Type:              inferType(present, missing > 0),
		ExampleValues:     examples,
		UniqueValues:      len(seen),
		MissingPercentage: formatPercent(pct, len(cells) > 0),
	}
}

// inferType classifies the non-missing values of a column. Integer columns
// with gaps are reported as float, and an all-missing column is float.
func inferType(values []string, hasMissing bool) string {
	if len(values) == 0 {
		return TypeFloat
	}
	if all(values, isInteger) {
		if hasMissing {
			return TypeFloat
		}
		return TypeInteger
	}
	if all(values, isFloat) {
		return TypeFloat
	}
	if all(values, isDatetime) {
		return TypeDatetime
	}
	return TypeString
}

func all(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isInteger(v string) bool {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
		v = v[1:]
	}
	if v == "" || strings.Trim(v, "0123456789") != "" {
		return false
	}
	// Leading zeros would otherwise be read as an octal prefix.
	digits := strings.TrimLeft(v, "0")
	if digits == "" {
		digits = "0"
	}
	_, err := cast.ToInt64E(digits)
	return err == nil
}

func isFloat(v string) bool {
	_, err := cast.ToFloat64E(strings.TrimSpace(v))
	return err == nil
}

func isDatetime(v string) bool {
	v = strings.TrimSpace(v)
	if len(v) < 6 {
		return false
	}
	_, err := cast.ToTimeE(v)
	return err == nil
}

// formatPercent renders a percentage the way the dictionary has always shown
// it: "0.0%", "12.5%", "33.33%", or "0%" for an empty table.
func formatPercent(pct float64, hasRows bool) string {
	if !hasRows {
		return "0%"
	}
	s := strconv.FormatFloat(pct, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}
