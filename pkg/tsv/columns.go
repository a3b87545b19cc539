package tsv

import (
	"strings"
)

// Header names of the input table.
const (
	ColumnTopicLevel1     = "Emne nivå 1"
	ColumnTopicLevel2     = "Emne nivå 2"
	ColumnTopicLevel3     = "Emne nivå 3"
	ColumnResourceName    = "Læringsressurs"
	ColumnLegacyLink      = "Lenke til gammelt system"
	ColumnResourceType    = "Ressurstype"
	ColumnSubResourceType = "Subressurstype"
	ColumnTranslation     = "nn"
	ColumnFilter          = "Filter"
	ColumnRelevance       = "Relevans"
	ColumnInclude         = "Import"
	ColumnSecondary       = "Sekundær"
	ColumnID              = "Id"
	ColumnContentURI      = "Innhold"
)

// MarkerColumn identifies the header row among any super-header rows above it.
const MarkerColumn = ColumnResourceName

// RequiredColumns must all be present in the header, checked in this order.
var RequiredColumns = []string{
	ColumnResourceType,
	ColumnSubResourceType,
	ColumnLegacyLink,
	ColumnTopicLevel1,
	ColumnTopicLevel2,
	ColumnTopicLevel3,
}

var topicLevelColumns = [levels]string{ColumnTopicLevel1, ColumnTopicLevel2, ColumnTopicLevel3}

// Columns maps a trimmed header name to every index where it occurs.
type Columns map[string][]int

func newColumns(header []string) Columns {
	c := make(Columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c[name] = append(c[name], i)
	}
	return c
}

// Has reports whether the column is present.
func (c Columns) Has(name string) bool {
	return len(c[name]) > 0
}

// Count returns how many times the column occurs.
func (c Columns) Count(name string) int {
	return len(c[name])
}

// Index returns the index of the n-th occurrence of name.
func (c Columns) Index(name string, n int) (int, bool) {
	idx := c[name]
	if n < 0 || n >= len(idx) {
		return 0, false
	}
	return idx[n], true
}

// row is one data record with header-aware accessors.
type row struct {
	cols   Columns
	cells  []string
	number int
}

// cell returns the trimmed value of the first occurrence of name, or "".
func (r row) cell(name string) string {
	return r.cellAt(name, 0)
}

func (r row) cellAt(name string, n int) string {
	i, ok := r.cols.Index(name, n)
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r row) blank() bool {
	for _, v := range r.cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
