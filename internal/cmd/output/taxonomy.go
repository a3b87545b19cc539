package output

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/taxonomy-import/pkg/importer"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy/resourcetypes"
)

// ChildrenData renders a walked subtree, one node per row.
func ChildrenData(children []taxonomy.Child) Data {
	rows := make([][]string, 0, len(children))
	for _, c := range children {
		rows = append(rows, []string{c.Kind.String(), c.ID, c.Name, c.ParentID, strconv.FormatBool(c.Primary)})
	}
	return Data{
		Headers: []string{"Kind", "ID", "Name", "Parent", "Primary"},
		Rows:    rows,
	}
}

// EntitiesData renders parsed entities in row order. Primary flag, resource
// types, filters and translations are wide columns.
func EntitiesData(entities []*taxonomy.Entity) Data {
	headers := []string{"Row", "Kind", "ID", "Name", "Parent", "Rank",
		"Primary", "Resource Types", "Filters", "Translations"}

	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, []string{
			strconv.Itoa(e.Row),
			e.Kind.String(),
			e.ResolveID(),
			e.Name,
			e.ParentID(),
			strconv.Itoa(e.Rank),
			strconv.FormatBool(e.IsPrimary),
			resourceTypeNames(e.ResourceTypes),
			filterNames(e.Filters),
			translationNames(e.Translations),
		})
	}

	align := make([]Align, len(headers))
	align[0] = AlignRight
	align[5] = AlignRight
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align, WideFrom: 6}
}

func resourceTypeNames(types []taxonomy.ResourceType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func filterNames(filters []taxonomy.Filter) string {
	names := make([]string, len(filters))
	for i, f := range filters {
		if f.RelevanceName != "" {
			names[i] = fmt.Sprintf("%s (%s)", f.Name, f.RelevanceName)
			continue
		}
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

func translationNames(tr map[string]taxonomy.Translation) string {
	languages := slices.Sorted(maps.Keys(tr))
	parts := make([]string, 0, len(languages))
	for _, lang := range languages {
		parts = append(parts, lang+"="+tr[lang].Name)
	}
	return strings.Join(parts, ", ")
}

// ResourceTypesData renders the resource type taxonomy.
func ResourceTypesData(types []resourcetypes.Type) Data {
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		name := t.Name
		if t.Parent != "" {
			name = "  " + name
		}
		rows = append(rows, []string{name, t.ID, t.Parent})
	}
	return Data{
		Headers: []string{"Name", "ID", "Parent"},
		Rows:    rows,
	}
}

// SummaryData renders an import summary as a key/value table.
func SummaryData(s *importer.Summary) Data {
	kv := [][]string{
		{"Run ID", s.RunID},
		{"Subject", s.SubjectID},
		{"Dry run", strconv.FormatBool(s.DryRun)},
		{"Rows read", strconv.Itoa(s.RowsRead)},
		{"Rows skipped", strconv.Itoa(s.RowsSkipped)},
		{"Entities", strconv.Itoa(s.Entities)},
	}
	for _, kind := range taxonomy.Kinds {
		kv = append(kv,
			[]string{"Created " + kind.String() + "s", strconv.Itoa(s.Reconcile.Created[kind])},
			[]string{"Updated " + kind.String() + "s", strconv.Itoa(s.Reconcile.Updated[kind])},
		)
	}
	st := s.Reconcile
	kv = append(kv,
		[]string{"Skipped", strconv.Itoa(st.Skipped)},
		[]string{"Associations created", strconv.Itoa(st.AssociationsCreated)},
		[]string{"Associations updated", strconv.Itoa(st.AssociationsUpdated)},
		[]string{"Resource types attached", strconv.Itoa(st.TypesAttached)},
		[]string{"Resource types detached", strconv.Itoa(st.TypesDetached)},
		[]string{"Filters attached", strconv.Itoa(st.FiltersAttached)},
		[]string{"Filters detached", strconv.Itoa(st.FiltersDetached)},
		[]string{"Translations", strconv.Itoa(st.Translations)},
		[]string{"URL mappings", strconv.Itoa(st.URLMappings)},
		[]string{"Warnings", strconv.Itoa(st.Warnings)},
		[]string{"Deleted", strconv.Itoa(s.Deleted)},
		[]string{"Delete failures", strconv.Itoa(s.DeleteFailures)},
		[]string{"Duration", s.Duration.String()},
	)
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            kv,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}
