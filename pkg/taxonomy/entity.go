package taxonomy

import (
	"golang.org/x/text/cases"
)

// FoldName is the case-insensitive key used to compare names.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// Translation is a translated display name.
type Translation struct {
	Name string `json:"name" yaml:"name"`
}

// ResourceType is a type tag attached to a node. ID is empty until resolved.
type ResourceType struct {
	Name       string `json:"name" yaml:"name"`
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	ParentName string `json:"parent_name,omitempty" yaml:"parent_name,omitempty"`
}

// Filter is a subject-scoped grouping tag with the relevance it carries for a node.
type Filter struct {
	Name          string `json:"name" yaml:"name"`
	RelevanceName string `json:"relevance,omitempty" yaml:"relevance,omitempty"`
}

// Entity is a taxonomy node under construction or reconciliation.
//
// Parent is a positional, non-owning reference set by the parser. The
// reconciler writes the resolved id back into ID so that later rows that
// point at this entity see it.
type Entity struct {
	Kind          Kind                   `json:"kind" yaml:"kind"`
	ID            string                 `json:"id,omitempty" yaml:"id,omitempty"`
	LegacyNodeID  string                 `json:"legacy_node_id,omitempty" yaml:"legacy_node_id,omitempty"`
	LegacyURL     string                 `json:"legacy_url,omitempty" yaml:"legacy_url,omitempty"`
	Name          string                 `json:"name" yaml:"name"`
	ContentURI    string                 `json:"content_uri,omitempty" yaml:"content_uri,omitempty"`
	Translations  map[string]Translation `json:"translations,omitempty" yaml:"translations,omitempty"`
	ResourceTypes []ResourceType         `json:"resource_types,omitempty" yaml:"resource_types,omitempty"`
	Filters       []Filter               `json:"filters,omitempty" yaml:"filters,omitempty"`
	Rank          int                    `json:"rank,omitempty" yaml:"rank,omitempty"`
	Parent        *Entity                `json:"-" yaml:"-"`
	IsPrimary     bool                   `json:"primary" yaml:"primary"`
	Row           int                    `json:"row,omitempty" yaml:"row,omitempty"`
}

// ResolveID returns the explicit id, or the id derived from the legacy node id.
// It returns "" when neither is available.
func (e *Entity) ResolveID() string {
	if e.ID != "" {
		return e.ID
	}
	return DeriveID(e.Kind, e.LegacyNodeID)
}

// ParentID returns the resolved id of the parent, or "" for a root.
func (e *Entity) ParentID() string {
	if e.Parent == nil {
		return ""
	}
	return e.Parent.ResolveID()
}

// AddFilter appends f unless a filter with the same name is already present.
func (e *Entity) AddFilter(f Filter) bool {
	key := FoldName(f.Name)
	for _, existing := range e.Filters {
		if FoldName(existing.Name) == key {
			return false
		}
	}
	e.Filters = append(e.Filters, f)
	return true
}

// AddResourceType appends rt. When rt names a parent that is not yet in the
// list, the parent is inserted first.
func (e *Entity) AddResourceType(rt ResourceType) {
	if e.hasResourceType(rt.Name) {
		return
	}
	if rt.ParentName != "" && !e.hasResourceType(rt.ParentName) {
		e.ResourceTypes = append(e.ResourceTypes, ResourceType{Name: rt.ParentName})
	}
	e.ResourceTypes = append(e.ResourceTypes, rt)
}

func (e *Entity) hasResourceType(name string) bool {
	key := FoldName(name)
	for _, existing := range e.ResourceTypes {
		if FoldName(existing.Name) == key {
			return true
		}
	}
	return false
}

// SetTranslation records the translated name for language.
func (e *Entity) SetTranslation(language, name string) {
	if e.Translations == nil {
		e.Translations = make(map[string]Translation)
	}
	e.Translations[language] = Translation{Name: name}
}

// Label is a short human-readable description for logs and errors.
func (e *Entity) Label() string {
	if id := e.ResolveID(); id != "" {
		return string(e.Kind) + " " + id
	}
	return string(e.Kind) + " " + e.Name
}
