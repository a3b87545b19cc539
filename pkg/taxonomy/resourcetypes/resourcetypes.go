// Package resourcetypes holds the static two-level resource type taxonomy
// used to resolve the type columns of the input table.
package resourcetypes

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

//go:embed resourcetypes.yaml
var data []byte

// Type is one entry of the taxonomy. Parent is empty for top-level types.
type Type struct {
	Name   string `yaml:"name" json:"name"`
	ID     string `yaml:"id" json:"id"`
	Parent string `yaml:"-" json:"parent,omitempty"`
}

type node struct {
	Name     string `yaml:"name"`
	ID       string `yaml:"id"`
	Subtypes []node `yaml:"subtypes"`
}

// Table is an immutable name→type lookup.
type Table struct {
	ordered []Type
	byName  map[string]Type
}

var defaultTable = mustLoad(data)

func mustLoad(b []byte) *Table {
	t, err := Load(b)
	if err != nil {
		panic(fmt.Sprintf("resourcetypes: embedded table: %v", err))
	}
	return t
}

// Load decodes a YAML taxonomy. Names must be unique across both levels.
func Load(b []byte) (*Table, error) {
	var roots []node
	if err := yaml.Unmarshal(b, &roots); err != nil {
		return nil, errors.WrapParse("yaml", "resource types", err)
	}

	t := &Table{byName: make(map[string]Type)}
	add := func(typ Type) error {
		if typ.Name == "" || typ.ID == "" {
			return &errors.ValidationError{Field: "resource type", Value: typ, Message: "name and id are required"}
		}
		if _, dup := t.byName[typ.Name]; dup {
			return &errors.ValidationError{Field: "resource type", Value: typ.Name, Message: "duplicate name"}
		}
		t.byName[typ.Name] = typ
		t.ordered = append(t.ordered, typ)
		return nil
	}

	for _, root := range roots {
		if err := add(Type{Name: root.Name, ID: root.ID}); err != nil {
			return nil, err
		}
		for _, sub := range root.Subtypes {
			if len(sub.Subtypes) > 0 {
				return nil, &errors.ValidationError{Field: "resource type", Value: sub.Name, Message: "only two levels are supported"}
			}
			if err := add(Type{Name: sub.Name, ID: sub.ID, Parent: root.Name}); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// Default returns the embedded taxonomy.
func Default() *Table {
	return defaultTable
}

// Lookup finds a type by its exact, trimmed name.
func (t *Table) Lookup(name string) (Type, bool) {
	typ, ok := t.byName[strings.TrimSpace(name)]
	return typ, ok
}

// All returns every type, parents before their subtypes.
func (t *Table) All() []Type {
	out := make([]Type, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Resolve turns the type and subtype cells of one row into the ordered list
// of tags to attach. A subtype brings its parent first; the type cell is
// then redundant. Both blank yields nil.
func (t *Table) Resolve(typeName, subTypeName string) ([]taxonomy.ResourceType, error) {
	typeName = strings.TrimSpace(typeName)
	subTypeName = strings.TrimSpace(subTypeName)

	var typ, sub Type
	var ok bool
	if typeName != "" {
		if typ, ok = t.Lookup(typeName); !ok {
			return nil, unknown(typeName)
		}
	}
	if subTypeName != "" {
		if sub, ok = t.Lookup(subTypeName); !ok {
			return nil, unknown(subTypeName)
		}
	}

	switch {
	case subTypeName != "" && sub.Parent != "":
		parent := t.byName[sub.Parent]
		return []taxonomy.ResourceType{
			{Name: parent.Name, ID: parent.ID},
			{Name: sub.Name, ID: sub.ID, ParentName: parent.Name},
		}, nil
	case subTypeName != "":
		// A top-level name given in the subtype column.
		return []taxonomy.ResourceType{{Name: sub.Name, ID: sub.ID}}, nil
	case typeName != "":
		return []taxonomy.ResourceType{{Name: typ.Name, ID: typ.ID, ParentName: typ.Parent}}, nil
	}
	return nil, nil
}

// ParentID returns the id of the named type's parent, or "".
func (t *Table) ParentID(name string) string {
	typ, ok := t.Lookup(name)
	if !ok || typ.Parent == "" {
		return ""
	}
	return t.byName[typ.Parent].ID
}

// UnknownTypeError reports a name missing from the taxonomy.
type UnknownTypeError struct {
	Name string
}

// Error implements the error interface
func (e *UnknownTypeError) Error() string {
	return "unknown resource type: " + e.Name
}

// Is implements errors.Is support
func (e *UnknownTypeError) Is(target error) bool {
	return target == errors.ErrInvalidInput
}

func unknown(name string) error {
	return &UnknownTypeError{Name: name}
}
