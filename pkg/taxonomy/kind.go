// Package taxonomy defines the node model shared by the parser, the
// reconciler and the bulk walker, together with the Store interface the
// reconciler drives against the remote taxonomy graph.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/agentstation/taxonomy-import/pkg/errors"
)

// Kind is one of the three node kinds, in containment order.
type Kind string

// Node kinds.
const (
	KindSubject  Kind = "subject"
	KindTopic    Kind = "topic"
	KindResource Kind = "resource"
)

// Kinds lists every kind in containment order.
var Kinds = []Kind{KindSubject, KindTopic, KindResource}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Namespace is the prefix used when deriving ids for this kind.
func (k Kind) Namespace() string {
	return string(k)
}

// Collection is the REST collection name for this kind.
func (k Kind) Collection() string {
	return string(k) + "s"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSubject, KindTopic, KindResource:
		return true
	}
	return false
}

// ParseKind parses a kind name in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", &errors.ValidationError{
			Field:   "kind",
			Value:   s,
			Message: fmt.Sprintf("unknown kind %q", s),
		}
	}
	return k, nil
}

// DeriveID builds the deterministic id of a node from its legacy id.
func DeriveID(kind Kind, legacyNodeID string) string {
	if legacyNodeID == "" {
		return ""
	}
	return kind.Namespace() + ":1:" + legacyNodeID
}

// QualifyID prefixes id with the kind namespace when it has none.
func QualifyID(kind Kind, id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, ":") {
		return id
	}
	return kind.Namespace() + ":" + id
}
