package taxonomy

// Builder assembles an Entity with named setters.
//
//	topic := taxonomy.NewEntity(taxonomy.KindTopic).
//		Name("Algebra").
//		Parent(subject).
//		Rank(1).
//		Translation("nn", "Algebra").
//		Build()
type Builder struct {
	e *Entity
}

// NewEntity starts building an entity of the given kind. Kind is fixed here
// and cannot be changed through the builder.
func NewEntity(kind Kind) *Builder {
	return &Builder{e: &Entity{Kind: kind, IsPrimary: true}}
}

// ID sets an explicit id.
func (b *Builder) ID(id string) *Builder {
	b.e.ID = id
	return b
}

// LegacyNodeID sets the legacy node id used to derive the id.
func (b *Builder) LegacyNodeID(id string) *Builder {
	b.e.LegacyNodeID = id
	return b
}

// LegacyURL records the legacy system URL.
func (b *Builder) LegacyURL(u string) *Builder {
	b.e.LegacyURL = u
	return b
}

// Name sets the display name.
func (b *Builder) Name(name string) *Builder {
	b.e.Name = name
	return b
}

// ContentURI sets the content pointer.
func (b *Builder) ContentURI(uri string) *Builder {
	b.e.ContentURI = uri
	return b
}

// Parent sets the enclosing node.
func (b *Builder) Parent(parent *Entity) *Builder {
	b.e.Parent = parent
	return b
}

// Rank sets the sibling position.
func (b *Builder) Rank(rank int) *Builder {
	b.e.Rank = rank
	return b
}

// Secondary marks the parent edge as non-primary.
func (b *Builder) Secondary() *Builder {
	b.e.IsPrimary = false
	return b
}

// Translation adds a translated name.
func (b *Builder) Translation(language, name string) *Builder {
	b.e.SetTranslation(language, name)
	return b
}

// ResourceType adds a type tag.
func (b *Builder) ResourceType(rt ResourceType) *Builder {
	b.e.AddResourceType(rt)
	return b
}

// Filter adds a filter with its relevance.
func (b *Builder) Filter(name, relevance string) *Builder {
	b.e.AddFilter(Filter{Name: name, RelevanceName: relevance})
	return b
}

// Row records the source row number.
func (b *Builder) Row(row int) *Builder {
	b.e.Row = row
	return b
}

// Build returns the entity.
func (b *Builder) Build() *Entity {
	return b.e
}
