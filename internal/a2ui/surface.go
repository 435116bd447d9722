package a2ui

// ComponentDefinition is one node of a surface's component graph: a unique
// id, a catalog type, and the open property bag exactly as it arrived. The
// raw tag is kept alongside the parsed type for diagnostics.
type ComponentDefinition struct {
	ID         string
	Type       ComponentType
	Tag        string
	Properties map[string]any
}

// Prop returns the named property cell, or nil when absent. The result is
// fed to the Resolve* functions, which treat nil as "unset".
func (d *ComponentDefinition) Prop(name string) any {
	if d == nil || d.Properties == nil {
		return nil
	}
	return d.Properties[name]
}

// SurfaceState is the product of folding a surface's message list: the
// component registry keyed by id, the ids in first-upsert order, the
// inferred root, and the populated data model. RootID is "" when no root
// could be inferred; such a surface renders nothing.
type SurfaceState struct {
	Components map[string]*ComponentDefinition
	Order      []string
	RootID     string
	Store      *ReactiveStore
}

// Component looks up a definition by id, nil when unknown. An unknown id
// referenced as a child renders as nothing, not an error.
func (s *SurfaceState) Component(id string) *ComponentDefinition {
	if s == nil {
		return nil
	}
	return s.Components[id]
}

// Surface is the aggregate the registry hands to the renderer: the built
// state plus the identity and interactivity of this revision. A Surface is
// immutable once built; changes to the underlying message list produce a
// wholesale rebuild under a new revision.
type Surface struct {
	SurfaceID   string
	CatalogID   string
	State       *SurfaceState
	Interactive bool
	Revision    string
}
