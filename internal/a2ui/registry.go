package a2ui

import "loom/internal/protocol"

// Registry owns every live Surface of a conversation, keyed by surface id.
// It decides when a surface must be rebuilt (the revision token changed),
// when it is deleted, and — because replaying history walks entries in
// order and upserts each one — it gives last-write-wins semantics for a
// surface id that recurs across the transcript.
type Registry struct {
	surfaces map[string]*Surface
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]*Surface)}
}

// Get returns the surface for id, or nil.
func (r *Registry) Get(surfaceID string) *Surface {
	return r.surfaces[surfaceID]
}

// SurfaceIDs returns the ids currently held, in no particular order.
func (r *Registry) SurfaceIDs() []string {
	ids := make([]string, 0, len(r.surfaces))
	for id := range r.surfaces {
		ids = append(ids, id)
	}
	return ids
}

// Upsert rebuilds the surface from msgs when the revision token differs
// from the cached one, and returns the cached Surface untouched otherwise.
// A rebuild is always wholesale: the new message list supersedes the old
// one entirely, it is never merged into it. A2UI payloads are tens of
// components, so rebuilding costs nothing worth an incremental diff.
func (r *Registry) Upsert(surfaceID string, msgs []protocol.Message, revision string, interactive bool) *Surface {
	if cached, ok := r.surfaces[surfaceID]; ok && cached.Revision == revision {
		return cached
	}
	surf := &Surface{
		SurfaceID:   surfaceID,
		CatalogID:   catalogID(msgs),
		State:       BuildSurface(msgs),
		Interactive: interactive,
		Revision:    revision,
	}
	r.surfaces[surfaceID] = surf
	return surf
}

// Remove drops the surface aggregate entirely.
func (r *Registry) Remove(surfaceID string) {
	delete(r.surfaces, surfaceID)
}

// Apply routes one inbound message list into the registry: messages are
// grouped by surface id in arrival order, each group either deletes its
// surface (when a deleteSurface envelope is its final lifecycle word) or
// upserts it under the given revision token. The returned ids are the
// surfaces this list touched, in first-reference order — the caller's turn
// state records them.
func (r *Registry) Apply(revision string, msgs []protocol.Message, interactive bool) []string {
	groups := make(map[string][]protocol.Message)
	var order []string
	deleted := make(map[string]bool)
	for _, msg := range msgs {
		id := msg.SurfaceID()
		if id == "" {
			continue
		}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], msg)
		deleted[id] = msg.Kind() == protocol.KindDeleteSurface
	}
	for _, id := range order {
		if deleted[id] {
			r.Remove(id)
			continue
		}
		r.Upsert(id, groups[id], revision, interactive)
	}
	return order
}

func catalogID(msgs []protocol.Message) string {
	for _, msg := range msgs {
		if msg.Kind() == protocol.KindCreateSurface {
			return msg.CreateSurface.CatalogID
		}
	}
	return ""
}
