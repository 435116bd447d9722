package a2ui

import "loom/internal/protocol"

// BuildSurface folds an ordered message list into a fresh SurfaceState.
// Building is idempotent: the same list always produces the same state, and
// redefining a component id is last-write-wins.
//
// Surface lifecycle envelopes (createSurface, deleteSurface) are no-ops
// here; the registry handles them. Invalid envelopes are skipped one by
// one, never aborting the fold.
func BuildSurface(msgs []protocol.Message) *SurfaceState {
	state := &SurfaceState{
		Components: make(map[string]*ComponentDefinition),
		Store:      NewReactiveStore(),
	}
	firstSeen := ""
	for _, msg := range msgs {
		switch msg.Kind() {
		case protocol.KindUpdateComponents:
			for _, comp := range msg.UpdateComponents.Components {
				if comp.ID == "" {
					continue
				}
				if firstSeen == "" {
					firstSeen = comp.ID
				}
				if _, exists := state.Components[comp.ID]; !exists {
					state.Order = append(state.Order, comp.ID)
				}
				state.Components[comp.ID] = &ComponentDefinition{
					ID:         comp.ID,
					Type:       ParseComponentType(comp.Tag),
					Tag:        comp.Tag,
					Properties: comp.Properties,
				}
			}
		case protocol.KindUpdateDataModel:
			state.Store.Set(msg.UpdateDataModel.Path, msg.UpdateDataModel.Value)
		}
	}
	state.RootID = inferRoot(state, firstSeen)
	return state
}

// inferRoot picks the surface root once all messages are folded.
//
// The id "root" always wins. Otherwise the root is the first component, in
// first-upsert order, that no other component references as a child. When
// every component is referenced (a cycle, or a graph the author got wrong)
// the first component ever seen is used, which keeps the choice stable for
// a fixed message order. The heuristic is deliberately order-dependent:
// server-emitted streams rely on it.
func inferRoot(state *SurfaceState, firstSeen string) string {
	if _, ok := state.Components["root"]; ok {
		return "root"
	}
	referenced := make(map[string]struct{})
	for _, def := range state.Components {
		for _, id := range staticChildIDs(def) {
			referenced[id] = struct{}{}
		}
	}
	for _, id := range state.Order {
		if _, ok := referenced[id]; !ok {
			return id
		}
	}
	return firstSeen
}

// staticChildIDs lists every component id a definition references as a
// child, across all encodings, without consulting the data model. A
// template contributes its repeated componentId — the bound array only
// decides the instance count, never which component is the child.
func staticChildIDs(def *ComponentDefinition) []string {
	var ids []string
	collect := func(list []any) {
		for _, entry := range list {
			if id, ok := entry.(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
	}
	switch v := def.Properties["children"].(type) {
	case []any:
		collect(v)
	case map[string]any:
		if list, ok := v["explicitList"].([]any); ok {
			collect(list)
		}
		if tmpl, ok := v["template"].(map[string]any); ok {
			if id, ok := tmpl["componentId"].(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
	}
	if id, ok := def.Properties["child"].(string); ok && id != "" {
		ids = append(ids, id)
	}
	return ids
}
