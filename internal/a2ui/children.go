package a2ui

import "strconv"

// ChildRef names one child slot to render: the component id and the base
// path its bound properties resolve against.
type ChildRef struct {
	ID       string
	BasePath string
}

// ResolveChildren yields the ordered child list of a component. Four
// encodings are accepted on the "children" property, plus a singular
// "child" fallback:
//
//   - a flat array of ids
//   - {explicitList: [ids]}
//   - {template: {dataBinding, componentId}} — one instance of componentId
//     per element of the array bound at dataBinding, each instance scoped
//     to its own element
//   - child: "id"
//
// The plural property wins when present, even when malformed; the singular
// fallback applies only when no plural property exists at all.
func ResolveChildren(def *ComponentDefinition, store *ReactiveStore, basePath string) []ChildRef {
	if def == nil {
		return nil
	}
	if children, ok := def.Properties["children"]; ok {
		return resolvePlural(children, store, basePath)
	}
	if id, ok := def.Prop("child").(string); ok && id != "" {
		return []ChildRef{{ID: id, BasePath: basePath}}
	}
	return nil
}

func resolvePlural(children any, store *ReactiveStore, basePath string) []ChildRef {
	switch v := children.(type) {
	case []any:
		return idList(v, basePath)
	case map[string]any:
		if list, ok := v["explicitList"].([]any); ok {
			return idList(list, basePath)
		}
		if tmpl, ok := v["template"].(map[string]any); ok {
			return resolveTemplate(tmpl, store, basePath)
		}
	}
	return nil
}

// idList keeps string entries in order and drops anything else.
func idList(list []any, basePath string) []ChildRef {
	refs := make([]ChildRef, 0, len(list))
	for _, entry := range list {
		if id, ok := entry.(string); ok && id != "" {
			refs = append(refs, ChildRef{ID: id, BasePath: basePath})
		}
	}
	return refs
}

// resolveTemplate expands a dynamic repeat: the component named by
// componentId is instantiated once per element of the bound array, and each
// instance's base path points at its own element so relative bindings read
// from the right place. A non-array at the binding yields zero children.
func resolveTemplate(tmpl map[string]any, store *ReactiveStore, basePath string) []ChildRef {
	binding, _ := tmpl["dataBinding"].(string)
	componentID, _ := tmpl["componentId"].(string)
	if binding == "" || componentID == "" {
		return nil
	}
	resolved := ResolvePath(binding, basePath)
	items, ok := store.Get(resolved).([]any)
	if !ok {
		return nil
	}
	refs := make([]ChildRef, len(items))
	for i := range items {
		refs[i] = ChildRef{ID: componentID, BasePath: resolved + "/" + strconv.Itoa(i)}
	}
	return refs
}
