package a2ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func defWith(props map[string]any) *ComponentDefinition {
	return &ComponentDefinition{ID: "c", Type: TypeColumn, Tag: "Column", Properties: props}
}

func TestResolveChildren(t *testing.T) {
	store := NewReactiveStore()

	t.Run("flat array", func(t *testing.T) {
		got := ResolveChildren(defWith(map[string]any{"children": []any{"a", "b"}}), store, "/")
		want := []ChildRef{{ID: "a", BasePath: "/"}, {ID: "b", BasePath: "/"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("explicitList", func(t *testing.T) {
		got := ResolveChildren(defWith(map[string]any{
			"children": map[string]any{"explicitList": []any{"a", "b"}},
		}), store, "/")
		want := []ChildRef{{ID: "a", BasePath: "/"}, {ID: "b", BasePath: "/"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("non-string entries dropped", func(t *testing.T) {
		got := ResolveChildren(defWith(map[string]any{"children": []any{"a", 3.0, nil, "b"}}), store, "/")
		assert.Equal(t, []ChildRef{{ID: "a", BasePath: "/"}, {ID: "b", BasePath: "/"}}, got)
	})

	t.Run("singular child fallback", func(t *testing.T) {
		got := ResolveChildren(defWith(map[string]any{"child": "only"}), store, "/card")
		assert.Equal(t, []ChildRef{{ID: "only", BasePath: "/card"}}, got)
	})

	t.Run("plural wins over singular", func(t *testing.T) {
		got := ResolveChildren(defWith(map[string]any{
			"children": []any{"a"},
			"child":    "ignored",
		}), store, "/")
		assert.Equal(t, []ChildRef{{ID: "a", BasePath: "/"}}, got)
	})

	t.Run("malformed plural does not fall back to singular", func(t *testing.T) {
		got := ResolveChildren(defWith(map[string]any{
			"children": "not-a-list",
			"child":    "ignored",
		}), store, "/")
		assert.Empty(t, got)
	})

	t.Run("no encoding at all", func(t *testing.T) {
		assert.Empty(t, ResolveChildren(defWith(map[string]any{"text": "hi"}), store, "/"))
		assert.Empty(t, ResolveChildren(nil, store, "/"))
	})
}

func TestResolveChildrenTemplate(t *testing.T) {
	tmplDef := defWith(map[string]any{
		"children": map[string]any{
			"template": map[string]any{"dataBinding": "/todos", "componentId": "todo-row"},
		},
	})

	t.Run("one instance per element with derived base paths", func(t *testing.T) {
		store := NewReactiveStore()
		store.Set("/todos", []any{
			map[string]any{"title": "one"},
			map[string]any{"title": "two"},
			map[string]any{"title": "three"},
		})
		got := ResolveChildren(tmplDef, store, "/")
		want := []ChildRef{
			{ID: "todo-row", BasePath: "/todos/0"},
			{ID: "todo-row", BasePath: "/todos/1"},
			{ID: "todo-row", BasePath: "/todos/2"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("non-array binding yields no children", func(t *testing.T) {
		store := NewReactiveStore()
		store.Set("/todos", "oops")
		assert.Empty(t, ResolveChildren(tmplDef, store, "/"))
	})

	t.Run("missing binding yields no children", func(t *testing.T) {
		assert.Empty(t, ResolveChildren(tmplDef, NewReactiveStore(), "/"))
	})

	t.Run("binding is scoped by the enclosing base path", func(t *testing.T) {
		store := NewReactiveStore()
		store.Set("/sections/1/rows", []any{"x", "y"})
		def := defWith(map[string]any{
			"children": map[string]any{
				"template": map[string]any{"dataBinding": "/rows", "componentId": "row"},
			},
		})
		got := ResolveChildren(def, store, "/sections/1")
		want := []ChildRef{
			{ID: "row", BasePath: "/sections/1/rows/0"},
			{ID: "row", BasePath: "/sections/1/rows/1"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("template missing componentId yields nothing", func(t *testing.T) {
		store := NewReactiveStore()
		store.Set("/todos", []any{"a"})
		def := defWith(map[string]any{
			"children": map[string]any{
				"template": map[string]any{"dataBinding": "/todos"},
			},
		})
		assert.Empty(t, ResolveChildren(def, store, "/"))
	})
}
