package a2ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		basePath string
		want     string
	}{
		{"root base leaves path alone", "/user/name", "/", "/user/name"},
		{"empty base leaves path alone", "/user/name", "", "/user/name"},
		{"already scoped is not double-prefixed", "/items/2/name", "/items/2", "/items/2/name"},
		{"leading slash is still scoped", "/name", "/items/2", "/items/2/name"},
		{"relative joins with slash", "name", "/items/2", "/items/2/name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolvePath(tc.path, tc.basePath))
		})
	}
}

func TestResolveString(t *testing.T) {
	store := NewReactiveStore()
	store.Set("/user/name", "Alice")
	store.Set("/user/age", 30.0)
	store.Set("/user/admin", true)

	t.Run("nil cell", func(t *testing.T) {
		assert.Equal(t, "", ResolveString(nil, store, "/"))
	})
	t.Run("raw literal", func(t *testing.T) {
		assert.Equal(t, "hello", ResolveString("hello", store, "/"))
	})
	t.Run("typed literal", func(t *testing.T) {
		assert.Equal(t, "typed", ResolveString(map[string]any{"literalString": "typed"}, store, "/"))
	})
	t.Run("bound string", func(t *testing.T) {
		assert.Equal(t, "Alice", ResolveString(map[string]any{"path": "/user/name"}, store, "/"))
	})
	t.Run("bound number stringifies without trailing zero", func(t *testing.T) {
		assert.Equal(t, "30", ResolveString(map[string]any{"path": "/user/age"}, store, "/"))
	})
	t.Run("bound bool stringifies", func(t *testing.T) {
		assert.Equal(t, "true", ResolveString(map[string]any{"path": "/user/admin"}, store, "/"))
	})
	t.Run("unresolvable path is empty", func(t *testing.T) {
		assert.Equal(t, "", ResolveString(map[string]any{"path": "/missing"}, store, "/"))
	})
	t.Run("kind mismatch falls to zero", func(t *testing.T) {
		assert.Equal(t, "", ResolveString(true, store, "/"))
		assert.Equal(t, "", ResolveString(3.5, store, "/"))
	})
	t.Run("scoped binding", func(t *testing.T) {
		store.Set("/items", []any{
			map[string]any{"label": "first"},
			map[string]any{"label": "second"},
		})
		got := ResolveString(map[string]any{"path": "/label"}, store, "/items/1")
		assert.Equal(t, "second", got)
	})
}

func TestResolveBool(t *testing.T) {
	store := NewReactiveStore()
	store.Set("/on", true)
	store.Set("/name", "x")
	store.Set("/zero", 0.0)

	t.Run("raw literal", func(t *testing.T) {
		assert.True(t, ResolveBool(true, store, "/"))
	})
	t.Run("typed literal", func(t *testing.T) {
		assert.True(t, ResolveBool(map[string]any{"literalBoolean": true}, store, "/"))
	})
	t.Run("bound bool", func(t *testing.T) {
		assert.True(t, ResolveBool(map[string]any{"path": "/on"}, store, "/"))
	})
	t.Run("bound truthy string", func(t *testing.T) {
		assert.True(t, ResolveBool(map[string]any{"path": "/name"}, store, "/"))
	})
	t.Run("bound zero is false", func(t *testing.T) {
		assert.False(t, ResolveBool(map[string]any{"path": "/zero"}, store, "/"))
	})
	t.Run("missing is false", func(t *testing.T) {
		assert.False(t, ResolveBool(map[string]any{"path": "/missing"}, store, "/"))
	})
	t.Run("garbage is false", func(t *testing.T) {
		assert.False(t, ResolveBool("yes", store, "/"))
		assert.False(t, ResolveBool(nil, store, "/"))
	})
}

func TestResolveNumber(t *testing.T) {
	store := NewReactiveStore()
	store.Set("/n", 12.5)
	store.Set("/s", "12.5")

	t.Run("raw literal", func(t *testing.T) {
		assert.Equal(t, 3.0, ResolveNumber(3.0, store, "/"))
	})
	t.Run("typed literal", func(t *testing.T) {
		assert.Equal(t, 7.0, ResolveNumber(map[string]any{"literalNumber": 7.0}, store, "/"))
	})
	t.Run("bound number", func(t *testing.T) {
		assert.Equal(t, 12.5, ResolveNumber(map[string]any{"path": "/n"}, store, "/"))
	})
	t.Run("numeric string is not parsed", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolveNumber(map[string]any{"path": "/s"}, store, "/"))
	})
	t.Run("missing is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolveNumber(map[string]any{"path": "/missing"}, store, "/"))
	})
}
