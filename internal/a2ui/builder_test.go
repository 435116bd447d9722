package a2ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/protocol"
)

func decode(t *testing.T, raw string) []protocol.Message {
	t.Helper()
	msgs, err := protocol.DecodeMessages([]byte(raw))
	require.NoError(t, err)
	return msgs
}

func TestBuildSurfaceEndToEnd(t *testing.T) {
	msgs := decode(t, `[
		{"createSurface": {"surfaceId": "p", "catalogId": "standard"}},
		{"updateComponents": {"surfaceId": "p", "components": [
			{"id": "root", "component": "Column", "children": ["name-text"]},
			{"id": "name-text", "component": "Text", "text": {"path": "/user/name"}}
		]}},
		{"updateDataModel": {"surfaceId": "p", "value": {"user": {"name": "Alice"}}}}
	]`)
	state := BuildSurface(msgs)

	assert.Equal(t, "root", state.RootID)
	require.NotNil(t, state.Component("name-text"))
	assert.Equal(t, TypeText, state.Component("name-text").Type)

	got := ResolveString(state.Component("name-text").Prop("text"), state.Store, "/")
	assert.Equal(t, "Alice", got)
}

func TestBuildSurfaceRootInference(t *testing.T) {
	t.Run("id root always wins", func(t *testing.T) {
		msgs := decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "a", "component": "Column", "children": ["root"]},
				{"id": "root", "component": "Text", "text": "hi"}
			]}}
		]`)
		assert.Equal(t, "root", BuildSurface(msgs).RootID)
	})

	t.Run("first unreferenced component in insertion order", func(t *testing.T) {
		msgs := decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "b", "component": "Text", "text": "leaf"},
				{"id": "c", "component": "Text", "text": "leaf"},
				{"id": "a", "component": "Column", "children": ["b", "c"]}
			]}}
		]`)
		assert.Equal(t, "a", BuildSurface(msgs).RootID)
	})

	t.Run("template child counts as referenced", func(t *testing.T) {
		msgs := decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "item", "component": "Text", "text": {"path": "/label"}},
				{"id": "list", "component": "List", "children": {
					"template": {"dataBinding": "/items", "componentId": "item"}
				}}
			]}}
		]`)
		assert.Equal(t, "list", BuildSurface(msgs).RootID)
	})

	t.Run("singular child counts as referenced", func(t *testing.T) {
		msgs := decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "inner", "component": "Text", "text": "x"},
				{"id": "card", "component": "Card", "child": "inner"}
			]}}
		]`)
		assert.Equal(t, "card", BuildSurface(msgs).RootID)
	})

	t.Run("cycle falls back to first component seen", func(t *testing.T) {
		msgs := decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "a", "component": "Column", "children": ["b"]},
				{"id": "b", "component": "Column", "children": ["a"]}
			]}}
		]`)
		assert.Equal(t, "a", BuildSurface(msgs).RootID)
	})

	t.Run("no components means no root", func(t *testing.T) {
		state := BuildSurface(decode(t, `[
			{"createSurface": {"surfaceId": "s", "catalogId": "standard"}}
		]`))
		assert.Equal(t, "", state.RootID)
	})
}

func TestBuildSurfaceUpsert(t *testing.T) {
	t.Run("redefinition is last-write-wins", func(t *testing.T) {
		msgs := decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "x", "component": "Text", "text": "old"}
			]}},
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "x", "component": "Text", "text": "new"}
			]}}
		]`)
		state := BuildSurface(msgs)
		assert.Equal(t, "new", state.Component("x").Prop("text"))
		assert.Equal(t, []string{"x"}, state.Order)
	})

	t.Run("rebuild is idempotent", func(t *testing.T) {
		raw := `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "a", "component": "Row", "children": ["b"]},
				{"id": "b", "component": "Text", "text": "hi"}
			]}},
			{"updateDataModel": {"surfaceId": "s", "path": "/k", "value": 1}}
		]`
		first := BuildSurface(decode(t, raw))
		second := BuildSurface(decode(t, raw))
		assert.Equal(t, first.RootID, second.RootID)
		assert.Equal(t, first.Order, second.Order)
		if diff := cmp.Diff(first.Store.Get("/"), second.Store.Get("/")); diff != "" {
			t.Errorf("store mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBuildSurfaceMalformedTolerance(t *testing.T) {
	clean := `[
		{"updateComponents": {"surfaceId": "s", "components": [
			{"id": "root", "component": "Text", "text": "hi"}
		]}},
		{"updateDataModel": {"surfaceId": "s", "path": "/k", "value": "v"}}
	]`
	dirty := `[
		{"updateComponents": {"surfaceId": "s", "components": [
			{"id": "root", "component": "Text", "text": "hi"}
		]}},
		{},
		{"unknownKey": {"surfaceId": "s"}},
		{"updateDataModel": {"surfaceId": "s", "path": "/k", "value": "v"}}
	]`
	want := BuildSurface(decode(t, clean))
	got := BuildSurface(decode(t, dirty))
	assert.Equal(t, want.RootID, got.RootID)
	assert.Equal(t, want.Order, got.Order)
	if diff := cmp.Diff(want.Store.Get("/"), got.Store.Get("/")); diff != "" {
		t.Errorf("store mismatch (-want +got):\n%s", diff)
	}

	t.Run("component without id is skipped", func(t *testing.T) {
		state := BuildSurface(decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"component": "Text", "text": "orphan"},
				{"id": "ok", "component": "Text", "text": "fine"}
			]}}
		]`))
		assert.Equal(t, []string{"ok"}, state.Order)
		assert.Equal(t, "ok", state.RootID)
	})

	t.Run("unknown tag is kept but typed unknown", func(t *testing.T) {
		state := BuildSurface(decode(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "w", "component": "Widget3000", "text": "?"}
			]}}
		]`))
		require.NotNil(t, state.Component("w"))
		assert.Equal(t, TypeUnknown, state.Component("w").Type)
		assert.Equal(t, "Widget3000", state.Component("w").Tag)
	})
}

func TestBuildSurfaceDataModel(t *testing.T) {
	t.Run("absent path replaces whole document", func(t *testing.T) {
		state := BuildSurface(decode(t, `[
			{"updateDataModel": {"surfaceId": "s", "value": {"a": 1}}},
			{"updateDataModel": {"surfaceId": "s", "path": "/b", "value": 2}}
		]`))
		assert.Equal(t, 1.0, state.Store.Get("/a"))
		assert.Equal(t, 2.0, state.Store.Get("/b"))
	})

	t.Run("non-object whole replace is ignored", func(t *testing.T) {
		state := BuildSurface(decode(t, `[
			{"updateDataModel": {"surfaceId": "s", "value": {"keep": true}}},
			{"updateDataModel": {"surfaceId": "s", "value": "scalar"}}
		]`))
		assert.Equal(t, true, state.Store.Get("/keep"))
	})
}
