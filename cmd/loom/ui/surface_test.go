package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/a2ui"
	"loom/internal/protocol"
)

func buildSurface(t *testing.T, raw string, interactive bool) *a2ui.Surface {
	t.Helper()
	msgs, err := protocol.DecodeMessages([]byte(raw))
	require.NoError(t, err)
	r := a2ui.NewRegistry()
	r.Apply("rev", msgs, interactive)
	ids := r.SurfaceIDs()
	require.Len(t, ids, 1)
	return r.Get(ids[0])
}

const profileSurface = `[
	{"createSurface": {"surfaceId": "profile", "catalogId": "standard"}},
	{"updateComponents": {"surfaceId": "profile", "components": [
		{"id": "root", "component": "Column", "children": ["title", "name", "save"]},
		{"id": "title", "component": "Text", "variant": "heading", "text": "Profile"},
		{"id": "name", "component": "Text", "text": {"path": "/user/name"}},
		{"id": "save", "component": "Button", "label": "Save",
		 "action": {"event": {"name": "save", "context": {"who": {"path": "/user/name"}}}}}
	]}},
	{"updateDataModel": {"surfaceId": "profile", "value": {"user": {"name": "Alice"}}}}
]`

func TestRenderSurface(t *testing.T) {
	styles := DefaultStyles("dark")

	t.Run("interactive surface renders content and controls", func(t *testing.T) {
		view := Render(buildSurface(t, profileSurface, true), styles, 80, -1)
		assert.Contains(t, view.Body, "Profile")
		assert.Contains(t, view.Body, "Alice")
		assert.Contains(t, view.Body, "Save")

		require.Len(t, view.Controls, 1)
		ctrl := view.Controls[0]
		assert.Equal(t, "save", ctrl.ComponentID)
		require.NotNil(t, ctrl.Action.Event)
		assert.Equal(t, "save", ctrl.Action.Event.Name)
		// Bound context resolved at render time.
		assert.Equal(t, "Alice", ctrl.Action.Event.Context["who"])
	})

	t.Run("frozen surface renders but exposes no controls", func(t *testing.T) {
		view := Render(buildSurface(t, profileSurface, false), styles, 80, -1)
		assert.Contains(t, view.Body, "Save")
		assert.Nil(t, view.Controls)
	})

	t.Run("unknown component renders nothing", func(t *testing.T) {
		view := Render(buildSurface(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "root", "component": "Column", "children": ["weird", "ok"]},
				{"id": "weird", "component": "Hologram", "text": "boo"},
				{"id": "ok", "component": "Text", "text": "visible"}
			]}}
		]`, true), styles, 80, -1)
		assert.Contains(t, view.Body, "visible")
		assert.NotContains(t, view.Body, "boo")
	})

	t.Run("missing child id renders nothing for that slot", func(t *testing.T) {
		view := Render(buildSurface(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "root", "component": "Column", "children": ["ghost", "real"]},
				{"id": "real", "component": "Text", "text": "here"}
			]}}
		]`, true), styles, 80, -1)
		assert.Contains(t, view.Body, "here")
	})

	t.Run("cyclic graph terminates", func(t *testing.T) {
		view := Render(buildSurface(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "a", "component": "Column", "children": ["b"]},
				{"id": "b", "component": "Column", "children": ["a"]}
			]}}
		]`, true), styles, 80, -1)
		// Renders empty or truncated, but returns.
		_ = view
	})

	t.Run("nil surface renders empty", func(t *testing.T) {
		assert.Equal(t, View{}, Render(nil, styles, 80, -1))
	})
}

func TestRenderTemplateList(t *testing.T) {
	styles := DefaultStyles("dark")
	view := Render(buildSurface(t, `[
		{"updateComponents": {"surfaceId": "todos", "components": [
			{"id": "root", "component": "List", "children": {
				"template": {"dataBinding": "/todos", "componentId": "todo-row"}
			}},
			{"id": "todo-row", "component": "Text", "text": {"path": "/title"}}
		]}},
		{"updateDataModel": {"surfaceId": "todos", "value": {"todos": [
			{"title": "write tests"}, {"title": "ship it"}
		]}}}
	]`, true), styles, 80, -1)

	assert.Contains(t, view.Body, "write tests")
	assert.Contains(t, view.Body, "ship it")
	assert.Equal(t, 2, strings.Count(view.Body, "•"))
}

func TestRenderWidgets(t *testing.T) {
	styles := DefaultStyles("dark")

	t.Run("checkbox reflects bound value", func(t *testing.T) {
		view := Render(buildSurface(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "root", "component": "CheckBox", "label": "done", "value": {"path": "/done"}}
			]}},
			{"updateDataModel": {"surfaceId": "s", "value": {"done": true}}}
		]`, true), styles, 80, -1)
		assert.Contains(t, view.Body, "☑ done")
	})

	t.Run("multiple choice marks selection", func(t *testing.T) {
		view := Render(buildSurface(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "root", "component": "MultipleChoice",
				 "options": ["red", "green"], "value": "green"}
			]}}
		]`, true), styles, 80, -1)
		assert.Contains(t, view.Body, "○ red")
		assert.Contains(t, view.Body, "● green")
	})

	t.Run("slider draws proportional track", func(t *testing.T) {
		view := Render(buildSurface(t, `[
			{"updateComponents": {"surfaceId": "s", "components": [
				{"id": "root", "component": "Slider", "value": 50, "max": 100}
			]}}
		]`, true), styles, 80, -1)
		assert.Contains(t, view.Body, "██████████░░░░░░░░░░")
	})
}
