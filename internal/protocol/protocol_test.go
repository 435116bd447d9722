package protocol

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessages(t *testing.T) {
	t.Run("full lifecycle array", func(t *testing.T) {
		data := []byte(`[
			{"createSurface": {"surfaceId": "s1", "catalogId": "standard"}},
			{"updateComponents": {"surfaceId": "s1", "components": [
				{"id": "root", "component": "Column", "children": ["greeting"]},
				{"id": "greeting", "component": "Text", "text": {"path": "/msg"}}
			]}},
			{"updateDataModel": {"surfaceId": "s1", "value": {"msg": "hi"}}},
			{"deleteSurface": {"surfaceId": "s1"}}
		]`)
		msgs, err := DecodeMessages(data)
		require.NoError(t, err)
		require.Len(t, msgs, 4)

		assert.Equal(t, KindCreateSurface, msgs[0].Kind())
		assert.Equal(t, "standard", msgs[0].CreateSurface.CatalogID)

		assert.Equal(t, KindUpdateComponents, msgs[1].Kind())
		comps := msgs[1].UpdateComponents.Components
		require.Len(t, comps, 2)
		assert.Equal(t, "root", comps[0].ID)
		assert.Equal(t, "Column", comps[0].Tag)
		if diff := cmp.Diff(map[string]any{"children": []any{"greeting"}}, comps[0].Properties); diff != "" {
			t.Errorf("property bag mismatch (-want +got):\n%s", diff)
		}

		assert.Equal(t, KindUpdateDataModel, msgs[2].Kind())
		assert.Equal(t, "", msgs[2].UpdateDataModel.Path)

		assert.Equal(t, KindDeleteSurface, msgs[3].Kind())
		for _, m := range msgs {
			assert.Equal(t, "s1", m.SurfaceID())
		}
	})

	t.Run("empty envelope is invalid, not an error", func(t *testing.T) {
		msgs, err := DecodeMessages([]byte(`[{}, {"bogusKey": {"surfaceId": "x"}}]`))
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, KindInvalid, msgs[0].Kind())
		assert.Equal(t, KindInvalid, msgs[1].Kind())
		assert.Equal(t, "", msgs[0].SurfaceID())
	})

	t.Run("two populated keys is invalid", func(t *testing.T) {
		msgs, err := DecodeMessages([]byte(`[
			{"createSurface": {"surfaceId": "a"}, "deleteSurface": {"surfaceId": "a"}}
		]`))
		require.NoError(t, err)
		assert.Equal(t, KindInvalid, msgs[0].Kind())
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		_, err := DecodeMessages([]byte(`[{`))
		assert.Error(t, err)
	})
}

func TestComponentWireForm(t *testing.T) {
	t.Run("non-string id dropped", func(t *testing.T) {
		var c Component
		require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "component": "Text", "text": "hi"}`), &c))
		assert.Equal(t, "", c.ID)
		assert.Equal(t, "Text", c.Tag)
		assert.Equal(t, "hi", c.Properties["text"])
	})

	t.Run("round trip preserves bag", func(t *testing.T) {
		in := Component{
			ID:  "btn",
			Tag: "Button",
			Properties: map[string]any{
				"label":  map[string]any{"literalString": "Go"},
				"action": map[string]any{"event": map[string]any{"name": "go"}},
			},
		}
		data, err := json.Marshal(in)
		require.NoError(t, err)
		var out Component
		require.NoError(t, json.Unmarshal(data, &out))
		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestEncodeUserAction(t *testing.T) {
	t.Run("event variant", func(t *testing.T) {
		data, err := EncodeUserAction(UserAction{
			SurfaceID: "form",
			Action: Action{
				Event: &Event{Name: "submit", Context: map[string]any{"name": "Ada"}},
			},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"surfaceId":"form","action":{"event":{"name":"submit","context":{"name":"Ada"}}}}`, string(data))
	})

	t.Run("function call variant", func(t *testing.T) {
		data, err := EncodeUserAction(UserAction{
			SurfaceID: "tools",
			Action:    Action{FunctionCall: &FunctionCall{Call: "refresh"}},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"surfaceId":"tools","action":{"functionCall":{"call":"refresh"}}}`, string(data))
	})

	t.Run("empty action rejected", func(t *testing.T) {
		_, err := EncodeUserAction(UserAction{SurfaceID: "x"})
		assert.Error(t, err)
	})

	t.Run("both variants rejected", func(t *testing.T) {
		_, err := EncodeUserAction(UserAction{
			SurfaceID: "x",
			Action: Action{
				Event:        &Event{Name: "e"},
				FunctionCall: &FunctionCall{Call: "f"},
			},
		})
		assert.Error(t, err)
	})
}
