package a2ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/protocol"
)

type captureSender struct {
	sent []protocol.UserAction
}

func (c *captureSender) SendAction(ua protocol.UserAction) {
	c.sent = append(c.sent, ua)
}

func TestActionBridgeDispatch(t *testing.T) {
	t.Run("forwards tagged action", func(t *testing.T) {
		sender := &captureSender{}
		bridge := NewActionBridge(sender)
		bridge.Dispatch("form", protocol.Action{
			Event: &protocol.Event{Name: "submit", Context: map[string]any{"name": "Ada"}},
		})
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "form", sender.sent[0].SurfaceID)
		assert.Equal(t, "submit", sender.sent[0].Action.Event.Name)
	})

	t.Run("invalid action dropped", func(t *testing.T) {
		sender := &captureSender{}
		NewActionBridge(sender).Dispatch("form", protocol.Action{})
		assert.Empty(t, sender.sent)
	})

	t.Run("nil bridge is a no-op", func(t *testing.T) {
		var bridge *ActionBridge
		bridge.Dispatch("form", protocol.Action{Event: &protocol.Event{Name: "x"}})
	})

	t.Run("nil sender is a no-op", func(t *testing.T) {
		NewActionBridge(nil).Dispatch("form", protocol.Action{Event: &protocol.Event{Name: "x"}})
	})
}

func TestParseAction(t *testing.T) {
	t.Run("event", func(t *testing.T) {
		action := ParseAction(map[string]any{
			"event": map[string]any{"name": "toggle", "context": map[string]any{"on": true}},
		})
		require.True(t, action.Valid())
		assert.Equal(t, "toggle", action.Event.Name)
		assert.Equal(t, true, action.Event.Context["on"])
	})

	t.Run("function call", func(t *testing.T) {
		action := ParseAction(map[string]any{
			"functionCall": map[string]any{"call": "lookup", "args": map[string]any{"q": "go"}},
		})
		require.True(t, action.Valid())
		assert.Equal(t, "lookup", action.FunctionCall.Call)
	})

	t.Run("malformed cells are invalid", func(t *testing.T) {
		assert.False(t, ParseAction(nil).Valid())
		assert.False(t, ParseAction("click").Valid())
		assert.False(t, ParseAction(map[string]any{"event": map[string]any{}}).Valid())
		assert.False(t, ParseAction(map[string]any{"functionCall": map[string]any{"args": map[string]any{}}}).Valid())
	})
}
