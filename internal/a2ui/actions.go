package a2ui

import "loom/internal/protocol"

// ActionSender is the transport's side of the outbound channel. Delivery is
// best effort; the engine neither awaits acknowledgment nor retries.
type ActionSender interface {
	SendAction(action protocol.UserAction)
}

// ActionBridge turns a fired component action into an outbound protocol
// event tagged with its originating surface. Interactive views hold a
// bridge; views rendered from history hold none, so a frozen surface has no
// path to the transport at all.
type ActionBridge struct {
	sender ActionSender
}

// NewActionBridge wires a bridge to the transport.
func NewActionBridge(sender ActionSender) *ActionBridge {
	return &ActionBridge{sender: sender}
}

// Dispatch forwards the action and returns immediately. Invalid actions
// (zero or two variants populated) and a nil bridge are dropped silently —
// a malformed control is a rendering defect, never a crash.
func (b *ActionBridge) Dispatch(surfaceID string, action protocol.Action) {
	if b == nil || b.sender == nil || !action.Valid() {
		return
	}
	b.sender.SendAction(protocol.UserAction{SurfaceID: surfaceID, Action: action})
}

// ParseAction reads a component's "action" property into its protocol
// shape. Returns a zero Action (Valid() == false) when the cell is missing
// or malformed.
func ParseAction(cell any) protocol.Action {
	obj, ok := cell.(map[string]any)
	if !ok {
		return protocol.Action{}
	}
	if ev, ok := obj["event"].(map[string]any); ok {
		name, _ := ev["name"].(string)
		if name == "" {
			return protocol.Action{}
		}
		ctx, _ := ev["context"].(map[string]any)
		return protocol.Action{Event: &protocol.Event{Name: name, Context: ctx}}
	}
	if fc, ok := obj["functionCall"].(map[string]any); ok {
		call, _ := fc["call"].(string)
		if call == "" {
			return protocol.Action{}
		}
		args, _ := fc["args"].(map[string]any)
		return protocol.Action{FunctionCall: &protocol.FunctionCall{Call: call, Args: args}}
	}
	return protocol.Action{}
}
