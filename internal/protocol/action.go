package protocol

import (
	"encoding/json"
	"fmt"
)

// Action is the one-of payload of a user interaction: either a named event
// with resolved context values, or a direct function call.
type Action struct {
	Event        *Event        `json:"event,omitempty"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
}

// Event is a named interaction (button press, selection change) with a
// context map of already-resolved scalars.
type Event struct {
	Name    string         `json:"name"`
	Context map[string]any `json:"context,omitempty"`
}

// FunctionCall asks the host to invoke a named function directly.
type FunctionCall struct {
	Call string         `json:"call"`
	Args map[string]any `json:"args,omitempty"`
}

// Valid reports whether exactly one variant is populated.
func (a Action) Valid() bool {
	return (a.Event != nil) != (a.FunctionCall != nil)
}

// UserAction is the outbound envelope: an action tagged with the surface it
// originated from.
type UserAction struct {
	SurfaceID string `json:"surfaceId"`
	Action    Action `json:"action"`
}

// EncodeUserAction serializes an outbound action for the transport.
func EncodeUserAction(ua UserAction) ([]byte, error) {
	if !ua.Action.Valid() {
		return nil, fmt.Errorf("user action for surface %q populates no variant", ua.SurfaceID)
	}
	data, err := json.Marshal(ua)
	if err != nil {
		return nil, fmt.Errorf("encode user action: %w", err)
	}
	return data, nil
}
