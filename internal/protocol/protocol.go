// Package protocol defines the A2UI wire shapes exchanged with the agent:
// the inbound surface-mutation messages carried by render_ui tool calls and
// the outbound user-action events. The package owns all JSON framing so the
// rendering engine never touches raw bytes.
package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageKind identifies which of the one-of keys a Message populates.
type MessageKind int

const (
	// KindInvalid marks an envelope with zero or multiple populated keys.
	// Invalid messages are carried through decoding and skipped by the
	// consumer; a malformed entry never aborts the rest of the array.
	KindInvalid MessageKind = iota
	KindCreateSurface
	KindUpdateComponents
	KindUpdateDataModel
	KindDeleteSurface
)

func (k MessageKind) String() string {
	switch k {
	case KindCreateSurface:
		return "createSurface"
	case KindUpdateComponents:
		return "updateComponents"
	case KindUpdateDataModel:
		return "updateDataModel"
	case KindDeleteSurface:
		return "deleteSurface"
	default:
		return "invalid"
	}
}

// Message is the inbound envelope. Exactly one field is populated on a
// well-formed message.
type Message struct {
	CreateSurface    *CreateSurface    `json:"createSurface,omitempty"`
	UpdateComponents *UpdateComponents `json:"updateComponents,omitempty"`
	UpdateDataModel  *UpdateDataModel  `json:"updateDataModel,omitempty"`
	DeleteSurface    *DeleteSurface    `json:"deleteSurface,omitempty"`
}

// Kind reports which one-of key is populated, or KindInvalid when the
// envelope has none or more than one.
func (m Message) Kind() MessageKind {
	kind := KindInvalid
	n := 0
	if m.CreateSurface != nil {
		kind = KindCreateSurface
		n++
	}
	if m.UpdateComponents != nil {
		kind = KindUpdateComponents
		n++
	}
	if m.UpdateDataModel != nil {
		kind = KindUpdateDataModel
		n++
	}
	if m.DeleteSurface != nil {
		kind = KindDeleteSurface
		n++
	}
	if n != 1 {
		return KindInvalid
	}
	return kind
}

// SurfaceID returns the surface the message targets, or "" for an invalid
// envelope.
func (m Message) SurfaceID() string {
	switch m.Kind() {
	case KindCreateSurface:
		return m.CreateSurface.SurfaceID
	case KindUpdateComponents:
		return m.UpdateComponents.SurfaceID
	case KindUpdateDataModel:
		return m.UpdateDataModel.SurfaceID
	case KindDeleteSurface:
		return m.DeleteSurface.SurfaceID
	default:
		return ""
	}
}

// CreateSurface announces a new surface and its catalog.
type CreateSurface struct {
	SurfaceID string         `json:"surfaceId"`
	CatalogID string         `json:"catalogId"`
	Theme     map[string]any `json:"theme,omitempty"`
}

// UpdateComponents upserts component definitions into a surface.
type UpdateComponents struct {
	SurfaceID  string      `json:"surfaceId"`
	Components []Component `json:"components"`
}

// UpdateDataModel writes a value into a surface's data model. An absent or
// "/" path means whole-document replacement.
type UpdateDataModel struct {
	SurfaceID string `json:"surfaceId"`
	Path      string `json:"path,omitempty"`
	Value     any    `json:"value"`
}

// DeleteSurface removes a surface entirely.
type DeleteSurface struct {
	SurfaceID string `json:"surfaceId"`
}

// Component is the wire form of a component definition: the two reserved
// keys "id" and "component" plus an open, untyped property bag. The bag
// keeps whatever shapes the model emitted; interpretation is deferred to
// the engine's resolvers.
type Component struct {
	ID         string
	Tag        string
	Properties map[string]any
}

// UnmarshalJSON splits the reserved keys from the property bag. Non-string
// id/component values are dropped rather than rejected.
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Properties = make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case "id":
			if s, ok := v.(string); ok {
				c.ID = s
			}
		case "component":
			if s, ok := v.(string); ok {
				c.Tag = s
			}
		default:
			c.Properties[k] = v
		}
	}
	return nil
}

// MarshalJSON reassembles the wire form.
func (c Component) MarshalJSON() ([]byte, error) {
	raw := make(map[string]any, len(c.Properties)+2)
	for k, v := range c.Properties {
		raw[k] = v
	}
	raw["id"] = c.ID
	raw["component"] = c.Tag
	return json.Marshal(raw)
}

// DecodeMessages parses a JSON array of inbound envelopes. The error covers
// malformed JSON only; structurally odd envelopes decode to KindInvalid and
// are left for the consumer to skip.
func DecodeMessages(data []byte) ([]Message, error) {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode a2ui messages: %w", err)
	}
	return msgs, nil
}

// EncodeMessages serializes a message list, used when persisting a turn's
// surface payloads to history.
func EncodeMessages(msgs []Message) ([]byte, error) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode a2ui messages: %w", err)
	}
	return data, nil
}
