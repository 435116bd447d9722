package agent

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"loom/internal/protocol"
)

// renderUIDeclaration is the function tool the model calls to author or
// update UI surfaces. The argument is the A2UI message array; its items are
// deliberately loosely typed here because the engine tolerates malformed
// entries better than a schema rejection would.
func renderUIDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: "render_ui",
		Description: "Render or update interactive UI surfaces for the user. " +
			"Takes an ordered list of A2UI messages (createSurface, updateComponents, " +
			"updateDataModel, deleteSurface). Reusing a surfaceId replaces that surface.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"messages": {
					Type:        genai.TypeArray,
					Description: "Ordered A2UI protocol messages, one key per message.",
					Items:       &genai.Schema{Type: genai.TypeObject},
				},
			},
			Required: []string{"messages"},
		},
	}
}

// decodeRenderUIArgs extracts the message array from a render_ui function
// call. The args arrive as already-parsed JSON; round-tripping through
// encoding/json reuses the protocol package's envelope handling.
func decodeRenderUIArgs(args map[string]any) ([]protocol.Message, error) {
	raw, ok := args["messages"]
	if !ok {
		return nil, fmt.Errorf("render_ui call without messages argument")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encode render_ui args: %w", err)
	}
	return protocol.DecodeMessages(data)
}
