package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"

	"loom/internal/protocol"
)

func TestMain(m *testing.M) {
	// opencensus (pulled in by the genai client) starts this worker at
	// package init; it is global and cannot be stopped by tests.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fakeGenerator replays canned responses as a stream.
type fakeGenerator struct {
	responses []*genai.GenerateContentResponse
	err       error
	seen      [][]*genai.Content
}

func (f *fakeGenerator) stream(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) func(yield func(*genai.GenerateContentResponse, error) bool) {
	f.seen = append(f.seen, contents)
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, r := range f.responses {
			if !yield(r, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func renderUIResponse(args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{
				FunctionCall: &genai.FunctionCall{Name: "render_ui", Args: args},
			}}},
		}},
	}
}

type recordingHandler struct {
	text     string
	payloads [][]protocol.Message
}

func (r *recordingHandler) Text(chunk string) { r.text += chunk }

func (r *recordingHandler) Surfaces(msgs []protocol.Message) {
	r.payloads = append(r.payloads, msgs)
}

func TestRunStreamsTextAndSurfaces(t *testing.T) {
	fake := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		textResponse("Here is "),
		renderUIResponse(map[string]any{
			"messages": []any{
				map[string]any{"createSurface": map[string]any{"surfaceId": "plan", "catalogId": "standard"}},
				map[string]any{"updateComponents": map[string]any{
					"surfaceId":  "plan",
					"components": []any{map[string]any{"id": "root", "component": "Text", "text": "step 1"}},
				}},
			},
		}),
		textResponse("the plan."),
	}}
	c := &Client{gen: fake, model: "test"}
	h := &recordingHandler{}

	text, err := c.Run(context.Background(), "plan it", h)
	require.NoError(t, err)
	assert.Equal(t, "Here is the plan.", text)
	assert.Equal(t, "Here is the plan.", h.text)

	require.Len(t, h.payloads, 1)
	require.Len(t, h.payloads[0], 2)
	assert.Equal(t, protocol.KindCreateSurface, h.payloads[0][0].Kind())
	assert.Equal(t, "plan", h.payloads[0][0].SurfaceID())
}

func TestRunDropsMalformedToolCall(t *testing.T) {
	fake := &fakeGenerator{responses: []*genai.GenerateContentResponse{
		renderUIResponse(map[string]any{"wrong": "shape"}),
		textResponse("still talking"),
	}}
	c := &Client{gen: fake, model: "test"}
	h := &recordingHandler{}

	text, err := c.Run(context.Background(), "go", h)
	require.NoError(t, err)
	assert.Empty(t, h.payloads)
	assert.Equal(t, "still talking", text)
}

func TestRunStreamError(t *testing.T) {
	fake := &fakeGenerator{
		responses: []*genai.GenerateContentResponse{textResponse("partial")},
		err:       errors.New("quota exceeded"),
	}
	c := &Client{gen: fake, model: "test"}
	h := &recordingHandler{}

	text, err := c.Run(context.Background(), "go", h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	// Partial text still surfaced.
	assert.Equal(t, "partial", text)
}

func TestQueuedActionsRideNextRequest(t *testing.T) {
	fake := &fakeGenerator{responses: []*genai.GenerateContentResponse{textResponse("ok")}}
	c := &Client{gen: fake, model: "test"}

	c.SendAction(protocol.UserAction{
		SurfaceID: "form",
		Action:    protocol.Action{Event: &protocol.Event{Name: "submit"}},
	})
	require.Equal(t, 1, c.PendingActions())

	_, err := c.Run(context.Background(), "continue", &recordingHandler{})
	require.NoError(t, err)
	assert.Equal(t, 0, c.PendingActions())

	require.Len(t, fake.seen, 1)
	// One synthetic action content plus the prompt.
	require.Len(t, fake.seen[0], 2)
	found := false
	for _, content := range fake.seen[0] {
		for _, p := range content.Parts {
			if len(p.Text) > 0 && p.Text != "continue" {
				assert.Contains(t, p.Text, `"surfaceId":"form"`)
				found = true
			}
		}
	}
	assert.True(t, found, "queued action must appear in request contents")
}

func TestHistoryAccumulatesAcrossTurns(t *testing.T) {
	fake := &fakeGenerator{responses: []*genai.GenerateContentResponse{textResponse("first reply")}}
	c := &Client{gen: fake, model: "test"}

	_, err := c.Run(context.Background(), "first", &recordingHandler{})
	require.NoError(t, err)
	_, err = c.Run(context.Background(), "second", &recordingHandler{})
	require.NoError(t, err)

	require.Len(t, fake.seen, 2)
	// Second request carries: first prompt, first reply, second prompt.
	assert.Len(t, fake.seen[1], 3)
}
