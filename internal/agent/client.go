// Package agent drives the conversation with the coding model. It owns the
// Gemini client, declares the render_ui tool, and translates streamed
// function calls into A2UI message lists for the session layer. It also
// carries the outbound leg: user actions fired on live surfaces are queued
// here and delivered to the model with the next request.
package agent

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"loom/internal/logging"
	"loom/internal/protocol"
)

const systemInstruction = `You are loom, a coding agent with a rich terminal UI.
Prefer plain markdown for explanations. When structured or interactive output
helps (plans, forms, progress, choices), call render_ui with A2UI messages.
Keep surfaces small; update an existing surfaceId instead of creating new ones.`

// Handler receives a turn's increments as they stream in. Calls arrive on
// the goroutine running Run; bubbletea callers forward them as messages.
type Handler interface {
	// Text delivers a chunk of assistant prose.
	Text(chunk string)
	// Surfaces delivers one decoded render_ui payload.
	Surfaces(msgs []protocol.Message)
}

// generator abstracts the streaming backend so tests can inject canned
// responses instead of the network.
type generator interface {
	stream(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) func(yield func(*genai.GenerateContentResponse, error) bool)
}

// Client is a stateful conversation with the model.
type Client struct {
	gen   generator
	model string

	mu      sync.Mutex
	history []*genai.Content
	pending []protocol.UserAction
}

// geminiGenerator is the real backend.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) stream(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) func(yield func(*genai.GenerateContentResponse, error) bool) {
	return g.client.Models.GenerateContentStream(ctx, g.model, contents, cfg)
}

// New connects a Client to the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required; set GEMINI_API_KEY or llm.api_key in config")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{gen: &geminiGenerator{client: gc, model: model}, model: model}, nil
}

// SendAction queues an outbound user action. Delivery is fire and forget:
// the action rides along with the next model request, there is no per-action
// acknowledgment.
func (c *Client) SendAction(ua protocol.UserAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, ua)
	logging.Agent("queued action %s for surface %s", describeAction(ua.Action), ua.SurfaceID)
}

// Run executes one turn: the user prompt (plus any queued actions) goes to
// the model, streamed text and render_ui payloads are handed to h as they
// arrive, and the assistant's full text is returned. Cancel ctx to abandon
// the turn; surface state already delivered stays valid.
func (c *Client) Run(ctx context.Context, prompt string, h Handler) (string, error) {
	contents := c.buildContents(prompt)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Tools: []*genai.Tool{
			{FunctionDeclarations: []*genai.FunctionDeclaration{renderUIDeclaration()}},
		},
	}

	type chunk struct {
		resp *genai.GenerateContentResponse
		err  error
	}
	chunks := make(chan chunk)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(chunks)
		for resp, err := range c.gen.stream(ctx, contents, cfg) {
			select {
			case chunks <- chunk{resp, err}:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err != nil {
				return nil
			}
		}
		return nil
	})

	var text string
	var streamErr error
	for ch := range chunks {
		if ch.err != nil {
			streamErr = fmt.Errorf("stream: %w", ch.err)
			break
		}
		for _, part := range parts(ch.resp) {
			if part.Text != "" {
				text += part.Text
				h.Text(part.Text)
			}
			if part.FunctionCall != nil && part.FunctionCall.Name == "render_ui" {
				msgs, err := decodeRenderUIArgs(part.FunctionCall.Args)
				if err != nil {
					// A garbled tool call renders nothing; the turn goes on.
					logging.Agent("dropping malformed render_ui call: %v", err)
					continue
				}
				h.Surfaces(msgs)
			}
		}
	}
	if err := g.Wait(); err != nil && streamErr == nil {
		streamErr = err
	}
	if streamErr != nil {
		return text, streamErr
	}

	c.mu.Lock()
	c.history = append(contents, genai.NewContentFromText(text, genai.RoleModel))
	c.mu.Unlock()
	return text, nil
}

// buildContents assembles the request: prior history, a synthetic user part
// per queued action, then the prompt. Queued actions drain even when the
// user typed nothing alongside them.
func (c *Client) buildContents(prompt string) []*genai.Content {
	c.mu.Lock()
	defer c.mu.Unlock()

	contents := make([]*genai.Content, len(c.history))
	copy(contents, c.history)
	for _, ua := range c.pending {
		if data, err := protocol.EncodeUserAction(ua); err == nil {
			contents = append(contents,
				genai.NewContentFromText("[ui action] "+string(data), genai.RoleUser))
		}
	}
	c.pending = nil
	if prompt != "" {
		contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
	}
	return contents
}

func parts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

func describeAction(a protocol.Action) string {
	switch {
	case a.Event != nil:
		return "event:" + a.Event.Name
	case a.FunctionCall != nil:
		return "call:" + a.FunctionCall.Call
	default:
		return "invalid"
	}
}

// PendingActions exposes the queue size for the status bar.
func (c *Client) PendingActions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
