// Interactive chat interface using bubbletea. The transcript interleaves
// markdown messages with rendered A2UI surfaces; tab cycles focus through
// the live surfaces' controls and enter fires the focused one.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"loom/cmd/loom/ui"
	"loom/internal/a2ui"
	"loom/internal/agent"
	"loom/internal/config"
	"loom/internal/history"
	"loom/internal/logging"
	"loom/internal/protocol"
	"loom/internal/session"
)

// Agent events delivered into the update loop.
type (
	agentTextMsg     struct{ chunk string }
	agentSurfacesMsg struct{ msgs []protocol.Message }
	agentDoneMsg     struct {
		text string
		err  error
	}
	configReloadedMsg struct{ cfg *config.Config }
)

// focusable is one actionable control with the surface it belongs to.
type focusable struct {
	surfaceID string
	ctrl      ui.Control
}

type chatModel struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	cfg    *config.Config
	client *agent.Client
	sess   *session.Session
	store  *history.Store // nil when persistence is disabled

	turn      *session.Turn
	bridge    *a2ui.ActionBridge
	events    chan tea.Msg
	isLoading bool
	err       error

	focusables []focusable
	focus      int // index into focusables, -1 = input

	width  int
	height int
	ready  bool
}

func newChatModel(cfg *config.Config, client *agent.Client, sess *session.Session, store *history.Store) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask the agent anything..."
	ti.Focus()
	ti.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		textinput: ti,
		spinner:   sp,
		styles:    ui.DefaultStyles(cfg.UI.Theme),
		cfg:       cfg,
		client:    client,
		sess:      sess,
		store:     store,
		bridge:    a2ui.NewActionBridge(client),
		events:    make(chan tea.Msg, 16),
		focus:     -1,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// waitForEvent pumps one agent event into the update loop.
func (m chatModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.renderer = newMarkdownRenderer(m.cfg.UI.Theme, msg.Width-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
			m.renderer = newMarkdownRenderer(m.cfg.UI.Theme, msg.Width-4)
		}
		m.refreshTranscript()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			if len(m.focusables) > 0 {
				m.focus++
				if m.focus >= len(m.focusables) {
					m.focus = -1
				}
				m.refreshTranscript()
			}

		case "ctrl+y":
			if text := m.lastAssistantText(); text != "" {
				// Best effort; headless terminals have no clipboard.
				_ = clipboard.WriteAll(text)
			}

		case "enter":
			if m.focus >= 0 && m.focus < len(m.focusables) {
				return m.fireControl(m.focusables[m.focus])
			}
			if !m.isLoading && strings.TrimSpace(m.textinput.Value()) != "" {
				return m.submitPrompt(strings.TrimSpace(m.textinput.Value()))
			}
		}

	case agentTextMsg:
		m.refreshTranscript()
		cmds = append(cmds, m.waitForEvent())

	case agentSurfacesMsg:
		if m.turn != nil {
			item := m.turn.ApplySurfaces(msg.msgs)
			m.persistSurfaceItem(item)
		}
		m.refreshTranscript()
		cmds = append(cmds, m.waitForEvent())

	case agentDoneMsg:
		m.isLoading = false
		m.err = msg.err
		if msg.text != "" {
			item := m.sess.AddMessage(history.RoleAssistant, msg.text)
			m.persistTextItem(item)
		}
		m.refreshTranscript()
		cmds = append(cmds, m.waitForEvent())

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.styles = ui.DefaultStyles(msg.cfg.UI.Theme)
		if m.ready {
			m.renderer = newMarkdownRenderer(msg.cfg.UI.Theme, m.width-4)
		}
		m.refreshTranscript()
		cmds = append(cmds, m.waitForEvent())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submitPrompt starts a new agent turn. Surfaces of the previous turn
// freeze: only the currently-streaming turn's surfaces stay interactive.
func (m chatModel) submitPrompt(prompt string) (tea.Model, tea.Cmd) {
	if m.turn != nil {
		m.turn.Freeze()
	}
	m.turn = m.sess.NewTurn()
	m.focus = -1
	m.isLoading = true
	m.err = nil
	m.textinput.SetValue("")

	if prompt != "" {
		item := m.sess.AddMessage(history.RoleUser, prompt)
		m.persistTextItem(item)
	}
	m.refreshTranscript()

	events := m.events
	client := m.client
	go func() {
		text, err := client.Run(context.Background(), prompt, eventHandler{events})
		events <- agentDoneMsg{text: text, err: err}
	}()
	return m, tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// fireControl dispatches the focused control's action and runs a follow-up
// turn so the model can react to it.
func (m chatModel) fireControl(f focusable) (tea.Model, tea.Cmd) {
	surf := m.sess.Registry.Get(f.surfaceID)
	if surf == nil || !surf.Interactive || m.isLoading {
		return m, nil
	}
	m.bridge.Dispatch(f.surfaceID, f.ctrl.Action)
	logging.UI("fired %s on surface %s", f.ctrl.ComponentID, f.surfaceID)
	return m.submitPrompt("")
}

// eventHandler adapts agent callbacks onto the event channel.
type eventHandler struct {
	events chan tea.Msg
}

func (h eventHandler) Text(chunk string) {
	h.events <- agentTextMsg{chunk: chunk}
}

func (h eventHandler) Surfaces(msgs []protocol.Message) {
	h.events <- agentSurfacesMsg{msgs: msgs}
}

// refreshTranscript re-renders the whole conversation into the viewport.
// Wholesale re-render keeps surface rendering trivially consistent with the
// registry; transcripts are short enough that this never matters.
func (m *chatModel) refreshTranscript() {
	if !m.ready {
		return
	}
	m.focusables = nil
	var blocks []string
	controlIdx := 0
	for _, item := range m.sess.Transcript {
		switch item.Role {
		case history.RoleUser:
			blocks = append(blocks, m.styles.Heading.Render("you")+"\n"+item.Content)
		case history.RoleAssistant:
			blocks = append(blocks, m.styles.Muted.Render("loom")+"\n"+m.markdown(item.Content))
		case history.RoleSurface:
			blocks = append(blocks, m.renderSurfaceItem(item, &controlIdx)...)
		}
	}
	if m.isLoading {
		blocks = append(blocks, m.spinner.View()+" thinking...")
	}
	if m.err != nil {
		blocks = append(blocks, m.styles.Muted.Render("error: "+m.err.Error()))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	m.viewport.GotoBottom()
}

// renderSurfaceItem draws the surfaces a transcript entry owns. An entry
// superseded by a later one for the same surface id draws nothing: the
// registry only carries the latest revision.
func (m *chatModel) renderSurfaceItem(item session.Item, controlIdx *int) []string {
	var blocks []string
	seen := map[string]bool{}
	for _, msg := range item.Msgs {
		id := msg.SurfaceID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		surf := m.sess.Registry.Get(id)
		if surf == nil || surf.Revision != item.EntryID {
			continue
		}
		width := m.cfg.UI.SurfaceWidth
		if width <= 0 || width > m.width-2 {
			width = m.width - 2
		}
		localFocus := -1
		if m.focus >= 0 {
			localFocus = m.focus - *controlIdx
		}
		view := ui.Render(surf, m.styles, width, localFocus)
		if view.Body == "" {
			continue
		}
		blocks = append(blocks, view.Body)
		for _, ctrl := range view.Controls {
			m.focusables = append(m.focusables, focusable{surfaceID: id, ctrl: ctrl})
		}
		*controlIdx += len(view.Controls)
	}
	return blocks
}

func (m *chatModel) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m chatModel) lastAssistantText() string {
	for i := len(m.sess.Transcript) - 1; i >= 0; i-- {
		if m.sess.Transcript[i].Role == history.RoleAssistant {
			return m.sess.Transcript[i].Content
		}
	}
	return ""
}

func (m chatModel) persistTextItem(item session.Item) {
	if m.store == nil {
		return
	}
	err := m.store.Append(history.Entry{
		ID:        item.EntryID,
		SessionID: m.sess.ID,
		Role:      item.Role,
		Content:   item.Content,
	})
	if err != nil {
		logging.Get(logging.CategoryHistory).Error("append entry: %v", err)
	}
}

func (m chatModel) persistSurfaceItem(item session.Item) {
	if m.store == nil {
		return
	}
	data, err := protocol.EncodeMessages(item.Msgs)
	if err != nil {
		logging.Get(logging.CategoryHistory).Error("encode surfaces: %v", err)
		return
	}
	err = m.store.Append(history.Entry{
		ID:        item.EntryID,
		SessionID: m.sess.ID,
		Role:      history.RoleSurface,
		Surfaces:  data,
	})
	if err != nil {
		logging.Get(logging.CategoryHistory).Error("append surface entry: %v", err)
	}
}

func (m chatModel) View() string {
	if !m.ready {
		return "starting loom..."
	}
	status := m.styles.Muted.Render(fmt.Sprintf(" %s · %d surfaces · tab cycles controls · ctrl+c quits",
		m.sess.ID[:8], len(m.sess.Registry.SurfaceIDs())))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.textinput.View(),
		status,
	)
}

func newMarkdownRenderer(theme string, width int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	switch theme {
	case "light":
		style = glamour.WithStandardStyle("light")
	case "notty":
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

// runInteractiveChat wires the pieces together and hands the terminal to
// bubbletea.
func runInteractiveChat(cfg *config.Config, resume string) error {
	ctx := context.Background()

	client, err := agent.New(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return err
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.DatabasePath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
	}

	var sess *session.Session
	if resume != "" && store != nil {
		entries, err := store.LoadSession(resume)
		if err != nil {
			return fmt.Errorf("load session %s: %w", resume, err)
		}
		sess = session.Restore(resume, "", entries)
		logging.Session("resumed session %s with %d entries", resume, len(entries))
	} else {
		sess = session.New("chat " + uuid.NewString()[:8])
		if store != nil {
			if err := store.CreateSession(sess.ID, sess.Title); err != nil {
				return err
			}
		}
		logging.Session("started session %s", sess.ID)
	}

	model := newChatModel(cfg, client, sess, store)

	// Theme hot-swap: config edits land as events in the update loop.
	watcher, err := config.NewWatcher(config.DefaultPath(), func(fresh *config.Config) {
		model.events <- configReloadedMsg{cfg: fresh}
	})
	if err == nil {
		if err := watcher.Start(); err == nil {
			defer watcher.Stop()
		}
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)
	_, err = p.Run()
	return err
}
