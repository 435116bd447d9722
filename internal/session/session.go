// Package session holds the live state of one conversation: the transcript,
// the surface registry built from it, and the per-turn bookkeeping of which
// surfaces an agent turn touched.
package session

import (
	"time"

	"github.com/google/uuid"

	"loom/internal/a2ui"
	"loom/internal/history"
	"loom/internal/protocol"
)

// Item is one transcript entry held in memory. Msgs is non-nil only for
// surface entries.
type Item struct {
	EntryID   string
	Role      history.Role
	Content   string
	Msgs      []protocol.Message
	CreatedAt time.Time
}

// Session is the aggregate for one conversation.
type Session struct {
	ID         string
	Title      string
	Transcript []Item
	Registry   *a2ui.Registry
}

// New starts an empty session.
func New(title string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Title:    title,
		Registry: a2ui.NewRegistry(),
	}
}

// AddMessage appends a plain user or assistant message.
func (s *Session) AddMessage(role history.Role, content string) Item {
	item := Item{EntryID: uuid.NewString(), Role: role, Content: content, CreatedAt: time.Now()}
	s.Transcript = append(s.Transcript, item)
	return item
}

// Evict drops a transcript entry and rebuilds the registry from what
// remains. A surface introduced by the evicted entry disappears unless a
// later entry re-created it; replay order makes that fall out naturally.
func (s *Session) Evict(entryID string) {
	kept := s.Transcript[:0]
	for _, item := range s.Transcript {
		if item.EntryID != entryID {
			kept = append(kept, item)
		}
	}
	s.Transcript = kept
	s.rebuild(false)
}

// rebuild replays the in-memory transcript into a fresh registry.
func (s *Session) rebuild(interactive bool) {
	s.Registry = a2ui.NewRegistry()
	for _, item := range s.Transcript {
		if item.Msgs != nil {
			s.Registry.Apply(item.EntryID, item.Msgs, interactive)
		}
	}
}

// Restore rebuilds a session from persisted history. Entries are walked
// oldest-first and each surface payload is applied in turn, so a surface id
// that recurs across the transcript keeps only its latest occurrence —
// earlier ones are superseded outright, never merged. Restored surfaces are
// never interactive: their turns are long over.
func Restore(id, title string, entries []history.Entry) *Session {
	s := &Session{ID: id, Title: title, Registry: a2ui.NewRegistry()}
	for _, e := range entries {
		item := Item{EntryID: e.ID, Role: e.Role, Content: e.Content, CreatedAt: e.CreatedAt}
		if e.Role == history.RoleSurface && len(e.Surfaces) > 0 {
			msgs, err := protocol.DecodeMessages(e.Surfaces)
			if err == nil {
				item.Msgs = msgs
				s.Registry.Apply(e.ID, msgs, false)
			}
			// A payload that fails to decode renders as a plain entry.
		}
		s.Transcript = append(s.Transcript, item)
	}
	return s
}

// Turn tracks one in-flight agent turn. It owns the set of surface ids the
// turn has touched — state that is passed into the tool executor explicitly
// instead of living in a package global, so concurrent sessions can never
// see each other's surfaces.
type Turn struct {
	session *Session
	touched map[string]struct{}
	order   []string
}

// NewTurn opens a turn against the session.
func (s *Session) NewTurn() *Turn {
	return &Turn{session: s, touched: make(map[string]struct{})}
}

// ApplySurfaces folds one render_ui payload into the session: the payload
// becomes a transcript entry, its messages are applied to the registry as
// live (interactive) surfaces, and the touched set is updated.
func (t *Turn) ApplySurfaces(msgs []protocol.Message) Item {
	item := Item{EntryID: uuid.NewString(), Role: history.RoleSurface, Msgs: msgs, CreatedAt: time.Now()}
	t.session.Transcript = append(t.session.Transcript, item)
	for _, id := range t.session.Registry.Apply(item.EntryID, msgs, true) {
		if _, seen := t.touched[id]; !seen {
			t.touched[id] = struct{}{}
			t.order = append(t.order, id)
		}
	}
	return item
}

// Touched lists the surface ids this turn wrote, in first-touch order.
func (t *Turn) Touched() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Freeze marks every surface this turn touched as no longer interactive,
// called when the turn ends or is abandoned. Frozen surfaces keep rendering
// but their controls are disabled and never wire an action bridge.
func (t *Turn) Freeze() {
	for _, id := range t.order {
		if surf := t.session.Registry.Get(id); surf != nil {
			surf.Interactive = false
		}
	}
}
