package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/a2ui"
	"loom/internal/history"
	"loom/internal/protocol"
)

func surfacePayload(t *testing.T, surfaceID, text string) []protocol.Message {
	t.Helper()
	msgs, err := protocol.DecodeMessages([]byte(`[
		{"createSurface": {"surfaceId": "` + surfaceID + `", "catalogId": "standard"}},
		{"updateComponents": {"surfaceId": "` + surfaceID + `", "components": [
			{"id": "root", "component": "Text", "text": "` + text + `"}
		]}}
	]`))
	require.NoError(t, err)
	return msgs
}

func TestTurnTouchedSet(t *testing.T) {
	s := New("test")
	turn := s.NewTurn()

	turn.ApplySurfaces(surfacePayload(t, "plan", "step 1"))
	turn.ApplySurfaces(surfacePayload(t, "status", "working"))
	turn.ApplySurfaces(surfacePayload(t, "plan", "step 2"))

	assert.Equal(t, []string{"plan", "status"}, turn.Touched())

	t.Run("turns are independent", func(t *testing.T) {
		other := s.NewTurn()
		assert.Empty(t, other.Touched())
	})

	t.Run("live surfaces are interactive until frozen", func(t *testing.T) {
		require.True(t, s.Registry.Get("plan").Interactive)
		turn.Freeze()
		assert.False(t, s.Registry.Get("plan").Interactive)
		assert.False(t, s.Registry.Get("status").Interactive)
	})
}

func TestRestoreDedupAcrossHistory(t *testing.T) {
	entries := []history.Entry{
		{ID: "e1", SessionID: "s", Seq: 0, Role: history.RoleUser, Content: "build it"},
		{ID: "e2", SessionID: "s", Seq: 1, Role: history.RoleSurface,
			Surfaces: []byte(`[
				{"updateComponents": {"surfaceId": "status", "components": [
					{"id": "root", "component": "Text", "text": "compiling"}
				]}}
			]`)},
		{ID: "e3", SessionID: "s", Seq: 2, Role: history.RoleSurface,
			Surfaces: []byte(`[
				{"updateComponents": {"surfaceId": "status", "components": [
					{"id": "root", "component": "Text", "text": "done"}
				]}}
			]`)},
	}
	s := Restore("s", "resumed", entries)

	require.Len(t, s.Transcript, 3)
	require.Len(t, s.Registry.SurfaceIDs(), 1)

	surf := s.Registry.Get("status")
	require.NotNil(t, surf)
	assert.Equal(t, "e3", surf.Revision)
	assert.Equal(t, "done", surf.State.Component("root").Prop("text"))
	assert.False(t, surf.Interactive, "restored surfaces must be frozen")
}

func TestRestoreToleratesCorruptPayload(t *testing.T) {
	entries := []history.Entry{
		{ID: "e1", Role: history.RoleSurface, Surfaces: []byte(`{not json`)},
		{ID: "e2", Role: history.RoleSurface, Surfaces: []byte(`[
			{"updateComponents": {"surfaceId": "ok", "components": [
				{"id": "root", "component": "Text", "text": "fine"}
			]}}
		]`)},
	}
	s := Restore("s", "", entries)
	assert.Len(t, s.Transcript, 2)
	assert.NotNil(t, s.Registry.Get("ok"))
}

func TestEvictRemovesOrphanedSurfaces(t *testing.T) {
	s := New("test")
	turn := s.NewTurn()
	first := turn.ApplySurfaces(surfacePayload(t, "scratch", "temp"))
	turn.ApplySurfaces(surfacePayload(t, "keep", "stays"))

	s.Evict(first.EntryID)

	assert.Nil(t, s.Registry.Get("scratch"))
	require.NotNil(t, s.Registry.Get("keep"))

	t.Run("later entry re-creating the surface survives", func(t *testing.T) {
		sess := New("test")
		tn := sess.NewTurn()
		old := tn.ApplySurfaces(surfacePayload(t, "plan", "v1"))
		tn.ApplySurfaces(surfacePayload(t, "plan", "v2"))
		sess.Evict(old.EntryID)
		surf := sess.Registry.Get("plan")
		require.NotNil(t, surf)
		assert.Equal(t, "v2", surf.State.Component("root").Prop("text"))
	})
}

// A frozen surface is rendered with no action bridge at all, so there is no
// path from a reconstructed transcript to the transport.
func TestFrozenSurfaceCannotDispatch(t *testing.T) {
	entries := []history.Entry{
		{ID: "e1", Role: history.RoleSurface, Surfaces: []byte(`[
			{"updateComponents": {"surfaceId": "form", "components": [
				{"id": "root", "component": "Button",
				 "label": "Send", "action": {"event": {"name": "send"}}}
			]}}
		]`)},
	}
	s := Restore("s", "", entries)
	surf := s.Registry.Get("form")
	require.NotNil(t, surf)
	require.False(t, surf.Interactive)

	// The renderer's contract: no bridge is constructed for a frozen
	// surface. Dispatching through the nil bridge must reach nothing.
	var bridge *a2ui.ActionBridge
	if surf.Interactive {
		t.Fatal("frozen surface reported interactive")
	}
	bridge.Dispatch(surf.SurfaceID, a2ui.ParseAction(surf.State.Component("root").Prop("action")))
}
