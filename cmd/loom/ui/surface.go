package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"loom/internal/a2ui"
	"loom/internal/protocol"
)

// maxDepth bounds tree recursion; the root heuristic can hand us a cyclic
// graph and the renderer must not follow it forever.
const maxDepth = 32

// Control is an actionable component found while rendering an interactive
// surface. The chat model cycles focus through these and fires the action
// of the focused one through its ActionBridge.
type Control struct {
	ComponentID string
	Label       string
	Action      protocol.Action
}

// View is a rendered surface: the text block and, for interactive surfaces
// only, the controls in render order. Frozen surfaces always have nil
// Controls — there is nothing to wire a dispatcher to.
type View struct {
	Body     string
	Controls []Control
}

type renderer struct {
	surf     *a2ui.Surface
	styles   Styles
	width    int
	focus    int
	controls []Control
}

// Render draws a surface. focus is the index (into the returned Controls)
// of the highlighted control; pass -1 for none. A surface with no root
// renders empty.
func Render(surf *a2ui.Surface, styles Styles, width int, focus int) View {
	if surf == nil || surf.State == nil || surf.State.RootID == "" {
		return View{}
	}
	r := &renderer{surf: surf, styles: styles, width: width, focus: focus}
	body := r.component(surf.State.RootID, "/", 0)
	if body == "" {
		return View{}
	}
	frame := styles.Surface
	if !surf.Interactive {
		frame = styles.FrozenSurface
	}
	view := View{Body: frame.MaxWidth(width).Render(body)}
	if surf.Interactive {
		view.Controls = r.controls
	}
	return view
}

func (r *renderer) component(id, basePath string, depth int) string {
	if depth > maxDepth {
		return ""
	}
	def := r.surf.State.Component(id)
	if def == nil {
		return ""
	}
	store := r.surf.State.Store

	switch def.Type {
	case a2ui.TypeText:
		return r.text(def, store, basePath)
	case a2ui.TypeButton:
		return r.button(def, store, basePath)
	case a2ui.TypeCard:
		inner := r.children(def, basePath, depth, "\n")
		if inner == "" {
			return ""
		}
		return r.styles.Card.Render(inner)
	case a2ui.TypeRow:
		return r.row(def, basePath, depth)
	case a2ui.TypeColumn, a2ui.TypeModal:
		return r.children(def, basePath, depth, "\n")
	case a2ui.TypeList:
		return r.list(def, basePath, depth)
	case a2ui.TypeTextField:
		return r.textField(def, store, basePath)
	case a2ui.TypeCheckBox:
		return r.checkBox(def, store, basePath)
	case a2ui.TypeImage:
		alt := a2ui.ResolveString(def.Prop("alt"), store, basePath)
		if alt == "" {
			alt = a2ui.ResolveString(def.Prop("url"), store, basePath)
		}
		return r.styles.Muted.Render("[image: " + alt + "]")
	case a2ui.TypeTabs:
		return r.tabs(def, basePath, depth)
	case a2ui.TypeSlider:
		return r.slider(def, store, basePath)
	case a2ui.TypeIcon:
		return r.styles.Muted.Render(a2ui.ResolveString(def.Prop("name"), store, basePath))
	case a2ui.TypeDivider:
		return r.styles.Divider.Render(strings.Repeat("─", max(1, r.width-4)))
	case a2ui.TypeDateTimeInput:
		return r.textField(def, store, basePath)
	case a2ui.TypeMultipleChoice:
		return r.multipleChoice(def, store, basePath)
	case a2ui.TypeUnknown:
		// Unrecognized tag: render nothing, by contract.
		return ""
	}
	return ""
}

func (r *renderer) children(def *a2ui.ComponentDefinition, basePath string, depth int, sep string) string {
	var parts []string
	for _, ref := range a2ui.ResolveChildren(def, r.surf.State.Store, basePath) {
		if rendered := r.component(ref.ID, ref.BasePath, depth+1); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, sep)
}

func (r *renderer) row(def *a2ui.ComponentDefinition, basePath string, depth int) string {
	var parts []string
	for _, ref := range a2ui.ResolveChildren(def, r.surf.State.Store, basePath) {
		if rendered := r.component(ref.ID, ref.BasePath, depth+1); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, interleave(parts, "  ")...)
}

func (r *renderer) list(def *a2ui.ComponentDefinition, basePath string, depth int) string {
	var lines []string
	for _, ref := range a2ui.ResolveChildren(def, r.surf.State.Store, basePath) {
		if rendered := r.component(ref.ID, ref.BasePath, depth+1); rendered != "" {
			lines = append(lines, "• "+rendered)
		}
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) text(def *a2ui.ComponentDefinition, store *a2ui.ReactiveStore, basePath string) string {
	content := a2ui.ResolveString(def.Prop("text"), store, basePath)
	if content == "" {
		return ""
	}
	style := r.styles.Text
	switch a2ui.ResolveString(def.Prop("variant"), store, basePath) {
	case "heading", "title":
		style = r.styles.Heading
	case "caption", "muted":
		style = r.styles.Muted
	}
	return style.Render(content)
}

func (r *renderer) button(def *a2ui.ComponentDefinition, store *a2ui.ReactiveStore, basePath string) string {
	label := a2ui.ResolveString(def.Prop("label"), store, basePath)
	if label == "" {
		label = a2ui.ResolveString(def.Prop("text"), store, basePath)
	}
	if label == "" {
		return ""
	}
	if !r.surf.Interactive {
		return r.styles.ButtonFrozen.Render(label)
	}
	idx := r.register(def, label, store, basePath)
	if idx == r.focus {
		return r.styles.ButtonFocus.Render(label)
	}
	return r.styles.Button.Render(label)
}

func (r *renderer) textField(def *a2ui.ComponentDefinition, store *a2ui.ReactiveStore, basePath string) string {
	label := a2ui.ResolveString(def.Prop("label"), store, basePath)
	value := a2ui.ResolveString(def.Prop("text"), store, basePath)
	if value == "" {
		value = a2ui.ResolveString(def.Prop("value"), store, basePath)
	}
	body := value
	if body == "" {
		body = r.styles.Muted.Render(a2ui.ResolveString(def.Prop("placeholder"), store, basePath))
	}
	field := r.styles.Field.Render(body)
	if label == "" {
		return field
	}
	return r.styles.Muted.Render(label) + "\n" + field
}

func (r *renderer) checkBox(def *a2ui.ComponentDefinition, store *a2ui.ReactiveStore, basePath string) string {
	mark := "☐"
	if a2ui.ResolveBool(def.Prop("value"), store, basePath) {
		mark = "☑"
	}
	label := a2ui.ResolveString(def.Prop("label"), store, basePath)
	return r.styles.Text.Render(mark + " " + label)
}

func (r *renderer) tabs(def *a2ui.ComponentDefinition, basePath string, depth int) string {
	refs := a2ui.ResolveChildren(def, r.surf.State.Store, basePath)
	if len(refs) == 0 {
		return ""
	}
	// All tab children render stacked; a richer tab strip needs per-tab
	// titles the protocol doesn't reliably provide.
	var parts []string
	for _, ref := range refs {
		if rendered := r.component(ref.ID, ref.BasePath, depth+1); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n")
}

func (r *renderer) slider(def *a2ui.ComponentDefinition, store *a2ui.ReactiveStore, basePath string) string {
	value := a2ui.ResolveNumber(def.Prop("value"), store, basePath)
	maxVal := a2ui.ResolveNumber(def.Prop("max"), store, basePath)
	if maxVal <= 0 {
		maxVal = 100
	}
	const track = 20
	filled := int(value / maxVal * track)
	if filled < 0 {
		filled = 0
	}
	if filled > track {
		filled = track
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", track-filled)
	return r.styles.Text.Render(bar)
}

func (r *renderer) multipleChoice(def *a2ui.ComponentDefinition, store *a2ui.ReactiveStore, basePath string) string {
	options, ok := def.Prop("options").([]any)
	if !ok {
		return ""
	}
	selected := a2ui.ResolveString(def.Prop("value"), store, basePath)
	var lines []string
	for _, opt := range options {
		var label string
		switch o := opt.(type) {
		case string:
			label = o
		case map[string]any:
			label = a2ui.ResolveString(o["label"], store, basePath)
		}
		if label == "" {
			continue
		}
		mark := "○"
		if label == selected {
			mark = "●"
		}
		lines = append(lines, mark+" "+label)
	}
	return r.styles.Text.Render(strings.Join(lines, "\n"))
}

// register records an actionable control and returns its focus index.
func (r *renderer) register(def *a2ui.ComponentDefinition, label string, store *a2ui.ReactiveStore, basePath string) int {
	action := a2ui.ParseAction(def.Prop("action"))
	r.controls = append(r.controls, Control{
		ComponentID: def.ID,
		Label:       label,
		Action:      resolveContext(action, store, basePath),
	})
	return len(r.controls) - 1
}

// resolveContext materializes bound context values at render scope so the
// dispatched event carries plain scalars.
func resolveContext(action protocol.Action, store *a2ui.ReactiveStore, basePath string) protocol.Action {
	if action.Event == nil || action.Event.Context == nil {
		return action
	}
	resolved := make(map[string]any, len(action.Event.Context))
	for k, v := range action.Event.Context {
		if cell, ok := v.(map[string]any); ok {
			if path, ok := cell["path"].(string); ok {
				resolved[k] = store.Get(a2ui.ResolvePath(path, basePath))
				continue
			}
		}
		resolved[k] = v
	}
	return protocol.Action{Event: &protocol.Event{Name: action.Event.Name, Context: resolved}}
}

func interleave(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2-1)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
