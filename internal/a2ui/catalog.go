// Package a2ui implements the client side of the A2UI protocol: it folds
// agent-authored surface messages into a live component tree with a
// path-addressed reactive data model, and turns user interaction back into
// outbound protocol actions.
//
// The protocol author is a language model, so every input is treated as
// potentially malformed. Nothing in this package panics or returns an error
// on bad input; the worst outcome is a surface that renders incompletely.
package a2ui

// ComponentType is the closed catalog of renderable component tags. The
// view layer dispatches with an exhaustive switch over this enum; a tag the
// catalog doesn't know maps to TypeUnknown and renders as nothing.
type ComponentType int

const (
	TypeUnknown ComponentType = iota
	TypeText
	TypeButton
	TypeCard
	TypeRow
	TypeColumn
	TypeList
	TypeTextField
	TypeCheckBox
	TypeImage
	TypeTabs
	TypeModal
	TypeSlider
	TypeIcon
	TypeDivider
	TypeDateTimeInput
	TypeMultipleChoice
)

var tagNames = map[ComponentType]string{
	TypeText:           "Text",
	TypeButton:         "Button",
	TypeCard:           "Card",
	TypeRow:            "Row",
	TypeColumn:         "Column",
	TypeList:           "List",
	TypeTextField:      "TextField",
	TypeCheckBox:       "CheckBox",
	TypeImage:          "Image",
	TypeTabs:           "Tabs",
	TypeModal:          "Modal",
	TypeSlider:         "Slider",
	TypeIcon:           "Icon",
	TypeDivider:        "Divider",
	TypeDateTimeInput:  "DateTimeInput",
	TypeMultipleChoice: "MultipleChoice",
}

var tagTypes = func() map[string]ComponentType {
	m := make(map[string]ComponentType, len(tagNames))
	for t, name := range tagNames {
		m[name] = t
	}
	return m
}()

// ParseComponentType maps a wire tag to its catalog type. Unrecognized tags
// return TypeUnknown.
func ParseComponentType(tag string) ComponentType {
	return tagTypes[tag]
}

func (t ComponentType) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown"
}
