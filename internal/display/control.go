// Package display renders previews and the editing form as HTML fragments.
package display

import (
	"fmt"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/starford/fieldkit/internal/preview"
)

// PreviewID is the element id of the previewed control.
const PreviewID = "field-preview"

// Control renders c as a labelled, interactive control.
func Control(c preview.Control) Node {
	return Div(
		Class("field-preview"),
		Data("widget", string(c.Widget)),
		Data("type", c.Type),
		Label(For(PreviewID), Text(c.Label)),
		widget(c),
	)
}

func init() {
	for _, w := range preview.Widgets {
		if widget(preview.Control{Widget: w}) == nil {
			panic(fmt.Sprintf("display: no markup for widget %q", w))
		}
	}
}

func widget(c preview.Control) Node {
	switch c.Widget {
	case preview.WidgetTextInput:
		typ := "text"
		switch {
		case c.Masked:
			typ = "password"
		case c.InputMode == preview.InputModeNumeric:
			typ = "number"
		}
		return Input(
			ID(PreviewID), Type(typ), Name("value"),
			If(c.Placeholder != "", Placeholder(c.Placeholder)),
			If(c.DefaultValue != "", Value(c.DefaultValue)),
			If(c.InputMode != "", Attr("inputmode", c.InputMode)),
		)
	case preview.WidgetTextArea:
		return Textarea(
			ID(PreviewID), Name("value"),
			If(c.Placeholder != "", Placeholder(c.Placeholder)),
			Text(c.DefaultValue),
		)
	case preview.WidgetSelect:
		opts := []Node{Option(Value(""), Disabled(), If(c.DefaultValue == "", Selected()), Text(c.Placeholder))}
		for _, ch := range c.Choices {
			opts = append(opts, Option(Value(ch.Value), If(ch.Value == c.DefaultValue, Selected()), Text(ch.Label)))
		}
		return Select(ID(PreviewID), Name("value"), Group(opts))
	case preview.WidgetCheckboxGroup:
		return choiceGroup(c, "checkbox", "group")
	case preview.WidgetRadioGroup:
		return choiceGroup(c, "radio", "radiogroup")
	case preview.WidgetDatePicker:
		typ := "date"
		if c.ShowTime {
			typ = "datetime-local"
		}
		return Input(ID(PreviewID), Type(typ), Name("value"))
	case preview.WidgetTimePicker:
		return Input(ID(PreviewID), Type("time"), Name("value"))
	case preview.WidgetToggle:
		return Input(ID(PreviewID), Type("checkbox"), Name("value"), Attr("role", "switch"))
	}
	return nil
}

func choiceGroup(c preview.Control, typ, role string) Node {
	items := make([]Node, 0, len(c.Choices))
	for _, ch := range c.Choices {
		items = append(items, Label(
			Class("choice"),
			Input(Type(typ), Name("value"), Value(ch.Value), If(ch.Value == c.DefaultValue, Checked())),
			Text(ch.Label),
		))
	}
	return Div(ID(PreviewID), Attr("role", role), Group(items))
}
