// Package preview turns a draft into an abstract description of the control
// an end user would fill in. Rendering is pure: same draft, same control.
package preview

import (
	"fmt"

	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
)

// Widget is the family of interactive control.
type Widget string

const (
	WidgetTextInput     Widget = "text-input"
	WidgetTextArea      Widget = "text-area"
	WidgetSelect        Widget = "select"
	WidgetCheckboxGroup Widget = "checkbox-group"
	WidgetRadioGroup    Widget = "radio-group"
	WidgetDatePicker    Widget = "date-picker"
	WidgetTimePicker    Widget = "time-picker"
	WidgetToggle        Widget = "toggle"
)

// Widgets lists every widget a Control can carry.
var Widgets = []Widget{
	WidgetTextInput, WidgetTextArea, WidgetSelect, WidgetCheckboxGroup,
	WidgetRadioGroup, WidgetDatePicker, WidgetTimePicker, WidgetToggle,
}

// Input modes of text-entry controls.
const (
	InputModeText    = "text"
	InputModeNumeric = "numeric"
)

// Choice is one selectable option. Label and Value are always equal.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Control describes the rendered control for a draft.
type Control struct {
	Widget       Widget         `json:"widget"`
	Kind         catalogue.Kind `json:"kind"`
	Type         string         `json:"type"`
	Label        string         `json:"label,omitempty"`
	Placeholder  string         `json:"placeholder,omitempty"`
	DefaultValue string         `json:"default_value,omitempty"`
	InputMode    string         `json:"input_mode,omitempty"`
	Masked       bool           `json:"masked,omitempty"`
	Multiple     bool           `json:"multiple,omitempty"`
	ShowTime     bool           `json:"show_time,omitempty"`
	Choices      []Choice       `json:"choices,omitempty"`
}

type builder func(d draft.Draft) Control

var builders = map[catalogue.Kind]builder{
	catalogue.KindSingleLineText: func(d draft.Draft) Control {
		return textControl(d, WidgetTextInput, InputModeText, false)
	},
	catalogue.KindMultiLineText: func(d draft.Draft) Control {
		return textControl(d, WidgetTextArea, InputModeText, false)
	},
	catalogue.KindNumber: func(d draft.Draft) Control {
		return textControl(d, WidgetTextInput, InputModeNumeric, false)
	},
	catalogue.KindMaskedText: func(d draft.Draft) Control {
		return textControl(d, WidgetTextInput, InputModeText, true)
	},
	catalogue.KindSingleSelect: func(d draft.Draft) Control {
		c := choiceControl(d, WidgetSelect)
		c.Placeholder = d.Placeholder
		return c
	},
	catalogue.KindMultiSelect: func(d draft.Draft) Control {
		c := choiceControl(d, WidgetCheckboxGroup)
		c.Multiple = true
		return c
	},
	catalogue.KindRadioGroup: func(d draft.Draft) Control {
		return choiceControl(d, WidgetRadioGroup)
	},
	catalogue.KindDate: func(d draft.Draft) Control {
		return Control{Widget: WidgetDatePicker}
	},
	catalogue.KindTime: func(d draft.Draft) Control {
		return Control{Widget: WidgetTimePicker}
	},
	catalogue.KindDateTime: func(d draft.Draft) Control {
		return Control{Widget: WidgetDatePicker, ShowTime: true}
	},
	catalogue.KindToggle: func(d draft.Draft) Control {
		return Control{Widget: WidgetToggle}
	},
}

// A catalogue kind without a builder would silently render nothing.
func init() {
	for _, k := range catalogue.Kinds {
		if _, ok := builders[k]; !ok {
			panic(fmt.Sprintf("preview: no builder for kind %q", k))
		}
	}
}

// Render returns the control for d, or false when the type is blank or not in
// the catalogue and there is nothing to preview.
func Render(d draft.Draft) (Control, bool) {
	entry, ok := catalogue.Lookup(d.Type)
	if !ok {
		return Control{}, false
	}
	c := builders[entry.Kind](d)
	c.Kind = entry.Kind
	c.Type = entry.Name
	c.Label = d.Name
	if c.DefaultValue == "" && !entry.Kind.IsChoice() {
		c.DefaultValue = d.DefaultValue
	}
	return c, true
}

func textControl(d draft.Draft, w Widget, mode string, masked bool) Control {
	return Control{
		Widget:      w,
		Placeholder: d.Placeholder,
		InputMode:   mode,
		Masked:      masked,
	}
}

// choiceControl ignores a default value that does not name one of the choices.
func choiceControl(d draft.Draft, w Widget) Control {
	tokens := catalogue.ParseChoices(d.Options)
	c := Control{Widget: w, Choices: make([]Choice, 0, len(tokens))}
	for _, t := range tokens {
		c.Choices = append(c.Choices, Choice{Label: t, Value: t})
		if t == d.DefaultValue {
			c.DefaultValue = t
		}
	}
	return c
}
