package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
)

func TestNothingToPreview(t *testing.T) {
	_, ok := Render(draft.Draft{Name: "x"})
	assert.False(t, ok)

	_, ok = Render(draft.Draft{Name: "x", Type: "slider"})
	assert.False(t, ok)
}

func TestEveryCatalogueEntryRenders(t *testing.T) {
	for _, e := range catalogue.Entries() {
		c, ok := Render(draft.Draft{Type: e.Name})
		require.True(t, ok, e.Name)
		assert.Equal(t, e.Kind, c.Kind)
		assert.Equal(t, e.Name, c.Type)
		assert.NotEmpty(t, c.Widget)
	}
}

func TestTextVariants(t *testing.T) {
	c, _ := Render(draft.Draft{Type: catalogue.TypeNumber, Placeholder: "摄氏度"})
	assert.Equal(t, WidgetTextInput, c.Widget)
	assert.Equal(t, InputModeNumeric, c.InputMode)
	assert.Equal(t, "摄氏度", c.Placeholder)
	assert.False(t, c.Masked)

	c, _ = Render(draft.Draft{Type: catalogue.TypePassword})
	assert.True(t, c.Masked)
	assert.Equal(t, InputModeText, c.InputMode)

	c, _ = Render(draft.Draft{Type: catalogue.TypeMultiLineText, Placeholder: "描述"})
	assert.Equal(t, WidgetTextArea, c.Widget)
	assert.Equal(t, "描述", c.Placeholder)
}

func TestSelectParsesOptions(t *testing.T) {
	d := draft.Draft{Name: "地区", Type: catalogue.TypeSelect, Tags: []string{"选择"}, Options: "北, 南,, 东"}
	c, ok := Render(d)
	require.True(t, ok)

	assert.Equal(t, WidgetSelect, c.Widget)
	assert.Equal(t, "地区", c.Label)
	assert.Equal(t, []Choice{
		{Label: "北", Value: "北"},
		{Label: "南", Value: "南"},
		{Label: "东", Value: "东"},
	}, c.Choices)
}

func TestChoiceKindsWithNoOptionsRenderEmpty(t *testing.T) {
	for _, name := range []string{catalogue.TypeSelect, catalogue.TypeCheckbox, catalogue.TypeRadio} {
		c, ok := Render(draft.Draft{Type: name, Options: " , "})
		require.True(t, ok, name)
		assert.Empty(t, c.Choices, name)
	}
}

func TestCheckboxIsMultiple(t *testing.T) {
	c, _ := Render(draft.Draft{Type: catalogue.TypeCheckbox, Options: "a,b"})
	assert.Equal(t, WidgetCheckboxGroup, c.Widget)
	assert.True(t, c.Multiple)
	assert.Len(t, c.Choices, 2)
}

func TestPickers(t *testing.T) {
	c, _ := Render(draft.Draft{Type: catalogue.TypeDatePicker})
	assert.Equal(t, WidgetDatePicker, c.Widget)
	assert.False(t, c.ShowTime)

	c, _ = Render(draft.Draft{Type: catalogue.TypeDateTimePicker})
	assert.Equal(t, WidgetDatePicker, c.Widget)
	assert.True(t, c.ShowTime)

	c, _ = Render(draft.Draft{Type: catalogue.TypeTimePicker})
	assert.Equal(t, WidgetTimePicker, c.Widget)
}

func TestStrayOptionsIgnoredForNonChoiceTypes(t *testing.T) {
	with, _ := Render(draft.Draft{Type: catalogue.TypeSwitch, Options: "a,b"})
	without, _ := Render(draft.Draft{Type: catalogue.TypeSwitch})
	assert.Equal(t, without, with)
	assert.Empty(t, with.Choices)
}

func TestDefaultValue(t *testing.T) {
	c, _ := Render(draft.Draft{Type: catalogue.TypeSingleLineText, DefaultValue: "hi"})
	assert.Equal(t, "hi", c.DefaultValue)

	c, _ = Render(draft.Draft{Type: catalogue.TypeRadio, Options: "a,b", DefaultValue: "b"})
	assert.Equal(t, "b", c.DefaultValue)

	c, _ = Render(draft.Draft{Type: catalogue.TypeRadio, Options: "a,b", DefaultValue: "z"})
	assert.Empty(t, c.DefaultValue)
}

func TestRenderIsIdempotentAndPure(t *testing.T) {
	d := draft.Draft{Name: "地区", Type: catalogue.TypeRadio, Tags: []string{"t"}, Options: "a, b"}
	before := d

	first, ok1 := Render(d)
	second, ok2 := Render(d)

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, before, d)
}
