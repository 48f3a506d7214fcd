package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
	"github.com/starford/fieldkit/internal/preview"
	"github.com/starford/fieldkit/internal/resolver"
	"github.com/starford/fieldkit/internal/session"

	"maragu.dev/gomponents"
)

func render(t *testing.T, n gomponents.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func renderDraft(t *testing.T, d draft.Draft) string {
	t.Helper()
	c, ok := preview.Render(d)
	require.True(t, ok)
	return render(t, Control(c))
}

func TestControlPerKind(t *testing.T) {
	cases := []struct {
		typ  string
		want []string
	}{
		{catalogue.TypeSingleLineText, []string{`type="text"`, `inputmode="text"`}},
		{catalogue.TypeMultiLineText, []string{"<textarea"}},
		{catalogue.TypeNumber, []string{`type="number"`, `inputmode="numeric"`}},
		{catalogue.TypePassword, []string{`type="password"`}},
		{catalogue.TypeSelect, []string{"<select", `<option value="a">a</option>`}},
		{catalogue.TypeCheckbox, []string{`type="checkbox"`, `role="group"`}},
		{catalogue.TypeRadio, []string{`type="radio"`, `role="radiogroup"`}},
		{catalogue.TypeDatePicker, []string{`type="date"`}},
		{catalogue.TypeTimePicker, []string{`type="time"`}},
		{catalogue.TypeDateTimePicker, []string{`type="datetime-local"`}},
		{catalogue.TypeSwitch, []string{`role="switch"`}},
	}
	require.Len(t, cases, len(catalogue.Entries()))

	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			out := renderDraft(t, draft.Draft{Name: "字段", Type: tc.typ, Options: "a,b"})
			assert.Contains(t, out, `<label for="field-preview">字段</label>`)
			for _, w := range tc.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestControlEscapesUserText(t *testing.T) {
	out := renderDraft(t, draft.Draft{Name: "<b>x</b>", Type: catalogue.TypeSingleLineText, Placeholder: `"q"`})
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")
}

func TestSelectPlaceholderAndDefault(t *testing.T) {
	out := renderDraft(t, draft.Draft{Type: catalogue.TypeSelect, Options: "北,南", Placeholder: "请选择", DefaultValue: "南"})
	assert.Contains(t, out, `>请选择</option>`)
	assert.Contains(t, out, `<option value="南" selected>南</option>`)
}

func TestSessionFormShowsVisibleFieldsOnly(t *testing.T) {
	d := draft.Draft{Name: "地区", Type: catalogue.TypeSwitch}
	res := resolver.Resolve(d)
	out := render(t, SessionForm(session.View{
		State:          session.StateEditing,
		Draft:          &d,
		VisibleFields:  res.Visible,
		RequiredFields: res.Required,
		FieldErrors:    []apperr.FieldError{{Field: "tags", Reason: apperr.ReasonRequired}},
	}))

	assert.Contains(t, out, `data-field="name"`)
	assert.NotContains(t, out, `data-field="options"`)
	assert.Contains(t, out, `<span class="field-error">required</span>`)
	assert.Contains(t, out, `<option value="开关" selected>开关</option>`)
	assert.Equal(t, 3, strings.Count(out, "required-mark"))
}

func TestSessionFormRevealsOptions(t *testing.T) {
	d := draft.Draft{Type: catalogue.TypeRadio, Options: "x,y"}
	res := resolver.Resolve(d)
	out := render(t, SessionForm(session.View{State: session.StateEditing, Draft: &d, VisibleFields: res.Visible, RequiredFields: res.Required}))
	assert.Contains(t, out, `data-field="options"`)
	assert.Equal(t, 4, strings.Count(out, "required-mark"))
}

func TestSessionFormClosed(t *testing.T) {
	out := render(t, SessionForm(session.View{State: session.StateClosed}))
	assert.Contains(t, out, "session-closed")
}

func TestNumberInputRejectsText(t *testing.T) {
	out := renderDraft(t, draft.Draft{Name: "n", Type: catalogue.TypeNumber})
	assert.Contains(t, out, `<input id="field-preview" type="number"`)
	assert.NotContains(t, out, `type="text"`)
}

func TestEveryWidgetHasMarkup(t *testing.T) {
	for _, w := range preview.Widgets {
		assert.NotNil(t, widget(preview.Control{Widget: w}), w)
	}
	assert.Nil(t, widget(preview.Control{Widget: "slider"}))
}

func TestSessionFormBindsFieldsToEndpoints(t *testing.T) {
	d := draft.Draft{Name: "地区", Type: catalogue.TypeSelect}
	res := resolver.Resolve(d)
	out := render(t, SessionForm(session.View{State: session.StateEditing, Draft: &d, VisibleFields: res.Visible, RequiredFields: res.Required}))

	assert.NotContains(t, out, "<form")
	assert.NotContains(t, out, "action=")
	for _, key := range res.Visible {
		assert.Contains(t, out, `data-method="PUT" data-endpoint="/api/session/fields/`+string(key)+`"`)
	}
	assert.Contains(t, out, `data-method="POST" data-endpoint="/api/session/submit"`)
	assert.Contains(t, out, `<button type="button"`)
}
