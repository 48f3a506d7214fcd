package display

import (
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
	"github.com/starford/fieldkit/internal/session"
)

var fieldLabels = map[draft.FieldKey]string{
	draft.FieldName:         "组件名称",
	draft.FieldType:         "组件类型",
	draft.FieldTags:         "标签",
	draft.FieldDescription:  "描述",
	draft.FieldOptions:      "选项",
	draft.FieldPlaceholder:  "占位符文本",
	draft.FieldDefaultValue: "默认值",
}

// Endpoints the shell binds form controls to. Every input carries its own
// PUT endpoint in data-endpoint; the fragment itself never posts.
const (
	FieldEndpoint  = "/api/session/fields/"
	SubmitEndpoint = "/api/session/submit"
)

// SessionForm renders the editing form of v: only visible fields, required
// fields marked, field errors next to their input and the live preview.
func SessionForm(v session.View) Node {
	if v.Draft == nil {
		return Div(Class("session session-closed"), P(Text("没有正在编辑的组件")))
	}

	errs := make(map[string]string, len(v.FieldErrors))
	for _, fe := range v.FieldErrors {
		errs[fe.Field] = fe.Reason
	}

	fields := make([]Node, 0, len(v.VisibleFields))
	for _, key := range v.VisibleFields {
		fields = append(fields, formField(key, *v.Draft, v.RequiredFields.Has(key), errs[string(key)]))
	}

	var pv Node
	if v.Preview != nil {
		pv = Div(Class("session-preview"), Control(*v.Preview))
	}

	return Div(
		Class("session"),
		Data("state", string(v.State)),
		Data("mode", string(v.Mode)),
		If(v.Error != "", Div(Class("session-error"), Attr("role", "alert"), Text(v.Error))),
		Div(Class("stack-form"), Group(fields),
			Button(Type("button"), Class("session-submit"),
				Data("method", "POST"), Data("endpoint", SubmitEndpoint), Text("提交"))),
		pv,
	)
}

func formField(key draft.FieldKey, d draft.Draft, required bool, reason string) Node {
	id := "field-" + string(key)
	class := "form-field"
	if reason != "" {
		class += " has-error"
	}
	return Div(
		Class(class),
		Data("field", string(key)),
		Label(For(id), Text(fieldLabels[key]), If(required, Span(Class("required-mark"), Text("*")))),
		fieldInput(key, id, d, required, Data("method", "PUT"), Data("endpoint", FieldEndpoint+string(key))),
		If(reason != "", Span(Class("field-error"), Text(reason))),
	)
}

func fieldInput(key draft.FieldKey, id string, d draft.Draft, required bool, bind ...Node) Node {
	name := Group(append([]Node{Name(string(key))}, bind...))
	req := If(required, Required())
	switch key {
	case draft.FieldType:
		opts := []Node{Option(Value(""), Text("请选择组件类型"))}
		for _, e := range catalogue.Entries() {
			opts = append(opts, Option(Value(e.Name), If(e.Name == d.Type, Selected()), Text(e.Name)))
		}
		return Select(ID(id), name, req, Group(opts))
	case draft.FieldTags:
		return Input(ID(id), name, req, Type("text"), Value(strings.Join(d.Tags, ", ")))
	case draft.FieldDescription:
		return Textarea(ID(id), name, req, Text(d.Description))
	case draft.FieldOptions:
		return Input(ID(id), name, req, Type("text"), Placeholder("选项以逗号分隔"), Value(d.Options))
	}
	s, _ := d.Value(key).(string)
	return Input(ID(id), name, req, Type("text"), Value(s))
}
