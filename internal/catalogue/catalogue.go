// Package catalogue holds the closed table of field types the console
// understands. The table is built once at package init and never changes.
package catalogue

import "strings"

// Kind selects the control that represents a field type.
type Kind string

const (
	KindSingleLineText Kind = "single-line-text"
	KindMultiLineText  Kind = "multi-line-text"
	KindNumber         Kind = "number"
	KindMaskedText     Kind = "masked-text"
	KindSingleSelect   Kind = "single-select"
	KindMultiSelect    Kind = "multi-select"
	KindRadioGroup     Kind = "radio-group"
	KindDate           Kind = "date"
	KindTime           Kind = "time"
	KindDateTime       Kind = "datetime"
	KindToggle         Kind = "boolean-toggle"
)

// Kinds lists every control kind.
var Kinds = []Kind{
	KindSingleLineText, KindMultiLineText, KindNumber, KindMaskedText,
	KindSingleSelect, KindMultiSelect, KindRadioGroup,
	KindDate, KindTime, KindDateTime, KindToggle,
}

// Type names as shown to console users.
const (
	TypeSingleLineText = "单行文本"
	TypeMultiLineText  = "多行文本"
	TypeNumber         = "数字"
	TypePassword       = "密码"
	TypeSelect         = "下拉选择框"
	TypeCheckbox       = "复选框"
	TypeRadio          = "单选按钮"
	TypeDatePicker     = "日期选择器"
	TypeTimePicker     = "时间选择器"
	TypeDateTimePicker = "日期时间选择器"
	TypeSwitch         = "开关"
)

// Entry describes one supported field type.
type Entry struct {
	Name            string `json:"name"`
	Kind            Kind   `json:"kind"`
	RequiresOptions bool   `json:"requires_options"`
}

var (
	entries = []Entry{
		{Name: TypeSingleLineText, Kind: KindSingleLineText},
		{Name: TypeMultiLineText, Kind: KindMultiLineText},
		{Name: TypeNumber, Kind: KindNumber},
		{Name: TypePassword, Kind: KindMaskedText},
		{Name: TypeSelect, Kind: KindSingleSelect, RequiresOptions: true},
		{Name: TypeCheckbox, Kind: KindMultiSelect, RequiresOptions: true},
		{Name: TypeRadio, Kind: KindRadioGroup, RequiresOptions: true},
		{Name: TypeDatePicker, Kind: KindDate},
		{Name: TypeTimePicker, Kind: KindTime},
		{Name: TypeDateTimePicker, Kind: KindDateTime},
		{Name: TypeSwitch, Kind: KindToggle},
	}
	byName = make(map[string]Entry, len(entries))
)

func init() {
	for _, e := range entries {
		if _, dup := byName[e.Name]; dup {
			panic("catalogue: duplicate type " + e.Name)
		}
		byName[e.Name] = e
	}
}

// Lookup returns the entry for typeName. ok is false for blank or unknown names.
func Lookup(typeName string) (Entry, bool) {
	e, ok := byName[typeName]
	return e, ok
}

// Entries returns a copy of the catalogue in display order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// IsChoice reports whether k presents a fixed set of choices.
func (k Kind) IsChoice() bool {
	return k == KindSingleSelect || k == KindMultiSelect || k == KindRadioGroup
}

// ParseChoices splits an options string on commas, trims each token and
// drops the empty ones. Commas cannot be escaped.
func ParseChoices(options string) []string {
	parts := strings.Split(options, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
