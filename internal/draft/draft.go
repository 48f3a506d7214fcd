// Package draft holds the in-progress, uncommitted shadow of a component
// definition and the single-writer store that notifies observers of changes.
package draft

import (
	"fmt"
	"strings"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/models"
)

// FieldKey names an editable field of a draft.
type FieldKey string

const (
	FieldName         FieldKey = "name"
	FieldType         FieldKey = "type"
	FieldTags         FieldKey = "tags"
	FieldDescription  FieldKey = "description"
	FieldOptions      FieldKey = "options"
	FieldPlaceholder  FieldKey = "placeholder"
	FieldDefaultValue FieldKey = "defaultValue"
)

// FieldOrder is the order in which an editing form lays out its fields.
var FieldOrder = []FieldKey{
	FieldName, FieldType, FieldTags, FieldDescription,
	FieldOptions, FieldPlaceholder, FieldDefaultValue,
}

// ParseFieldKey validates a key coming from outside the process.
func ParseFieldKey(s string) (FieldKey, error) {
	for _, k := range FieldOrder {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnknownField, s)
}

// Draft is an immutable snapshot of an editing session's fields. Every field
// may be empty while editing; empty means absent.
type Draft struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Tags         []string `json:"tags"`
	Description  string   `json:"description"`
	Options      string   `json:"options"`
	Placeholder  string   `json:"placeholder"`
	DefaultValue string   `json:"defaultValue"`
}

// FromComponent seeds a draft from a stored definition.
func FromComponent(c models.Component) Draft {
	return Draft{
		Name:         c.Name,
		Type:         c.Type,
		Tags:         append([]string{}, c.Tags...),
		Description:  c.Description,
		Options:      c.Options,
		Placeholder:  c.Placeholder,
		DefaultValue: c.DefaultValue,
	}
}

// Fields converts the draft into the user-supplied part of a definition.
// Callers validate first.
func (d Draft) Fields() models.Fields {
	return models.Fields{
		Name:         strings.TrimSpace(d.Name),
		Type:         d.Type,
		Tags:         models.NormalizeTags(d.Tags),
		Description:  d.Description,
		Options:      d.Options,
		Placeholder:  d.Placeholder,
		DefaultValue: d.DefaultValue,
	}
}

// Value returns the raw value of key, a string or []string for tags.
func (d Draft) Value(key FieldKey) any {
	switch key {
	case FieldName:
		return d.Name
	case FieldType:
		return d.Type
	case FieldTags:
		return d.clone().Tags
	case FieldDescription:
		return d.Description
	case FieldOptions:
		return d.Options
	case FieldPlaceholder:
		return d.Placeholder
	case FieldDefaultValue:
		return d.DefaultValue
	}
	return nil
}

// IsBlank reports whether key holds no usable value.
func (d Draft) IsBlank(key FieldKey) bool {
	if key == FieldTags {
		return len(models.NormalizeTags(d.Tags)) == 0
	}
	s, _ := d.Value(key).(string)
	return strings.TrimSpace(s) == ""
}

func (d Draft) clone() Draft {
	if d.Tags != nil {
		d.Tags = append([]string{}, d.Tags...)
	}
	return d
}

// with returns a copy of d with key replaced by value.
func (d Draft) with(key FieldKey, value any) (Draft, error) {
	d = d.clone()
	if key == FieldTags {
		tags, err := toTags(value)
		if err != nil {
			return Draft{}, err
		}
		d.Tags = tags
		return d, nil
	}

	var s string
	switch v := value.(type) {
	case nil:
	case string:
		s = v
	default:
		return Draft{}, fmt.Errorf("%w: %s expects a string, got %T", apperr.ErrInvalidValue, key, value)
	}

	switch key {
	case FieldName:
		d.Name = s
	case FieldType:
		d.Type = s
	case FieldDescription:
		d.Description = s
	case FieldOptions:
		d.Options = s
	case FieldPlaceholder:
		d.Placeholder = s
	case FieldDefaultValue:
		d.DefaultValue = s
	default:
		return Draft{}, fmt.Errorf("%w: %q", apperr.ErrUnknownField, key)
	}
	return d, nil
}

// toTags accepts a string list, a JSON-decoded []any of strings, or a single
// comma separated string.
func toTags(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: tags must be strings, got %T", apperr.ErrInvalidValue, item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return strings.Split(v, ","), nil
	}
	return nil, fmt.Errorf("%w: tags expects a list of strings, got %T", apperr.ErrInvalidValue, value)
}
