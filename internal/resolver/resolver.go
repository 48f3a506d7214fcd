// Package resolver decides which editing fields a draft shows and requires.
package resolver

import (
	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
)

var (
	baseVisible = []draft.FieldKey{
		draft.FieldName, draft.FieldType, draft.FieldTags, draft.FieldDescription,
		draft.FieldPlaceholder, draft.FieldDefaultValue,
	}
	baseRequired = []draft.FieldKey{draft.FieldName, draft.FieldType, draft.FieldTags}
)

// FieldSet is a set of field keys kept in form order.
type FieldSet []draft.FieldKey

// Has reports whether k is in the set.
func (s FieldSet) Has(k draft.FieldKey) bool {
	for _, f := range s {
		if f == k {
			return true
		}
	}
	return false
}

// Resolution is the outcome of resolving a draft.
type Resolution struct {
	Visible  FieldSet `json:"visible_fields"`
	Required FieldSet `json:"required_fields"`
}

// Resolve computes the visible and required fields for d. It keeps no state
// between calls; an unknown or blank type adds nothing beyond the base set.
func Resolve(d draft.Draft) Resolution {
	visible := make(map[draft.FieldKey]bool, len(draft.FieldOrder))
	required := make(map[draft.FieldKey]bool, len(draft.FieldOrder))
	for _, k := range baseVisible {
		visible[k] = true
	}
	for _, k := range baseRequired {
		required[k] = true
	}

	if entry, ok := catalogue.Lookup(d.Type); ok && entry.RequiresOptions {
		visible[draft.FieldOptions] = true
		required[draft.FieldOptions] = true
	}

	return Resolution{
		Visible:  ordered(visible),
		Required: ordered(required),
	}
}

func ordered(set map[draft.FieldKey]bool) FieldSet {
	out := make(FieldSet, 0, len(set))
	for _, k := range draft.FieldOrder {
		if set[k] {
			out = append(out, k)
		}
	}
	return out
}
