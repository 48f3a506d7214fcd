// Package models defines the persisted domain types for fieldkit.
package models

import "time"

// Component is a finalized definition of one form field.
type Component struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Type         string    `json:"type" yaml:"type"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Options      string    `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DefaultValue string    `json:"default_value,omitempty" yaml:"default_value,omitempty"`
}

// Fields returns the user-supplied part of c.
func (c Component) Fields() Fields {
	return Fields{
		Name:         c.Name,
		Type:         c.Type,
		Tags:         append([]string(nil), c.Tags...),
		Description:  c.Description,
		Options:      c.Options,
		Placeholder:  c.Placeholder,
		DefaultValue: c.DefaultValue,
	}
}

// Fields is everything about a component except its identity and creation time.
type Fields struct {
	Name         string
	Type         string
	Tags         []string
	Description  string
	Options      string
	Placeholder  string
	DefaultValue string
}

// Patch is a partial update. Nil members leave the stored value untouched.
type Patch struct {
	Name         *string
	Type         *string
	Tags         []string
	Description  *string
	Options      *string
	Placeholder  *string
	DefaultValue *string
}

// FullPatch builds a patch that replaces every user-supplied field with f.
func FullPatch(f Fields) Patch {
	return Patch{
		Name:         &f.Name,
		Type:         &f.Type,
		Tags:         append([]string{}, f.Tags...),
		Description:  &f.Description,
		Options:      &f.Options,
		Placeholder:  &f.Placeholder,
		DefaultValue: &f.DefaultValue,
	}
}

// Apply merges p over c. ID and CreatedAt are never touched.
func (p Patch) Apply(c Component) Component {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Tags != nil {
		c.Tags = NormalizeTags(p.Tags)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Options != nil {
		c.Options = *p.Options
	}
	if p.Placeholder != nil {
		c.Placeholder = *p.Placeholder
	}
	if p.DefaultValue != nil {
		c.DefaultValue = *p.DefaultValue
	}
	return c
}
