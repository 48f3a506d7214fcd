package session

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/draft"
	"github.com/starford/fieldkit/internal/models"
	"github.com/starford/fieldkit/internal/resolver"
)

var (
	errRequired    = validation.NewError("validation_required", apperr.ReasonRequired)
	errNoChoices   = validation.NewError("validation_no_choices", apperr.ReasonNoChoices)
	errUnknownType = validation.NewError("validation_unknown_type", apperr.ReasonUnknownType)
)

// notBlank treats whitespace-only strings and tag lists without a usable tag as absent.
var notBlank = validation.By(func(value any) error {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return errRequired
		}
	case []string:
		if len(models.NormalizeTags(v)) == 0 {
			return errRequired
		}
	}
	return nil
})

var knownType = validation.By(func(value any) error {
	if _, ok := catalogue.Lookup(value.(string)); !ok {
		return errUnknownType
	}
	return nil
})

var hasChoice = validation.By(func(value any) error {
	if len(catalogue.ParseChoices(value.(string))) == 0 {
		return errNoChoices
	}
	return nil
})

// validateDraft checks d against the required set of res and reports every
// failing field at once, in form order.
func validateDraft(d *draft.Draft, res resolver.Resolution) error {
	var rules []*validation.FieldRules
	for _, key := range res.Required {
		switch key {
		case draft.FieldName:
			rules = append(rules, validation.Field(&d.Name, notBlank))
		case draft.FieldType:
			rules = append(rules, validation.Field(&d.Type, notBlank, knownType))
		case draft.FieldTags:
			rules = append(rules, validation.Field(&d.Tags, notBlank))
		case draft.FieldOptions:
			rules = append(rules, validation.Field(&d.Options, notBlank, hasChoice))
		case draft.FieldDescription:
			rules = append(rules, validation.Field(&d.Description, notBlank))
		case draft.FieldPlaceholder:
			rules = append(rules, validation.Field(&d.Placeholder, notBlank))
		case draft.FieldDefaultValue:
			rules = append(rules, validation.Field(&d.DefaultValue, notBlank))
		}
	}

	err := validation.ValidateStruct(d, rules...)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	out := &apperr.ValidationError{}
	for _, key := range draft.FieldOrder {
		if fieldErr, ok := errs[string(key)]; ok {
			out.Fields = append(out.Fields, apperr.FieldError{Field: string(key), Reason: fieldErr.Error()})
		}
	}
	return out
}
