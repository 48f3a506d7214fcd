package api

import (
	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/models"
	"github.com/starford/fieldkit/internal/session"
)

// TypeListResponse lists the catalogue in display order.
type TypeListResponse struct {
	Types []catalogue.Entry `json:"types" validate:"required"`
}

// ComponentListResponse wraps stored definitions.
type ComponentListResponse struct {
	Components []models.Component `json:"components" validate:"required"`
	Total      int                `json:"total" example:"3" validate:"required"`
}

// OpenSessionRequest opens a session. ID is required when Mode is "edit".
type OpenSessionRequest struct {
	Mode session.Mode `json:"mode" example:"new" validate:"required"`
	ID   string       `json:"id,omitempty" example:"0190b4c2-6a8e-7d1a-9d0a-3f1c2b4e5a6f"`
}

// SetFieldRequest carries a new field value: a string, a list of strings
// for tags, or null.
type SetFieldRequest struct {
	Value any `json:"value"`
}

// SubmitResponse reports a committed submit.
type SubmitResponse struct {
	ID      string          `json:"id" validate:"required"`
	Outcome session.Outcome `json:"outcome" example:"created" validate:"required"`
}
