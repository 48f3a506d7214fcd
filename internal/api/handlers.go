package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/catalogue"
	"github.com/starford/fieldkit/internal/checksum"
	"github.com/starford/fieldkit/internal/display"
	"github.com/starford/fieldkit/internal/draft"
	"github.com/starford/fieldkit/internal/models"
	"github.com/starford/fieldkit/internal/repository"
	"github.com/starford/fieldkit/internal/session"
	"github.com/starford/fieldkit/internal/sse"
)

// Console is the editing session surface the handlers drive.
type Console interface {
	New(ctx context.Context) (session.View, error)
	Edit(ctx context.Context, id string) (session.View, error)
	SetField(key draft.FieldKey, value any) (session.View, error)
	Submit(ctx context.Context) (session.Result, error)
	Cancel() error
	View() session.View
}

// ComponentPublisher is told about repository changes made outside a session.
type ComponentPublisher interface {
	PublishComponent(change sse.ComponentChange, id string)
}

// Handler holds API route handlers.
type Handler struct {
	repo      repository.Repository
	console   Console
	publisher ComponentPublisher
}

// NewHandler creates a new Handler. publisher may be nil.
func NewHandler(repo repository.Repository, console Console, publisher ComponentPublisher) *Handler {
	return &Handler{repo: repo, console: console, publisher: publisher}
}

func etag(sum string) string {
	return `"` + sum + `"`
}

// ListTypes handles GET /api/types.
//
//	@Summary		List selectable field types
//	@Tags			types
//	@Produce		json
//	@Success		200	{object}	TypeListResponse
//	@Router			/types [get]
func (h *Handler) ListTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, TypeListResponse{Types: catalogue.Entries()})
}

// ListComponents handles GET /api/components.
//
//	@Summary		List stored components, optionally filtered by name
//	@Tags			components
//	@Produce		json
//	@Param			q	query		string	false	"Name query"
//	@Success		200	{object}	ComponentListResponse
//	@Security		BearerAuth
//	@Router			/components [get]
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	q, filtered := r.URL.Query()["q"]

	var (
		list []models.Component
		err  error
	)
	if filtered {
		list, err = h.repo.FindByName(r.Context(), q[0])
	} else {
		list, err = h.repo.List(r.Context())
	}
	if err != nil {
		writeError(w, "list components", err)
		return
	}
	writeJSON(w, http.StatusOK, ComponentListResponse{Components: list, Total: len(list)})
}

// GetComponent handles GET /api/components/{id}.
//
//	@Summary		Get a stored component
//	@Tags			components
//	@Produce		json
//	@Param			id	path		string	true	"Component ID"
//	@Success		200	{object}	models.Component
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/components/{id} [get]
func (h *Handler) GetComponent(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get component", err)
		return
	}
	tag := etag(checksum.Component(c))
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteComponent handles DELETE /api/components/{id}.
// An If-Match header must equal the current ETag.
//
//	@Summary		Delete a stored component
//	@Tags			components
//	@Param			id			path	string	true	"Component ID"
//	@Param			If-Match	header	string	false	"ETag from a previous GET"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Failure		412	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/components/{id} [delete]
func (h *Handler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if ifMatch := r.Header.Get("If-Match"); ifMatch != "" {
		c, err := h.repo.Get(r.Context(), id)
		if err != nil {
			writeError(w, "delete component", err)
			return
		}
		if ifMatch != etag(checksum.Component(c)) {
			writeJSON(w, http.StatusPreconditionFailed, errorBody("component changed"))
			return
		}
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, "delete component", err)
		return
	}
	slog.Info("component deleted", slog.String("id", id))
	if h.publisher != nil {
		h.publisher.PublishComponent(sse.ComponentDeleted, id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /api/session.
//
//	@Summary		Current console state
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	session.View
//	@Security		BearerAuth
//	@Router			/session [get]
func (h *Handler) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.console.View())
}

// OpenSession handles POST /api/session.
//
//	@Summary		Open an editing session for a new or an existing component
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenSessionRequest	true	"Session mode"
//	@Success		201		{object}	session.View
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session [post]
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Mode, validation.Required, validation.In(session.ModeNew, session.ModeEdit)),
		validation.Field(&req.ID, validation.When(req.Mode == session.ModeEdit, validation.Required)),
	); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	var (
		v   session.View
		err error
	)
	if req.Mode == session.ModeEdit {
		v, err = h.console.Edit(r.Context(), req.ID)
	} else {
		v, err = h.console.New(r.Context())
	}
	if err != nil {
		writeError(w, "open session", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// SetField handles PUT /api/session/fields/{key}.
//
//	@Summary		Change one draft field
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string			true	"Field key"	Enums(name, type, tags, description, options, placeholder, defaultValue)
//	@Param			body	body		SetFieldRequest	true	"New value"
//	@Success		200		{object}	session.View
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/fields/{key} [put]
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	key, err := draft.ParseFieldKey(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, "set field", err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	v, err := h.console.SetField(key, req.Value)
	if err != nil {
		writeError(w, "set field", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Submit handles POST /api/session/submit.
//
//	@Summary		Validate and commit the draft
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	SubmitResponse
//	@Failure		404	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/submit [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	res, err := h.console.Submit(r.Context())
	if err != nil {
		writeError(w, "submit", err)
		return
	}
	writeJSON(w, http.StatusOK, SubmitResponse{ID: res.ID, Outcome: res.Outcome})
}

// CancelSession handles DELETE /api/session.
//
//	@Summary		Discard the draft
//	@Tags			session
//	@Success		204
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session [delete]
func (h *Handler) CancelSession(w http.ResponseWriter, _ *http.Request) {
	if err := h.console.Cancel(); err != nil {
		writeError(w, "cancel session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles GET /api/session/preview. It answers 204 while the draft
// has no previewable type.
//
//	@Summary		Preview of the control the draft describes
//	@Tags			session
//	@Produce		html
//	@Produce		json
//	@Success		200	{object}	preview.Control
//	@Success		204
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	v := h.console.View()
	if v.State == session.StateClosed {
		writeError(w, "preview", apperr.ErrNoSession)
		return
	}
	if v.Preview == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, v.Preview)
		return
	}
	renderHTML(w, http.StatusOK, display.Control(*v.Preview))
}

// Form handles GET /api/session/form.
//
//	@Summary		Editing form fragment for the current session
//	@Tags			session
//	@Produce		html
//	@Success		200	{string}	string	"HTML fragment"
//	@Security		BearerAuth
//	@Router			/session/form [get]
func (h *Handler) Form(w http.ResponseWriter, _ *http.Request) {
	renderHTML(w, http.StatusOK, display.SessionForm(h.console.View()))
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
