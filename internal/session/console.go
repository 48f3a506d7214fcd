// Package session runs the editing console: one draft at a time, wired to the
// resolver and the preview renderer, committed to a repository on submit.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/draft"
	"github.com/starford/fieldkit/internal/models"
	"github.com/starford/fieldkit/internal/preview"
	"github.com/starford/fieldkit/internal/repository"
	"github.com/starford/fieldkit/internal/resolver"
)

// State of the console.
type State string

const (
	StateClosed     State = "closed"
	StateEditing    State = "editing"
	StateValidating State = "validating"
)

// Mode records how a session was opened.
type Mode string

const (
	ModeNew  Mode = "new"
	ModeEdit Mode = "edit"
)

// Outcome of a successful submit.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Result describes a committed submit.
type Result struct {
	ID      string  `json:"id"`
	Outcome Outcome `json:"outcome"`
}

// View is everything a shell needs to draw the console.
type View struct {
	State          State               `json:"state"`
	Mode           Mode                `json:"mode,omitempty"`
	EditingID      string              `json:"editing_id,omitempty"`
	Draft          *draft.Draft        `json:"draft,omitempty"`
	VisibleFields  resolver.FieldSet   `json:"visible_fields"`
	RequiredFields resolver.FieldSet   `json:"required_fields"`
	Preview        *preview.Control    `json:"preview"`
	FieldErrors    []apperr.FieldError `json:"field_errors"`
	Error          string              `json:"error,omitempty"`
}

// EventKind names a console notification.
type EventKind string

const (
	EventOpened       EventKind = "session.opened"
	EventDraftChanged EventKind = "draft.changed"
	EventRejected     EventKind = "session.rejected"
	EventClosed       EventKind = "session.closed"
)

// Event is delivered to console listeners. Result is set only on the
// EventClosed that follows a successful submit.
type Event struct {
	Kind   EventKind
	View   View
	Result *Result
}

// Listener receives console events. Listeners run synchronously under the
// console lock and must not call back into the console.
type Listener func(Event)

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the console logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.logger = l }
}

// Console is the form orchestrator. It is safe for concurrent use; all
// operations are serialized and at most one session is open at a time.
type Console struct {
	repo   repository.Repository
	logger *slog.Logger

	mu        sync.Mutex
	active    *editing
	listeners []*Listener
}

type editing struct {
	mode  Mode
	id    string
	state State
	store *draft.Store
	stop  []func()

	resolution  resolver.Resolution
	control     preview.Control
	hasPreview  bool
	fieldErrors []apperr.FieldError
	err         error
}

// NewConsole creates a closed console committing to repo.
func NewConsole(repo repository.Repository, opts ...Option) *Console {
	c := &Console{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn for console events and returns a function removing it.
func (c *Console) Subscribe(fn Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := &fn
	c.listeners = append(c.listeners, l)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, existing := range c.listeners {
			if existing == l {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// New opens a session on an empty draft.
func (c *Console) New(_ context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return c.view(), apperr.ErrSessionActive
	}
	c.open(ModeNew, "", draft.Draft{})
	return c.view(), nil
}

// Edit opens a session on a draft seeded from the stored definition id.
func (c *Console) Edit(ctx context.Context, id string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return c.view(), apperr.ErrSessionActive
	}
	existing, err := c.repo.Get(ctx, id)
	if err != nil {
		return c.view(), fmt.Errorf("edit %s: %w", id, err)
	}
	c.open(ModeEdit, id, draft.FromComponent(existing))
	return c.view(), nil
}

// SetField changes one draft field. Resolution and preview are recomputed
// before it returns.
func (c *Console) SetField(key draft.FieldKey, value any) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return c.view(), apperr.ErrNoSession
	}
	if _, err := c.active.store.Set(key, value); err != nil {
		return c.view(), err
	}
	return c.view(), nil
}

// Cancel discards the draft without touching the repository.
func (c *Console) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return apperr.ErrNoSession
	}
	c.logger.Debug("session cancelled", slog.String("mode", string(c.active.mode)))
	c.close(nil)
	return nil
}

// Submit validates the draft and commits it. A validation failure returns an
// *apperr.ValidationError; a repository failure is returned wrapped. Both
// leave the session open with its draft unchanged.
func (c *Console) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.active
	if e == nil {
		return Result{}, apperr.ErrNoSession
	}

	e.state = StateValidating
	e.fieldErrors = nil
	e.err = nil

	d := e.store.Snapshot()
	if err := validateDraft(&d, resolver.Resolve(d)); err != nil {
		e.state = StateEditing
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			e.fieldErrors = ve.Fields
		} else {
			e.err = err
		}
		c.logger.Debug("submit rejected", slog.String("error", err.Error()))
		c.emit(EventRejected, nil)
		return Result{}, err
	}

	res, err := c.commit(ctx, e, d.Fields())
	if err != nil {
		e.state = StateEditing
		e.err = err
		c.logger.Warn("commit failed",
			slog.String("mode", string(e.mode)),
			slog.String("id", e.id),
			slog.String("error", err.Error()))
		c.emit(EventRejected, nil)
		return Result{}, fmt.Errorf("submit: %w", err)
	}

	c.logger.Info("component committed", slog.String("id", res.ID), slog.String("outcome", string(res.Outcome)))
	c.close(&res)
	return res, nil
}

// View returns the current console view.
func (c *Console) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Console) commit(ctx context.Context, e *editing, f models.Fields) (Result, error) {
	if e.mode == ModeEdit {
		if err := c.repo.Update(ctx, e.id, models.FullPatch(f)); err != nil {
			return Result{}, err
		}
		return Result{ID: e.id, Outcome: OutcomeUpdated}, nil
	}
	id, err := c.repo.Create(ctx, f)
	if err != nil {
		return Result{}, err
	}
	return Result{ID: id, Outcome: OutcomeCreated}, nil
}

// open wires a fresh store: resolver first, preview second, shell last.
func (c *Console) open(mode Mode, id string, seed draft.Draft) {
	e := &editing{mode: mode, id: id, state: StateEditing, store: draft.NewStore(draft.Draft{})}
	e.stop = append(e.stop,
		e.store.Subscribe(func(d draft.Draft) { e.resolution = resolver.Resolve(d) }),
		e.store.Subscribe(func(d draft.Draft) { e.control, e.hasPreview = preview.Render(d) }),
	)
	c.active = e
	e.store.Reset(seed)
	e.stop = append(e.stop, e.store.Subscribe(func(draft.Draft) { c.emit(EventDraftChanged, nil) }))

	c.logger.Debug("session opened", slog.String("mode", string(mode)), slog.String("id", id))
	c.emit(EventOpened, nil)
}

func (c *Console) close(res *Result) {
	for _, stop := range c.active.stop {
		stop()
	}
	c.active = nil
	c.emit(EventClosed, res)
}

func (c *Console) emit(kind EventKind, res *Result) {
	ev := Event{Kind: kind, View: c.view(), Result: res}
	for _, l := range c.listeners {
		(*l)(ev)
	}
}

func (c *Console) view() View {
	e := c.active
	if e == nil {
		return View{State: StateClosed, FieldErrors: []apperr.FieldError{}}
	}
	d := e.store.Snapshot()
	v := View{
		State:          e.state,
		Mode:           e.mode,
		EditingID:      e.id,
		Draft:          &d,
		VisibleFields:  e.resolution.Visible,
		RequiredFields: e.resolution.Required,
		FieldErrors:    append([]apperr.FieldError{}, e.fieldErrors...),
	}
	if e.hasPreview {
		ctrl := e.control
		ctrl.Choices = append([]preview.Choice(nil), e.control.Choices...)
		v.Preview = &ctrl
	}
	if e.err != nil {
		v.Error = e.err.Error()
	}
	return v
}
