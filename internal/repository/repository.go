// Package repository stores finalized component definitions. Memory is the
// default backend; SQLite provides durable storage behind the same interface.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/fieldkit/internal/models"
)

// Repository is the seam every definition store implements. Update and
// Delete return an error wrapping apperr.ErrNotFound for unknown ids.
type Repository interface {
	// List returns every definition in insertion order.
	List(ctx context.Context) ([]models.Component, error)
	// FindByName returns definitions whose name matches query under the
	// repository's Matcher, in insertion order.
	FindByName(ctx context.Context, query string) ([]models.Component, error)
	Get(ctx context.Context, id string) (models.Component, error)
	// Create stores f under a fresh id and creation time and returns the id.
	Create(ctx context.Context, f models.Fields) (string, error)
	// Update merges p over the stored record. ID and CreatedAt are preserved.
	Update(ctx context.Context, id string, p models.Patch) error
	Delete(ctx context.Context, id string) error
	// Restore inserts records with their existing id and creation time,
	// replacing any record with the same id in place.
	Restore(ctx context.Context, records ...models.Component) error
}

// MatchMode selects how a name search query is matched.
type MatchMode string

const (
	MatchContains MatchMode = "contains"
	MatchPrefix   MatchMode = "prefix"
)

// Matcher is the name search policy.
type Matcher struct {
	CaseSensitive bool
	Mode          MatchMode
}

// DefaultMatcher is case-sensitive substring containment.
var DefaultMatcher = Matcher{CaseSensitive: true, Mode: MatchContains}

// Match reports whether name satisfies query.
func (m Matcher) Match(name, query string) bool {
	if !m.CaseSensitive {
		name = strings.ToLower(name)
		query = strings.ToLower(query)
	}
	if m.Mode == MatchPrefix {
		return strings.HasPrefix(name, query)
	}
	return strings.Contains(name, query)
}

func filter(all []models.Component, m Matcher, query string) []models.Component {
	out := make([]models.Component, 0, len(all))
	for _, c := range all {
		if m.Match(c.Name, query) {
			out = append(out, c)
		}
	}
	return out
}

// Option configures a repository.
type Option func(*options)

type options struct {
	matcher Matcher
	now     func() time.Time
	newID   func() string
}

func defaultOptions() options {
	return options{
		matcher: DefaultMatcher,
		now:     time.Now,
		newID:   NewID,
	}
}

// WithMatcher sets the name search policy.
func WithMatcher(m Matcher) Option {
	return func(o *options) { o.matcher = m }
}

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the source of fresh identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// NewID generates a UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func newComponent(o options, f models.Fields) models.Component {
	return models.Component{
		ID:           o.newID(),
		Name:         f.Name,
		Type:         f.Type,
		CreatedAt:    o.now().UTC(),
		Tags:         models.NormalizeTags(f.Tags),
		Description:  f.Description,
		Options:      f.Options,
		Placeholder:  f.Placeholder,
		DefaultValue: f.DefaultValue,
	}
}

func cloneComponent(c models.Component) models.Component {
	c.Tags = append([]string{}, c.Tags...)
	return c
}

func validateRestore(c models.Component) error {
	if c.ID == "" {
		return fmt.Errorf("repository: restore %q: id is required", c.Name)
	}
	return nil
}
