// Package testutil provides shared test helpers for repositories and clocks.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/fieldkit/internal/models"
	"github.com/starford/fieldkit/internal/repository"
)

// FixedClock returns a clock that always reports at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// SQLite opens a repository in a temporary database closed at cleanup.
func SQLite(t *testing.T, opts ...repository.Option) *repository.SQLite {
	t.Helper()
	repo, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "fieldkit-test.db"), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// Seed creates one component per name with the given type and a single
// tag, returning their ids in order.
func Seed(t *testing.T, repo repository.Repository, typ string, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := repo.Create(context.Background(), models.Fields{Name: name, Type: typ, Tags: []string{"t"}})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	return ids
}
