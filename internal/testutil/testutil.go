// Package testutil provides shared test helpers for setting up central homes.
package testutil

import (
	"testing"

	"github.com/starford/centrallog/internal/repository"
)

// TestHome creates a temporary central home with the full directory
// structure and returns it together with a repository rooted there.
func TestHome(t *testing.T) (string, *repository.Repository) {
	t.Helper()
	home := t.TempDir()
	repo := repository.New(home)
	if err := repo.EnsureStructure(); err != nil {
		t.Fatal(err)
	}
	return repo.Home(), repo
}
