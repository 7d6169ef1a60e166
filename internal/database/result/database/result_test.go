package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/scrawl-games/scrawl/internal/cache/cachelru"
	db "github.com/scrawl-games/scrawl/internal/database"
	"github.com/scrawl-games/scrawl/internal/database/result/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	sDB, err := db.NewFromEnv(ctx, &db.Config{FilePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = sDB.Close(ctx)
	})

	c, err := cachelru.NewLRU(16)
	if err != nil {
		t.Fatalf("new lru: %v", err)
	}

	return New(sDB, c)
}

func TestAddFetch(t *testing.T) {
	t.Parallel()

	resultDB := newTestDB(t)

	result := model.NewResult("ABCD")
	result.Winner = "Alice"
	result.Rounds = 3
	result.Players = []model.PlayerResult{{Username: "Alice", Score: 350}, {Username: "Bob", Score: 300}}

	if err := resultDB.Add(result); err != nil {
		t.Fatalf("add: %v", err)
	}

	results, err := resultDB.FetchByCode("ABCD")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != result.ID || results[0].Winner != "Alice" {
		t.Errorf("round trip mismatch: %+v", results[0])
	}

	// second fetch comes out of the cache
	cached, err := resultDB.FetchByCode("ABCD")
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("expected 1 cached result, got %d", len(cached))
	}
}

func TestFetchUnknownCode(t *testing.T) {
	t.Parallel()

	resultDB := newTestDB(t)
	if _, err := resultDB.FetchByCode("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddInvalidatesCache(t *testing.T) {
	t.Parallel()

	resultDB := newTestDB(t)

	first := model.NewResult("ROOM")
	if err := resultDB.Add(first); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := resultDB.FetchByCode("ROOM"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	second := model.NewResult("ROOM")
	if err := resultDB.Add(second); err != nil {
		t.Fatalf("add: %v", err)
	}

	results, err := resultDB.FetchByCode("ROOM")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after cache invalidation, got %d", len(results))
	}
}
