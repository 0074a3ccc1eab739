package metastore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matsen/paperscope/internal/paper"
)

// openStores returns one of each backend, both on temp paths.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := OpenSQLite(filepath.Join(dir, "papers.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	bolt, err := OpenBolt(filepath.Join(dir, "papers.bolt"))
	if err != nil {
		t.Fatalf("OpenBolt() error = %v", err)
	}
	t.Cleanup(func() { bolt.Close() })

	return map[string]Store{"sqlite": sqlite, "bolt": bolt}
}

func TestStore_WriteBatchAndRead(t *testing.T) {
	papers := []paper.Paper{
		{ID: "2301.00001", Title: "T1", Abstract: "A1"},
		{ID: "2301.00002", Title: "T2", Abstract: "A2"},
	}

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.WriteBatch(ctx, papers); err != nil {
				t.Fatalf("WriteBatch() error = %v", err)
			}

			got, err := store.Read(ctx, "2301.00002")
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got.Title != "T2" || got.Abstract != "A2" {
				t.Errorf("Read() = %+v, want T2/A2", got)
			}
		})
	}
}

func TestStore_ReadMissing(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Read(context.Background(), "no-such-id")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Read() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first := []paper.Paper{{ID: "2301.00001", Title: "Old", Abstract: "Old abstract"}}
			second := []paper.Paper{{ID: "2301.00001", Title: "New", Abstract: "New abstract"}}

			if err := store.WriteBatch(ctx, first); err != nil {
				t.Fatalf("WriteBatch() error = %v", err)
			}
			if err := store.WriteBatch(ctx, second); err != nil {
				t.Fatalf("WriteBatch() error = %v", err)
			}

			got, err := store.Read(ctx, "2301.00001")
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got.Title != "New" {
				t.Errorf("Title = %q, want %q", got.Title, "New")
			}
		})
	}
}

func TestSQLiteStore_Count(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "papers.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	papers := []paper.Paper{
		{ID: "a", Title: "T", Abstract: "A"},
		{ID: "b", Title: "T", Abstract: "A"},
		{ID: "a", Title: "T again", Abstract: "A again"},
	}
	if err := store.WriteBatch(ctx, papers); err != nil {
		t.Fatalf("WriteBatch() error = %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2 (duplicate id collapsed)", n)
	}
}
