package pipeline

import (
	"context"
	"testing"

	"github.com/matsen/paperscope/internal/cache"
	"github.com/matsen/paperscope/internal/paper"
	"github.com/matsen/paperscope/internal/vecindex"
)

// End-to-end over a real HNSW index: every ingested paper is retrievable
// by a query embedding near its abstract, and re-ingesting an unchanged
// feed leaves search results stable.
func TestPipeline_IngestThenSearch(t *testing.T) {
	feed := &fakeFeed{papers: []paper.Paper{
		{ID: "2301.00001", Title: "T1", Abstract: "ab"},
		{ID: "2301.00002", Title: "T2", Abstract: "a much longer abstract"},
	}}
	provider := &fakeProvider{}
	index := vecindex.NewHNSW(provider.Dimensions())
	store := newFakeStore()
	c := cache.New(16)

	ing := NewIngestor(feed, provider, index, store, c)
	s := NewSearcher(provider, index, store, c)

	ctx := context.Background()
	if _, err := ing.Ingest(ctx, "x"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	// The fake provider embeds by text length, so querying with each
	// abstract itself must rank its own paper first.
	for _, p := range feed.papers {
		results, err := s.Search(ctx, p.Abstract, 1)
		if err != nil {
			t.Fatalf("Search(%q) error = %v", p.Abstract, err)
		}
		if len(results) != 1 || results[0].ID != p.ID {
			t.Errorf("Search(%q) top result = %v, want %s", p.Abstract, results, p.ID)
		}
		if results[0].Paper == nil || results[0].Paper.Title != p.Title {
			t.Errorf("Search(%q) metadata = %+v, want title %s", p.Abstract, results[0].Paper, p.Title)
		}
	}

	first, err := s.Search(ctx, "a much longer abstract", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// Idempotence: the same feed ingested again leaves results unchanged.
	if _, err := ing.Ingest(ctx, "x"); err != nil {
		t.Fatalf("second Ingest() error = %v", err)
	}
	second, err := s.Search(ctx, "a much longer abstract", 2)
	if err != nil {
		t.Fatalf("Search() after re-ingest error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result count changed after re-ingest: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("rank %d changed after re-ingest: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}
