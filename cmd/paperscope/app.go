package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/matsen/paperscope/internal/arxiv"
	"github.com/matsen/paperscope/internal/cache"
	"github.com/matsen/paperscope/internal/config"
	"github.com/matsen/paperscope/internal/embedding"
	"github.com/matsen/paperscope/internal/metastore"
	"github.com/matsen/paperscope/internal/pipeline"
	"github.com/matsen/paperscope/internal/vecindex"
)

// app bundles the wired collaborators behind the commands.
type app struct {
	cfg      *config.Config
	provider *embedding.OllamaProvider
	index    *vecindex.HNSW
	store    metastore.Store
	cache    *cache.PaperCache
	ingestor *pipeline.Ingestor
	searcher *pipeline.Searcher
}

// buildApp opens the local data directory and wires the pipelines.
// The vector index is restored from its snapshot when one exists.
func buildApp(cfg *config.Config, ingestOpts ...pipeline.IngestorOption) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	index, err := vecindex.LoadHNSW(cfg.IndexPath(), cfg.EmbedDimensions)
	if errors.Is(err, vecindex.ErrSnapshotNotFound) {
		index = vecindex.NewHNSW(cfg.EmbedDimensions)
	} else if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}

	var store metastore.Store
	switch cfg.StoreBackend {
	case config.BackendBolt:
		store, err = metastore.OpenBolt(cfg.StorePath())
	default:
		store, err = metastore.OpenSQLite(cfg.StorePath())
	}
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	provider := embedding.NewOllamaProvider(
		embedding.WithBaseURL(cfg.OllamaURL),
		embedding.WithModel(cfg.EmbedModel),
		embedding.WithDimensions(cfg.EmbedDimensions),
		embedding.WithTimeout(cfg.RequestTimeout),
	)

	feed := arxiv.NewClient(
		arxiv.WithBaseURL(cfg.ArxivURL),
		arxiv.WithCategory(cfg.ArxivCategory),
		arxiv.WithMaxResults(cfg.ArxivMaxResults),
	)

	paperCache := cache.New(cfg.CacheCapacity)

	opts := append([]pipeline.IngestorOption{
		pipeline.WithEmbedConcurrency(cfg.EmbedConcurrency),
	}, ingestOpts...)

	return &app{
		cfg:      cfg,
		provider: provider,
		index:    index,
		store:    store,
		cache:    paperCache,
		ingestor: pipeline.NewIngestor(feed, provider, index, store, paperCache, opts...),
		searcher: pipeline.NewSearcher(provider, index, store, paperCache),
	}, nil
}

// Close snapshots the index and releases the store.
func (a *app) Close() error {
	var errs []error
	if err := a.index.Save(a.cfg.IndexPath()); err != nil {
		errs = append(errs, fmt.Errorf("saving index: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing store: %w", err))
	}
	return errors.Join(errs...)
}
