package metastore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/matsen/paperscope/internal/paper"
)

var bucketPapers = []byte("papers")

// BoltStore persists paper metadata in a Bolt key-value database.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (and if necessary creates) a Bolt-backed store at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPapers)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating papers bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// WriteBatch writes every paper inside one update transaction. Existing IDs
// are replaced.
func (s *BoltStore) WriteBatch(ctx context.Context, papers []paper.Paper) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPapers)
		for _, p := range papers {
			data, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("encoding paper %s: %w", p.ID, err)
			}
			if err := b.Put([]byte(p.ID), data); err != nil {
				return fmt.Errorf("writing paper %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// Read returns the paper with the given ID, or ErrNotFound.
func (s *BoltStore) Read(ctx context.Context, id string) (*paper.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p paper.Paper
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPapers).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
