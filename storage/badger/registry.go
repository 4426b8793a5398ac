package badger

import (
	"context"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage"
)

// IndexRegistry records metadata for every document index known to the
// assistant. The registry is the authority for an index's embedding model
// and dimension.
type IndexRegistry struct {
	backend *Backend
}

// NewIndexRegistry creates a new IndexRegistry.
func NewIndexRegistry(backend *Backend) *IndexRegistry {
	return &IndexRegistry{backend: backend}
}

// Put stores or replaces the metadata for an index.
func (r *IndexRegistry) Put(ctx context.Context, info core.IndexInfo) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(indexKey(info.Name), storage.MarshalIndexInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves the metadata for an index by name.
// Returns storage.ErrNotFound if the index is not registered.
func (r *IndexRegistry) Get(ctx context.Context, name string) (core.IndexInfo, error) {
	var info core.IndexInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(indexKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			info, err = storage.UnmarshalIndexInfo(val)
			return err
		})
	}, false)
	return info, err
}

// List returns metadata for all registered indexes, sorted by name.
func (r *IndexRegistry) List(ctx context.Context) ([]core.IndexInfo, error) {
	var infos []core.IndexInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(indexPrefix)

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var info core.IndexInfo
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				info, err = storage.UnmarshalIndexInfo(val)
				return err
			}); err != nil {
				return err
			}
			infos = append(infos, info)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(infos, func(a, b core.IndexInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos, nil
}

// Delete removes the metadata for an index.
func (r *IndexRegistry) Delete(ctx context.Context, name string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(indexKey(name)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
