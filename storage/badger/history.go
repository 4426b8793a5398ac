package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/converse/core"
	"github.com/poiesic/converse/storage"
)

// HistoryStore implements storage.HistoryStore for BadgerDB.
//
// Messages for a conversation share a key prefix and carry a big-endian
// sequence suffix, so prefix iteration returns them in insertion order.
// Both messages of a turn are written inside one transaction.
type HistoryStore struct {
	backend      *Backend
	conversation string
	seq          *badger.Sequence
}

var _ storage.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a history store for the given conversation.
func NewHistoryStore(backend *Backend, conversation string) (*HistoryStore, error) {
	seq, err := backend.GetSequence(messageSequenceName + ":" + conversation)
	if err != nil {
		return nil, err
	}

	return &HistoryStore{
		backend:      backend,
		conversation: conversation,
		seq:          seq,
	}, nil
}

// Close releases the message sequence.
func (s *HistoryStore) Close() error {
	return s.seq.Release()
}

// AppendTurn appends the user and assistant messages of a turn atomically.
// Readers see either both messages or neither.
func (s *HistoryStore) AppendTurn(ctx context.Context, turn core.Turn) error {
	if err := core.ValidateTurn(turn); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, msg := range []core.ChatMessage{turn.User, turn.Assistant} {
			nextSeq, err := s.seq.Next()
			if err != nil {
				return err
			}
			key := historyKey(s.conversation, nextSeq)
			if err := tx.Set(key, storage.MarshalMessage(msg)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Messages returns all messages of the conversation in insertion order.
// The read runs in a single transaction, so it observes a consistent
// snapshot even while turns are being appended.
func (s *HistoryStore) Messages(ctx context.Context) ([]core.ChatMessage, error) {
	var messages []core.ChatMessage
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = historyKeyPrefix(s.conversation)

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var msg core.ChatMessage
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				msg, err = storage.UnmarshalMessage(val)
				return err
			}); err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return nil
	}, false)

	return messages, err
}

// Reset deletes all messages of the conversation.
func (s *HistoryStore) Reset(ctx context.Context) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = historyKeyPrefix(s.conversation)
		opts.PrefetchValues = false

		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
