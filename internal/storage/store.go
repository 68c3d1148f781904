package storage

import (
	"errors"
	"fmt"

	"github.com/NilFoundation/vvm/common/check"
	"github.com/NilFoundation/vvm/common/logging"
	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/rs/zerolog"
)

// Store is a journaled view over a read-write database transaction. Every write goes
// straight to the transaction and records the previous value, so any suffix of the writes
// can be undone with RevertToSnapshot. The caller owns the transaction and decides whether
// to commit it.
//
// Store is not safe for concurrent use.
type Store struct {
	tx      db.RwTx
	journal *journal
	events  []types.Event
	depth   int

	logger zerolog.Logger
}

func NewStore(tx db.RwTx) *Store {
	return &Store{
		tx:      tx,
		journal: newJournal(),
		logger:  logging.NewLogger("storage"),
	}
}

// Get returns the value stored under key, or nil if the key is absent.
func (s *Store) Get(table db.TableName, key []byte) ([]byte, error) {
	val, err := s.tx.Get(table, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

func (s *Store) prev(table db.TableName, key []byte) (kvChange, error) {
	prev, err := s.tx.Get(table, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return kvChange{table: table, key: key}, nil
	}
	if err != nil {
		return kvChange{}, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return kvChange{table: table, key: key, prev: prev, existed: true}, nil
}

// Put writes value under key and journals the previous state of the key.
func (s *Store) Put(table db.TableName, key, value []byte) error {
	key = append([]byte(nil), key...)
	value = append([]byte(nil), value...)
	change, err := s.prev(table, key)
	if err != nil {
		return err
	}
	if err := s.tx.Put(table, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", table, err)
	}
	s.journal.append(change)
	return nil
}

// Delete removes key and journals its previous state. Deleting an absent key is a no-op.
func (s *Store) Delete(table db.TableName, key []byte) error {
	key = append([]byte(nil), key...)
	change, err := s.prev(table, key)
	if err != nil {
		return err
	}
	if !change.existed {
		return nil
	}
	if err := s.tx.Delete(table, key); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	s.journal.append(change)
	return nil
}

// Snapshot returns an identifier of the current state of the store.
func (s *Store) Snapshot() int {
	return s.journal.length()
}

// RevertToSnapshot undoes every write made after the snapshot was taken.
func (s *Store) RevertToSnapshot(snapshot int) {
	check.PanicIfNotf(snapshot <= s.journal.length(), "invalid snapshot %d", snapshot)
	s.journal.revert(s, snapshot)
}

// WithTransaction runs fn in a nested scope. Writes made by fn stay if it returns true and
// are rolled back otherwise. Scopes nest: a committed inner scope is still undone when an
// enclosing scope rolls back.
func (s *Store) WithTransaction(fn func() bool) {
	snapshot := s.Snapshot()
	s.depth++
	defer func() { s.depth-- }()

	if !fn() {
		s.logger.Trace().
			Int("depth", s.depth).
			Int("entries", s.journal.length()-snapshot).
			Msg("Rolling back scope")
		s.RevertToSnapshot(snapshot)
	}
}

// DepositEvent records an event. Events are rolled back together with the scope that
// deposited them.
func (s *Store) DepositEvent(event types.Event) {
	s.events = append(s.events, event)
	s.journal.append(eventChange{})
}

// Events returns the events deposited so far.
func (s *Store) Events() []types.Event {
	return s.events
}
