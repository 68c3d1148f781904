package storage

import (
	"github.com/NilFoundation/vvm/common/check"
	"github.com/NilFoundation/vvm/internal/db"
)

// journalEntry is a modification of the store that can be reverted on demand.
type journalEntry interface {
	// revert undoes the changes introduced by this journal entry.
	revert(*Store)
}

// journal contains the list of store modifications applied since the store was opened.
// Snapshots are indices into it.
type journal struct {
	entries []journalEntry
}

func newJournal() *journal {
	return &journal{}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

// revert undoes a batch of journalled modifications
func (j *journal) revert(s *Store, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) length() int {
	return len(j.entries)
}

type (
	// kvChange records the value a key had before it was written or deleted.
	kvChange struct {
		table   db.TableName
		key     []byte
		prev    []byte
		existed bool
	}

	eventChange struct{}
)

func (ch kvChange) revert(s *Store) {
	var err error
	if ch.existed {
		err = s.tx.Put(ch.table, ch.key, ch.prev)
	} else {
		err = s.tx.Delete(ch.table, ch.key)
	}
	check.PanicIfErr(err)
}

func (ch eventChange) revert(s *Store) {
	s.events = s.events[:len(s.events)-1]
}
