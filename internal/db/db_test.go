package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SuiteBadgerDb struct {
	suite.Suite
	db DB
}

type SuiteBadgerDbInMemory struct {
	SuiteBadgerDb
}

func (s *SuiteBadgerDb) SetupTest() {
	var err error
	s.db, err = NewBadgerDb(s.T().TempDir())
	s.Require().NoError(err)
}

func (s *SuiteBadgerDb) TearDownTest() {
	s.db.Close()
}

func (s *SuiteBadgerDbInMemory) SetupTest() {
	var err error
	s.db, err = NewBadgerDbInMemory()
	s.Require().NoError(err)
}

func (s *SuiteBadgerDb) TestTables() {
	ctx := context.Background()

	tx, err := s.db.CreateRwTx(ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	s.Require().NoError(tx.Put("tbl-1", []byte("foo"), []byte("bar")))

	has, err := tx.Exists("tbl-1", []byte("foo"))
	s.Require().NoError(err)
	s.True(has, "Key 'foo' should be present in tbl-1")

	has, err = tx.Exists("tbl-2", []byte("foo"))
	s.Require().NoError(err)
	s.False(has, "Key 'foo' should not be present in tbl-2")

	_, err = tx.Get("tbl-2", []byte("foo"))
	s.Require().ErrorIs(err, ErrKeyNotFound)
}

func (s *SuiteBadgerDb) TestTransaction() {
	ctx := context.Background()

	tx, err := s.db.CreateRwTx(ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	tx2, err := s.db.CreateRwTx(ctx)
	s.Require().NoError(err)
	defer tx2.Rollback()

	s.Require().NoError(tx.Put("tbl", []byte("foo"), []byte("bar")))

	val, err := tx.Get("tbl", []byte("foo"))
	s.Require().NoError(err)
	s.Equal([]byte("bar"), val)

	// Parallel transactions don't see changes made by the first one
	has, err := tx2.Exists("tbl", []byte("foo"))
	s.Require().NoError(err)
	s.False(has, "Key 'foo' should not be present")

	tx2.Rollback()
	s.Require().NoError(tx.Commit())

	tx, err = s.db.CreateRwTx(ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	has, err = tx.Exists("tbl", []byte("foo"))
	s.Require().NoError(err)
	s.True(has, "Key 'foo' should be present")

	s.Require().NoError(tx.Delete("tbl", []byte("foo")))

	has, err = tx.Exists("tbl", []byte("foo"))
	s.Require().NoError(err)
	s.False(has, "Key 'foo' should not be present")

	s.Require().NoError(tx.Commit())
}

func (s *SuiteBadgerDb) TestRollbackDiscardsWrites() {
	ctx := context.Background()

	tx, err := s.db.CreateRwTx(ctx)
	s.Require().NoError(err)
	s.Require().NoError(tx.Put("tbl", []byte("foo"), []byte("bar")))
	tx.Rollback()

	ro, err := s.db.CreateRoTx(ctx)
	s.Require().NoError(err)
	defer ro.Rollback()

	has, err := ro.Exists("tbl", []byte("foo"))
	s.Require().NoError(err)
	s.False(has)
}

func (s *SuiteBadgerDb) TestRangeByPrefix() {
	ctx := context.Background()

	tx, err := s.db.CreateRwTx(ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	s.Require().NoError(tx.Put("tbl", []byte("a1"), []byte("1")))
	s.Require().NoError(tx.Put("tbl", []byte("a2"), []byte("2")))
	s.Require().NoError(tx.Put("tbl", []byte("b1"), []byte("3")))
	s.Require().NoError(tx.Put("tbl2", []byte("a3"), []byte("4")))

	it, err := tx.RangeByPrefix("tbl", []byte("a"))
	s.Require().NoError(err)

	var keys, values []string
	for it.HasNext() {
		k, v, err := it.Next()
		s.Require().NoError(err)
		keys = append(keys, string(k))
		values = append(values, string(v))
	}
	it.Close()

	s.Equal([]string{"a1", "a2"}, keys)
	s.Equal([]string{"1", "2"}, values)

	it, err = tx.RangeByPrefix("tbl", nil)
	s.Require().NoError(err)
	defer it.Close()

	count := 0
	for it.HasNext() {
		_, _, err := it.Next()
		s.Require().NoError(err)
		count++
	}
	s.Equal(3, count)
}

func (s *SuiteBadgerDb) TestDropAll() {
	ctx := context.Background()

	tx, err := s.db.CreateRwTx(ctx)
	s.Require().NoError(err)
	s.Require().NoError(tx.Put("tbl", []byte("foo"), []byte("bar")))
	s.Require().NoError(tx.Commit())

	s.Require().NoError(s.db.DropAll())

	ro, err := s.db.CreateRoTx(ctx)
	s.Require().NoError(err)
	defer ro.Rollback()

	has, err := ro.Exists("tbl", []byte("foo"))
	s.Require().NoError(err)
	s.False(has)
}

func TestOpenBadgerDb(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := &BadgerDBOptions{Path: t.TempDir()}

	exists := func() bool {
		t.Helper()
		database, err := OpenBadgerDb(opts)
		require.NoError(t, err)
		defer database.Close()

		tx, err := database.CreateRwTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback()

		has, err := tx.Exists("tbl", []byte("foo"))
		require.NoError(t, err)
		if !has {
			require.NoError(t, tx.Put("tbl", []byte("foo"), []byte("bar")))
			require.NoError(t, tx.Commit())
		}
		return has
	}

	require.False(t, exists())
	require.True(t, exists(), "data survives reopening")

	opts.DropOnOpen = true
	require.False(t, exists(), "data is dropped on open")
}

func TestSuiteBadgerDb(t *testing.T) {
	t.Parallel()

	suite.Run(t, new(SuiteBadgerDb))
}

func TestSuiteBadgerDbInMemory(t *testing.T) {
	t.Parallel()

	suite.Run(t, new(SuiteBadgerDbInMemory))
}
