package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/NilFoundation/vvm/common/assert"
	"github.com/dgraph-io/badger/v4"
)

type BadgerDB struct {
	db *badger.DB
}

type BadgerDBOptions struct {
	Path string `yaml:"path"`
	// DropOnOpen wipes all data of an existing database once it is opened.
	DropOnOpen bool `yaml:"dropOnOpen,omitempty"`
}

func NewDefaultBadgerDBOptions() *BadgerDBOptions {
	return &BadgerDBOptions{
		Path: "vvm.db",
	}
}

type BadgerRoTx struct {
	tx         *badger.Txn
	Terminated atomic.Bool
}

type BadgerRwTx struct {
	*BadgerRoTx
}

type BadgerIter struct {
	iter   *badger.Iterator
	prefix []byte
	cut    int
}

// interfaces
var (
	_ RoTx = new(BadgerRoTx)
	_ RwTx = new(BadgerRwTx)
	_ DB   = new(BadgerDB)
	_ Iter = new(BadgerIter)
)

func makeKey(table TableName, key []byte) []byte {
	return append([]byte(table+":"), key...)
}

func NewBadgerDb(pathToDb string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(pathToDb).WithLogger(nil)
	return newBadgerDb(&opts)
}

// OpenBadgerDb opens the database at opts.Path, dropping its contents if requested.
func OpenBadgerDb(opts *BadgerDBOptions) (*BadgerDB, error) {
	db, err := NewBadgerDb(opts.Path)
	if err != nil {
		return nil, err
	}
	if opts.DropOnOpen {
		if err := db.DropAll(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to drop database at %s: %w", opts.Path, err)
		}
	}
	return db, nil
}

func NewBadgerDbInMemory() (*BadgerDB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return newBadgerDb(&opts)
}

func newBadgerDb(opts *badger.Options) (*BadgerDB, error) {
	badgerInstance, err := badger.Open(*opts)
	if err != nil {
		return nil, err
	}
	return &BadgerDB{db: badgerInstance}, nil
}

func (db *BadgerDB) Close() {
	db.db.Close()
}

func (db *BadgerDB) DropAll() error {
	return db.db.DropAll()
}

func captureStacktrace() []byte {
	stack := make([]byte, 1024)
	_ = runtime.Stack(stack, false)
	return stack
}

func runTxLeakChecker(tx *BadgerRoTx, stack []byte, timeout time.Duration) {
	time.Sleep(timeout)
	if !tx.Terminated.Load() {
		panic(fmt.Sprintf("Transaction wasn't terminated:\n%s", stack))
	}
}

func (db *BadgerDB) CreateRoTx(ctx context.Context) (RoTx, error) {
	txn := db.db.NewTransaction(false)
	tx := &BadgerRoTx{tx: txn}
	if assert.Enable {
		stack := captureStacktrace()
		go runTxLeakChecker(tx, stack, 1*time.Second)
	}
	return tx, nil
}

func (db *BadgerDB) CreateRwTx(ctx context.Context) (RwTx, error) {
	txn := db.db.NewTransaction(true)
	tx := &BadgerRwTx{&BadgerRoTx{tx: txn}}
	if assert.Enable {
		stack := captureStacktrace()
		go runTxLeakChecker(tx.BadgerRoTx, stack, 10*time.Second)
	}
	return tx, nil
}

func (tx *BadgerRwTx) Commit() error {
	tx.Terminated.Store(true)
	return tx.tx.Commit()
}

func (tx *BadgerRoTx) Rollback() {
	tx.Terminated.Store(true)
	tx.tx.Discard()
}

func (tx *BadgerRwTx) Put(tableName TableName, key, value []byte) error {
	return tx.tx.Set(makeKey(tableName, key), value)
}

func (tx *BadgerRwTx) Delete(tableName TableName, key []byte) error {
	return tx.tx.Delete(makeKey(tableName, key))
}

func (tx *BadgerRoTx) Get(tableName TableName, key []byte) ([]byte, error) {
	item, err := tx.tx.Get(makeKey(tableName, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (tx *BadgerRoTx) Exists(tableName TableName, key []byte) (bool, error) {
	_, err := tx.tx.Get(makeKey(tableName, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (tx *BadgerRoTx) RangeByPrefix(tableName TableName, prefix []byte) (Iter, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeKey(tableName, prefix)
	iter := tx.tx.NewIterator(opts)
	if iter == nil {
		return nil, ErrIteratorCreate
	}
	iter.Seek(opts.Prefix)
	return &BadgerIter{
		iter:   iter,
		prefix: opts.Prefix,
		cut:    len(tableName) + 1,
	}, nil
}

func (it *BadgerIter) HasNext() bool {
	return it.iter.ValidForPrefix(it.prefix)
}

func (it *BadgerIter) Next() ([]byte, []byte, error) {
	item := it.iter.Item()
	key := item.KeyCopy(nil)
	value, err := item.ValueCopy(nil)
	it.iter.Next()
	if err != nil {
		return nil, nil, err
	}
	return bytes.Clone(key[it.cut:]), value, nil
}

func (it *BadgerIter) Close() {
	it.iter.Close()
}
