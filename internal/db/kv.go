package db

import (
	"context"
)

type TableName string

type RoTx interface {
	Exists(tableName TableName, key []byte) (bool, error)
	// Get returns ErrKeyNotFound when the key is absent.
	Get(tableName TableName, key []byte) ([]byte, error)
	// RangeByPrefix iterates over the keys of the table starting with prefix in lexicographic
	// order. Returned keys are stripped of the table prefix but keep the given prefix.
	RangeByPrefix(tableName TableName, prefix []byte) (Iter, error)

	// Rollback can't really fail, because it's not clear how to proceed.
	// It's better to just panic in this case and restart.
	Rollback()
}

type RwTx interface {
	RoTx

	Put(tableName TableName, key, value []byte) error
	Delete(tableName TableName, key []byte) error

	Commit() error
}

type Iter interface {
	HasNext() bool
	Next() ([]byte, []byte, error)
	Close()
}

type DB interface {
	CreateRoTx(ctx context.Context) (RoTx, error)
	CreateRwTx(ctx context.Context) (RwTx, error)
	Close()
	DropAll() error
}
