package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// LoadContract returns the info of a live contract, or nil if there is no contract at the
// address.
func (s *Store) LoadContract(account types.Address) (*types.ContractInfo, error) {
	data, err := s.Get(db.ContractInfoTable, account.Bytes())
	if err != nil || data == nil {
		return nil, err
	}
	info := new(types.ContractInfo)
	if err := rlp.DecodeBytes(data, info); err != nil {
		return nil, fmt.Errorf("failed to decode contract info of %s: %w", account, err)
	}
	return info, nil
}

func (s *Store) WriteContract(account types.Address, info *types.ContractInfo) error {
	data, err := rlp.EncodeToBytes(info)
	if err != nil {
		return fmt.Errorf("failed to encode contract info of %s: %w", account, err)
	}
	return s.Put(db.ContractInfoTable, account.Bytes(), data)
}

func (s *Store) RemoveContract(account types.Address) error {
	return s.Delete(db.ContractInfoTable, account.Bytes())
}

func (s *Store) ContractExists(account types.Address) (bool, error) {
	return s.tx.Exists(db.ContractInfoTable, account.Bytes())
}

// NewContract allocates the info of a freshly constructed contract. It fails with
// ErrorDuplicateContract if a live contract already occupies the address.
func (s *Store) NewContract(account types.Address, info *types.ContractInfo) error {
	exists, err := s.ContractExists(account)
	if err != nil {
		return err
	}
	if exists {
		return types.NewVerboseError(types.ErrorDuplicateContract, account.Hex())
	}
	return s.WriteContract(account, info)
}

func (s *Store) GenerateTrieId(account types.Address, seed uint64) types.TrieId {
	return types.GenerateTrieId(account, seed)
}

func storageKey(trieId types.TrieId, key types.StorageKey) []byte {
	res := make([]byte, 0, len(trieId)+len(key))
	res = append(res, trieId...)
	return append(res, key[:]...)
}

// Read returns the value stored under key in the given storage namespace, or nil if absent.
func (s *Store) Read(trieId types.TrieId, key types.StorageKey) ([]byte, error) {
	return s.Get(db.ContractStorageTable, storageKey(trieId, key))
}

// Write stores value under key in the storage of the contract described by info. A nil value
// deletes the entry. The storage size, pair count and last write block of info are updated
// in place; persisting info is up to the caller.
func (s *Store) Write(
	blockNumber types.BlockNumber, info *types.ContractInfo, key types.StorageKey, value []byte,
) error {
	k := storageKey(info.TrieId, key)
	prev, err := s.Get(db.ContractStorageTable, k)
	if err != nil {
		return err
	}

	switch {
	case prev != nil && value == nil:
		info.PairCount--
	case prev == nil && value != nil:
		info.PairCount++
	}
	info.StorageSize = info.StorageSize - uint32(len(prev)) + uint32(len(value))
	info.LastWrite = blockNumber

	if value == nil {
		return s.Delete(db.ContractStorageTable, k)
	}
	return s.Put(db.ContractStorageTable, k, value)
}

// ClearStorage removes every entry of the storage namespace.
func (s *Store) ClearStorage(trieId types.TrieId) error {
	iter, err := s.tx.RangeByPrefix(db.ContractStorageTable, trieId)
	if err != nil {
		return err
	}
	var keys [][]byte
	for iter.HasNext() {
		key, _, err := iter.Next()
		if err != nil {
			iter.Close()
			return err
		}
		keys = append(keys, key)
	}
	iter.Close()

	for _, key := range keys {
		if err := s.Delete(db.ContractStorageTable, key); err != nil {
			return err
		}
	}
	return nil
}

// AccountCounter returns the number of contracts instantiated so far.
func (s *Store) AccountCounter() (uint64, error) {
	data, err := s.Get(db.GlobalsTable, db.AccountCounterKey)
	if err != nil || data == nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("malformed account counter of length %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func (s *Store) SetAccountCounter(counter uint64) error {
	return s.Put(db.GlobalsTable, db.AccountCounterKey, binary.BigEndian.AppendUint64(nil, counter))
}
