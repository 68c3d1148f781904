package storage

import (
	"fmt"

	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// PutCode stores a code blob together with a fresh CodeInfo. Uploading the same code twice
// keeps the existing refcount.
func (s *Store) PutCode(codeHash common.Hash, code []byte) error {
	info, err := s.LoadCodeInfo(codeHash)
	if err != nil {
		return err
	}
	if info != nil {
		return nil
	}
	if err := s.Put(db.PristineCodeTable, codeHash.Bytes(), code); err != nil {
		return err
	}
	return s.WriteCodeInfo(codeHash, &types.CodeInfo{CodeLen: uint32(len(code))})
}

// LoadCode returns the code blob, or nil if it was never uploaded.
func (s *Store) LoadCode(codeHash common.Hash) ([]byte, error) {
	return s.Get(db.PristineCodeTable, codeHash.Bytes())
}

func (s *Store) LoadCodeInfo(codeHash common.Hash) (*types.CodeInfo, error) {
	data, err := s.Get(db.CodeInfoTable, codeHash.Bytes())
	if err != nil || data == nil {
		return nil, err
	}
	info := new(types.CodeInfo)
	if err := rlp.DecodeBytes(data, info); err != nil {
		return nil, fmt.Errorf("failed to decode code info of %s: %w", codeHash, err)
	}
	return info, nil
}

func (s *Store) WriteCodeInfo(codeHash common.Hash, info *types.CodeInfo) error {
	data, err := rlp.EncodeToBytes(info)
	if err != nil {
		return fmt.Errorf("failed to encode code info of %s: %w", codeHash, err)
	}
	return s.Put(db.CodeInfoTable, codeHash.Bytes(), data)
}

// RemoveCode deletes the code blob and its CodeInfo.
func (s *Store) RemoveCode(codeHash common.Hash) error {
	if err := s.Delete(db.PristineCodeTable, codeHash.Bytes()); err != nil {
		return err
	}
	return s.Delete(db.CodeInfoTable, codeHash.Bytes())
}
