package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// StorageKey addresses one entry of contract storage.
type StorageKey = common.Hash

// TrieId is the opaque handle of a contract's key/value storage namespace.
type TrieId []byte

// GenerateTrieId derives the storage namespace of a contract from its address and a seed
// taken from the account counter. Distinct seeds give distinct ids even for the same address,
// so a contract re-instantiated at an address never sees the storage of its predecessor.
func GenerateTrieId(account Address, seed uint64) TrieId {
	var buf [AddrSize + 8]byte
	copy(buf[:], account[:])
	for i := 0; i < 8; i++ {
		buf[AddrSize+i] = byte(seed >> (8 * (7 - i)))
	}
	return crypto.Keccak256(buf[:])
}

// ContractInfo is the persistent metadata of a live contract.
type ContractInfo struct {
	// Storage namespace of the contract.
	TrieId TrieId
	// Total size of all values in the contract storage.
	StorageSize uint32
	// Number of key/value pairs in the contract storage.
	PairCount uint32
	CodeHash  common.Hash
	// Rent fields are carried along, the engine does not charge rent.
	RentAllowance Value
	RentPaid      Value
	DeductBlock   BlockNumber
	// Block of the last storage write, zero when never written.
	LastWrite BlockNumber
}

func (c *ContractInfo) Clone() *ContractInfo {
	if c == nil {
		return nil
	}
	res := *c
	res.TrieId = append(TrieId(nil), c.TrieId...)
	return &res
}

// CodeInfo is the bookkeeping record of an uploaded code blob.
type CodeInfo struct {
	// Number of contracts instantiated from the code.
	Refcount uint32
	CodeLen  uint32
}
