package exec

import (
	"github.com/NilFoundation/vvm/internal/balances"
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// Ext is the execution context of running contract code. All operations are performed on
// behalf of the contract of the current frame.
type Ext interface {
	// Call calls into the contract at to, possibly transferring value, and returns the size
	// of the called code along with the result.
	Call(gasLimit types.Gas, to types.Address, value types.Value, input []byte) (ExecReturnValue, uint32, error)

	// Instantiate creates a new contract from the code with the given hash. value is the
	// endowment transferred to the new account.
	Instantiate(
		gasLimit types.Gas, codeHash common.Hash, value types.Value, input []byte, salt []byte,
	) (types.Address, ExecReturnValue, uint32, error)

	// Terminate transfers the whole balance to beneficiary and deletes the contract. It fails
	// with ErrorReentranceDenied if the contract is on the stack more than once. After a
	// successful Terminate the contract must not touch its storage anymore.
	Terminate(beneficiary types.Address) (uint32, error)

	// RestoreTo would restore an evicted contract by sacrificing the current one. Contracts
	// are never evicted, so it always fails with ErrorRestorationUnsupported.
	RestoreTo(
		dest types.Address, codeHash common.Hash, rentAllowance types.Value, delta []types.StorageKey,
	) (uint32, uint32, error)

	Transfer(to types.Address, value types.Value) error

	// GetStorage returns nil if the key is not set.
	GetStorage(key types.StorageKey) ([]byte, error)
	// SetStorage stores value under key; a nil value deletes the entry.
	SetStorage(key types.StorageKey, value []byte) error

	Caller() types.Address
	Address() types.Address
	// Balance includes the value transferred into the current frame.
	Balance() (types.Value, error)
	ValueTransferred() types.Value
	// Now is the timestamp of the current block.
	Now() uint64
	MinimumBalance() types.Value
	TombstoneDeposit() types.Value
	// Random returns a value derived from the block randomness and subject, along with the
	// block number it is valid for.
	Random(subject []byte) (common.Hash, types.BlockNumber)
	DepositEvent(topics []common.Hash, data []byte)
	SetRentAllowance(rentAllowance types.Value) error
	RentAllowance() (types.Value, error)
	BlockNumber() types.BlockNumber
	MaxValueSize() uint32
	GetWeightPrice(weight types.Gas) types.Value
	Schedule() *config.Schedule
	RentParams() *RentParams
	GasMeter() *gas.Meter
	// AppendDebugBuffer appends msg as is to the debug buffer and reports whether debug
	// messages are recorded at all.
	AppendDebugBuffer(msg string) bool
	// IsRecursive reports whether the current contract is on the stack more than once.
	IsRecursive() bool
}

// ContractStore keeps contract metadata and storage. Every write made inside
// WithTransaction is rolled back unless fn returns true.
type ContractStore interface {
	LoadContract(account types.Address) (*types.ContractInfo, error)
	WriteContract(account types.Address, info *types.ContractInfo) error
	RemoveContract(account types.Address) error
	NewContract(account types.Address, info *types.ContractInfo) error

	Read(trieId types.TrieId, key types.StorageKey) ([]byte, error)
	Write(blockNumber types.BlockNumber, info *types.ContractInfo, key types.StorageKey, value []byte) error
	ClearStorage(trieId types.TrieId) error
	GenerateTrieId(account types.Address, seed uint64) types.TrieId

	AccountCounter() (uint64, error)
	SetAccountCounter(counter uint64) error

	DepositEvent(event types.Event)
	WithTransaction(fn func() bool)
}

type Ledger interface {
	BalanceOf(account types.Address) (types.Value, error)
	MinimumBalance() types.Value
	Transfer(from, to types.Address, amount types.Value, requirement balances.ExistenceRequirement) error
}

// BlockContext describes the block the stack executes in.
type BlockContext struct {
	Number     types.BlockNumber
	Timestamp  uint64
	RandomSeed common.Hash
}

// Params are the collaborators of a call stack.
type Params struct {
	Store  ContractStore
	Ledger Ledger
	Loader Loader
	Config *config.Config
	Block  BlockContext

	// Metrics may be nil.
	Metrics *MetricsHandler
}
