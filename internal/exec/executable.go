package exec

import (
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/ethereum/go-ethereum/common"
)

// EntryPoint is the exported function of an executable a frame runs.
type EntryPoint int

const (
	// EntryPointConstructor runs once, when the contract is instantiated.
	EntryPointConstructor EntryPoint = iota
	// EntryPointCall runs when the contract is called.
	EntryPointCall
)

func (e EntryPoint) String() string {
	if e == EntryPointConstructor {
		return "Constructor"
	}
	return "Call"
}

type ReturnFlags uint32

// FlagRevert marks an output whose state changes must be rolled back although the code did
// not fail.
const FlagRevert ReturnFlags = 1

// ExecReturnValue is the output of a successfully executed entry point.
type ExecReturnValue struct {
	Flags ReturnFlags
	Data  []byte
}

func (r ExecReturnValue) IsSuccess() bool {
	return r.Flags&FlagRevert == 0
}

// Executable is loaded contract code.
type Executable interface {
	// Execute runs the entry point. It is always called inside a store transaction that the
	// engine rolls back unless the result is a success.
	Execute(ext Ext, entryPoint EntryPoint, input []byte) (ExecReturnValue, error)

	CodeHash() common.Hash
	// CodeLen is the size of the code the executable was loaded from.
	CodeLen() uint32
	// AggregateCodeLen is the size of everything stored for the code.
	AggregateCodeLen() uint32
	// Refcount is the number of contracts using the code.
	Refcount() uint32
}

// OccupiedStorage is the share of the code storage attributed to one of its users.
func OccupiedStorage(e Executable) uint32 {
	if e.Refcount() == 0 {
		return e.AggregateCodeLen()
	}
	return e.AggregateCodeLen() / e.Refcount()
}

// Loader resolves code hashes into executables and keeps the code refcounts.
type Loader interface {
	// FromStorage loads the executable for codeHash, charging the load to meter.
	FromStorage(codeHash common.Hash, schedule *config.Schedule, meter *gas.Meter) (Executable, error)
	// AddUser increments the refcount of the code and returns the code size.
	AddUser(codeHash common.Hash) (uint32, error)
	// RemoveUser decrements the refcount of the code and returns the code size.
	RemoveUser(codeHash common.Hash) (uint32, error)
}
