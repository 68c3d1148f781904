package native

import (
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/ethereum/go-ethereum/common"
)

// Executable is a loaded native contract.
type Executable struct {
	codeHash common.Hash
	name     string
	codeLen  uint32
	refcount uint32
	contract Contract
}

var _ exec.Executable = (*Executable)(nil)

func (e *Executable) Execute(ext exec.Ext, entryPoint exec.EntryPoint, input []byte) (exec.ExecReturnValue, error) {
	if entryPoint == exec.EntryPointConstructor {
		return e.contract.Deploy(ext, input)
	}
	return e.contract.Call(ext, input)
}

func (e *Executable) CodeHash() common.Hash {
	return e.codeHash
}

func (e *Executable) CodeLen() uint32 {
	return e.codeLen
}

// AggregateCodeLen equals CodeLen: native code is stored once, there is no instrumented copy.
func (e *Executable) AggregateCodeLen() uint32 {
	return e.codeLen
}

// Refcount is the number of users at the time the executable was loaded.
func (e *Executable) Refcount() uint32 {
	return e.refcount
}

func (e *Executable) Name() string {
	return e.name
}
