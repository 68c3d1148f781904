package native

import (
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

const DeployerName = "deployer"

// DeployInput describes the contract a deployer instantiates.
type DeployInput struct {
	CodeHash common.Hash
	Value    types.Value
	GasLimit uint64
	Input    []byte
	Salt     []byte
}

// Deployer instantiates contracts from its calls and returns the new address. A reverted
// constructor reverts the deployer with the constructor's output.
type Deployer struct{}

func (Deployer) Deploy(exec.Ext, []byte) (exec.ExecReturnValue, error) {
	return returnWith(nil)
}

func (Deployer) Call(ext exec.Ext, input []byte) (exec.ExecReturnValue, error) {
	var in DeployInput
	if err := rlp.DecodeBytes(input, &in); err != nil {
		return exec.ExecReturnValue{}, invalidInput(err)
	}
	if err := charge(ext, ext.Schedule().Instantiate); err != nil {
		return exec.ExecReturnValue{}, err
	}

	addr, ret, _, err := ext.Instantiate(types.Gas(in.GasLimit), in.CodeHash, in.Value, in.Input, in.Salt)
	if err != nil {
		return exec.ExecReturnValue{}, err
	}
	if !ret.IsSuccess() {
		return revertWith(ret.Data)
	}
	return returnWith(addr.Bytes())
}
