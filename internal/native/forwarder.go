package native

import (
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/rlp"
)

const ForwarderName = "forwarder"

// ForwardInput describes the call a forwarder makes.
type ForwardInput struct {
	Target   types.Address
	Value    types.Value
	GasLimit uint64
	Input    []byte
	// Revert makes the forwarder revert after the nested call succeeded.
	Revert bool
}

// Forwarder calls another contract on behalf of its caller and returns the callee's output.
type Forwarder struct{}

func (Forwarder) Deploy(exec.Ext, []byte) (exec.ExecReturnValue, error) {
	return returnWith(nil)
}

func (Forwarder) Call(ext exec.Ext, input []byte) (exec.ExecReturnValue, error) {
	var in ForwardInput
	if err := rlp.DecodeBytes(input, &in); err != nil {
		return exec.ExecReturnValue{}, invalidInput(err)
	}
	if err := charge(ext, ext.Schedule().Call); err != nil {
		return exec.ExecReturnValue{}, err
	}

	ret, _, err := ext.Call(types.Gas(in.GasLimit), in.Target, in.Value, in.Input)
	if err != nil {
		return exec.ExecReturnValue{}, err
	}
	if in.Revert {
		return revertWith(ret.Data)
	}
	return ret, nil
}
