package native

import (
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/rlp"
)

const SelfDestructName = "selfdestruct"

// SelfDestructInput names the beneficiary of the remaining balance.
type SelfDestructInput struct {
	Beneficiary types.Address
}

// SelfDestruct terminates itself. Deploy only terminates when it gets an input, which the
// engine then refuses; Call always terminates.
type SelfDestruct struct{}

func (SelfDestruct) Deploy(ext exec.Ext, input []byte) (exec.ExecReturnValue, error) {
	if len(input) == 0 {
		return returnWith(nil)
	}
	return terminate(ext, input)
}

func (SelfDestruct) Call(ext exec.Ext, input []byte) (exec.ExecReturnValue, error) {
	return terminate(ext, input)
}

func terminate(ext exec.Ext, input []byte) (exec.ExecReturnValue, error) {
	var in SelfDestructInput
	if err := rlp.DecodeBytes(input, &in); err != nil {
		return exec.ExecReturnValue{}, invalidInput(err)
	}
	if err := charge(ext, ext.Schedule().Terminate); err != nil {
		return exec.ExecReturnValue{}, err
	}
	if _, err := ext.Terminate(in.Beneficiary); err != nil {
		return exec.ExecReturnValue{}, err
	}
	return returnWith(nil)
}
