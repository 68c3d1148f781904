package native

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

const CounterName = "counter"

var (
	counterKey = common.Hash{}
	// IncrementedTopic is the topic of the event deposited by every increment.
	IncrementedTopic = crypto.Keccak256Hash([]byte("Incremented(uint64)"))
)

// CounterInput is the input of a counter call. Revert makes the counter increment and then
// revert the frame.
type CounterInput struct {
	Delta  uint64
	Revert bool
}

// Counter keeps a single uint64 in storage. Deploy takes the initial value as an RLP encoded
// uint64 (empty input means zero), Call takes a CounterInput (empty input increments by one)
// and returns the new value as 8 big endian bytes.
type Counter struct{}

func (Counter) Deploy(ext exec.Ext, input []byte) (exec.ExecReturnValue, error) {
	var initial uint64
	if len(input) > 0 {
		if err := rlp.DecodeBytes(input, &initial); err != nil {
			return exec.ExecReturnValue{}, invalidInput(err)
		}
	}
	if err := writeStorage(ext, counterKey, encodeUint64(initial)); err != nil {
		return exec.ExecReturnValue{}, err
	}
	return returnWith(nil)
}

func (Counter) Call(ext exec.Ext, input []byte) (exec.ExecReturnValue, error) {
	in := CounterInput{Delta: 1}
	if len(input) > 0 {
		if err := rlp.DecodeBytes(input, &in); err != nil {
			return exec.ExecReturnValue{}, invalidInput(err)
		}
	}
	if err := charge(ext, ext.Schedule().Instruction); err != nil {
		return exec.ExecReturnValue{}, err
	}

	raw, err := readStorage(ext, counterKey)
	if err != nil {
		return exec.ExecReturnValue{}, err
	}
	current, err := decodeUint64(raw)
	if err != nil {
		return exec.ExecReturnValue{}, types.NewWrapError(types.ErrorContractTrapped, err)
	}

	next := current + in.Delta
	out := encodeUint64(next)
	if err := writeStorage(ext, counterKey, out); err != nil {
		return exec.ExecReturnValue{}, err
	}
	if err := depositEvent(ext, []common.Hash{IncrementedTopic}, out); err != nil {
		return exec.ExecReturnValue{}, err
	}
	if err := debugMessage(ext, "counter: "+strconv.FormatUint(next, 10)+"\n"); err != nil {
		return exec.ExecReturnValue{}, err
	}

	if in.Revert {
		return revertWith(out)
	}
	return returnWith(out)
}

func encodeUint64(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func decodeUint64(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("counter value has %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}
