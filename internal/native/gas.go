package native

import (
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// The helpers below charge the schedule before doing the host operation, the way compiled
// contract code would.

func charge(ext exec.Ext, amount types.Gas) error {
	return ext.GasMeter().Charge(amount)
}

func readStorage(ext exec.Ext, key types.StorageKey) ([]byte, error) {
	schedule := ext.Schedule()
	if err := charge(ext, schedule.StorageRead); err != nil {
		return nil, err
	}
	value, err := ext.GetStorage(key)
	if err != nil {
		return nil, err
	}
	return value, charge(ext, schedule.StorageReadPerByte*types.Gas(len(value)))
}

func writeStorage(ext exec.Ext, key types.StorageKey, value []byte) error {
	schedule := ext.Schedule()
	if err := charge(ext, schedule.StorageWrite+schedule.StorageWritePerByte*types.Gas(len(value))); err != nil {
		return err
	}
	return ext.SetStorage(key, value)
}

func depositEvent(ext exec.Ext, topics []common.Hash, data []byte) error {
	schedule := ext.Schedule()
	cost := schedule.DepositEvent +
		schedule.DepositEventPerTopic*types.Gas(len(topics)) +
		schedule.DepositEventPerByte*types.Gas(len(data))
	if err := charge(ext, cost); err != nil {
		return err
	}
	ext.DepositEvent(topics, data)
	return nil
}

func debugMessage(ext exec.Ext, msg string) error {
	if err := charge(ext, ext.Schedule().DebugMessagePerByte*types.Gas(len(msg))); err != nil {
		return err
	}
	ext.AppendDebugBuffer(msg)
	return nil
}

func revertWith(data []byte) (exec.ExecReturnValue, error) {
	return exec.ExecReturnValue{Flags: exec.FlagRevert, Data: data}, nil
}

func returnWith(data []byte) (exec.ExecReturnValue, error) {
	return exec.ExecReturnValue{Data: data}, nil
}

func invalidInput(err error) error {
	return types.NewWrapError(types.ErrorInvalidInput, err)
}
