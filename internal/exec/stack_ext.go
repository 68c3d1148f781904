package exec

import (
	"github.com/NilFoundation/vvm/common/logging"
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func (s *Stack) Call(gasLimit types.Gas, to types.Address, value types.Value, input []byte) (ExecReturnValue, uint32, error) {
	// Constructor frames are skipped: a contract can't be called before it is fully
	// constructed. Without a cached copy the info is loaded from the store.
	var cachedInfo *types.ContractInfo
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.entryPoint == EntryPointCall && f.accountId == to {
			if f.contractInfo.IsCached() {
				cachedInfo = f.contractInfo.info.Clone()
			}
			break
		}
	}

	executable, codeLen, err := s.pushFrame(callFrame(to, cachedInfo), value, gasLimit)
	if err != nil {
		return ExecReturnValue{}, codeLen, err
	}
	return s.run(executable, input)
}

func (s *Stack) Instantiate(
	gasLimit types.Gas, codeHash common.Hash, value types.Value, input []byte, salt []byte,
) (types.Address, ExecReturnValue, uint32, error) {
	top := s.topFrame()
	executable, err := s.loader.FromStorage(codeHash, &s.config.Schedule, top.nestedMeter)
	if err != nil {
		return types.EmptyAddress, ExecReturnValue{}, 0, callerError(err)
	}

	if _, codeLen, err := s.pushFrame(instantiateFrame(top.accountId, executable, salt), value, gasLimit); err != nil {
		return types.EmptyAddress, ExecReturnValue{}, codeLen, err
	}
	account := s.topFrame().accountId

	ret, codeLen, err := s.run(executable, input)
	if err != nil {
		return types.EmptyAddress, ExecReturnValue{}, codeLen, err
	}
	return account, ret, codeLen, nil
}

func (s *Stack) Terminate(beneficiary types.Address) (uint32, error) {
	if s.IsRecursive() {
		return 0, types.NewError(types.ErrorReentranceDenied)
	}

	frame := s.topFrame()
	info, err := frame.contractInfo.get(s.store, frame.accountId)
	if err != nil {
		return 0, err
	}

	balance, err := s.ledger.BalanceOf(frame.accountId)
	if err != nil {
		return 0, err
	}
	if err := s.transfer(true, true, frame.accountId, beneficiary, balance); err != nil {
		return 0, err
	}
	if err := s.store.ClearStorage(info.TrieId); err != nil {
		return 0, err
	}
	if err := s.store.RemoveContract(frame.accountId); err != nil {
		return 0, err
	}

	// The code gains its user only once the constructor succeeds.
	var codeLen uint32
	if frame.entryPoint == EntryPointCall {
		if codeLen, err = s.loader.RemoveUser(info.CodeHash); err != nil {
			return 0, err
		}
	}

	if _, err := frame.contractInfo.terminate(s.store, frame.accountId); err != nil {
		return 0, err
	}
	s.store.DepositEvent(types.Event{
		Kind:        types.EventTerminated,
		Account:     frame.accountId,
		Counterpart: beneficiary,
	})

	s.logger.Debug().
		Stringer(logging.FieldAccountAddress, frame.accountId).
		Stringer(logging.FieldValue, balance).
		Msg("Contract terminated")
	return codeLen, nil
}

func (s *Stack) RestoreTo(
	dest types.Address, codeHash common.Hash, rentAllowance types.Value, delta []types.StorageKey,
) (uint32, uint32, error) {
	return 0, 0, types.NewError(types.ErrorRestorationUnsupported)
}

func (s *Stack) Transfer(to types.Address, value types.Value) error {
	return s.transfer(true, false, s.topFrame().accountId, to, value)
}

func (s *Stack) GetStorage(key types.StorageKey) ([]byte, error) {
	frame := s.topFrame()
	info, err := frame.contractInfo.get(s.store, frame.accountId)
	if err != nil {
		return nil, err
	}
	return s.store.Read(info.TrieId, key)
}

func (s *Stack) SetStorage(key types.StorageKey, value []byte) error {
	if len(value) > int(s.config.MaxValueSize) {
		return types.NewError(types.ErrorValueTooLarge)
	}
	frame := s.topFrame()
	info, err := frame.contractInfo.get(s.store, frame.accountId)
	if err != nil {
		return err
	}
	return s.store.Write(s.block.Number, info, key, value)
}

// Caller returns the account of the frame below the top one, or the origin for the first
// frame.
func (s *Stack) Caller() types.Address {
	if len(s.frames) > 1 {
		return s.frames[len(s.frames)-2].accountId
	}
	return s.origin
}

func (s *Stack) Address() types.Address {
	return s.topFrame().accountId
}

func (s *Stack) Balance() (types.Value, error) {
	return s.ledger.BalanceOf(s.topFrame().accountId)
}

func (s *Stack) ValueTransferred() types.Value {
	return s.topFrame().valueTransferred
}

func (s *Stack) Now() uint64 {
	return s.block.Timestamp
}

func (s *Stack) MinimumBalance() types.Value {
	return s.ledger.MinimumBalance()
}

func (s *Stack) TombstoneDeposit() types.Value {
	return s.config.TombstoneDeposit
}

func (s *Stack) Random(subject []byte) (common.Hash, types.BlockNumber) {
	return crypto.Keccak256Hash(s.block.RandomSeed[:], subject), s.block.Number
}

func (s *Stack) DepositEvent(topics []common.Hash, data []byte) {
	s.store.DepositEvent(types.Event{
		Kind:    types.EventContractEmitted,
		Account: s.topFrame().accountId,
		Topics:  topics,
		Data:    data,
	})
}

func (s *Stack) SetRentAllowance(rentAllowance types.Value) error {
	frame := s.topFrame()
	info, err := frame.contractInfo.get(s.store, frame.accountId)
	if err != nil {
		return err
	}
	info.RentAllowance = rentAllowance
	return nil
}

func (s *Stack) RentAllowance() (types.Value, error) {
	frame := s.topFrame()
	info, err := frame.contractInfo.get(s.store, frame.accountId)
	if err != nil {
		return types.Value{}, err
	}
	return info.RentAllowance, nil
}

func (s *Stack) BlockNumber() types.BlockNumber {
	return s.block.Number
}

func (s *Stack) MaxValueSize() uint32 {
	return s.config.MaxValueSize
}

func (s *Stack) GetWeightPrice(weight types.Gas) types.Value {
	price, overflow := weight.ToValue(s.config.WeightPrice)
	if overflow {
		return types.MaxValue()
	}
	return price
}

func (s *Stack) Schedule() *config.Schedule {
	return &s.config.Schedule
}

func (s *Stack) RentParams() *RentParams {
	return &s.topFrame().rentParams
}

func (s *Stack) GasMeter() *gas.Meter {
	return s.topFrame().nestedMeter
}

func (s *Stack) AppendDebugBuffer(msg string) bool {
	if s.debugMessage == nil {
		return false
	}
	s.debugMessage.WriteString(msg)
	return true
}
