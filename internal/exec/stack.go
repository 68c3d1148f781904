package exec

import (
	"bytes"
	"context"

	"github.com/NilFoundation/vvm/common/assert"
	"github.com/NilFoundation/vvm/common/check"
	"github.com/NilFoundation/vvm/common/logging"
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/rs/zerolog"
)

// Stack is the call stack of one top-level call or instantiation. Nested calls made by the
// running code re-enter the stack through its Ext implementation and push further frames.
//
// A Stack lives exactly as long as the invocation that created it and is not safe for
// concurrent use.
type Stack struct {
	// Account that initiated the stack. Usually a plain account, but nothing prevents it
	// from being a contract.
	origin types.Address

	store  ContractStore
	ledger Ledger
	loader Loader
	config *config.Config
	block  BlockContext

	// Meter of whoever created the stack; the first frame carves its budget out of it.
	gasMeter *gas.Meter
	// frames[0] is the first frame. Never empty after construction, at most
	// 1 + MaxCallDepth long.
	frames []*Frame

	// Read from the store on first use and written back when the first frame is popped.
	accountCounter *uint64

	// Nil unless the invocation records debug output, which it never does on consensus paths.
	debugMessage *bytes.Buffer

	metrics  *MetricsHandler
	maxDepth int
	logger   zerolog.Logger
}

var _ Ext = (*Stack)(nil)

// frameArgs describes the frame to push: a call when executable is nil, an instantiation
// otherwise.
type frameArgs struct {
	dest       types.Address
	cachedInfo *types.ContractInfo

	sender     types.Address
	executable Executable
	salt       []byte
}

func callFrame(dest types.Address, cachedInfo *types.ContractInfo) frameArgs {
	return frameArgs{dest: dest, cachedInfo: cachedInfo}
}

func instantiateFrame(sender types.Address, executable Executable, salt []byte) frameArgs {
	return frameArgs{sender: sender, executable: executable, salt: salt}
}

func newStack(params Params, origin types.Address, meter *gas.Meter, debugMessage *bytes.Buffer) *Stack {
	check.PanicIfNot(params.Store != nil && params.Ledger != nil && params.Loader != nil)
	check.PanicIfNot(params.Config != nil && meter != nil)

	return &Stack{
		origin:       origin,
		store:        params.Store,
		ledger:       params.Ledger,
		loader:       params.Loader,
		config:       params.Config,
		block:        params.Block,
		gasMeter:     meter,
		debugMessage: debugMessage,
		metrics:      params.Metrics,
		logger:       logging.NewLogger("call-stack"),
	}
}

// RunCall creates a stack by calling into dest and runs it. The returned code length is
// that of the called code, zero if it could not be loaded.
//
// debugMessage must only be set outside of consensus, e.g. when serving an RPC.
func RunCall(
	params Params,
	origin, dest types.Address,
	meter *gas.Meter,
	value types.Value,
	input []byte,
	debugMessage *bytes.Buffer,
) (ExecReturnValue, uint32, error) {
	stack := newStack(params, origin, meter, debugMessage)
	executable, codeLen, err := stack.pushFrame(callFrame(dest, nil), value, 0)
	if err != nil {
		return ExecReturnValue{}, codeLen, err
	}
	return stack.run(executable, input)
}

// RunInstantiate creates a stack by instantiating a contract from executable and runs it.
// The new contract lives at types.ContractAddress(origin, codeHash, salt).
//
// debugMessage must only be set outside of consensus, e.g. when serving an RPC.
func RunInstantiate(
	params Params,
	origin types.Address,
	executable Executable,
	meter *gas.Meter,
	value types.Value,
	input []byte,
	salt []byte,
	debugMessage *bytes.Buffer,
) (types.Address, ExecReturnValue, error) {
	stack := newStack(params, origin, meter, debugMessage)
	if _, _, err := stack.pushFrame(instantiateFrame(origin, executable, salt), value, 0); err != nil {
		return types.EmptyAddress, ExecReturnValue{}, err
	}
	account := stack.topFrame().accountId
	ret, _, err := stack.run(executable, input)
	if err != nil {
		return types.EmptyAddress, ExecReturnValue{}, err
	}
	return account, ret, nil
}

func (s *Stack) topFrame() *Frame {
	return s.frames[len(s.frames)-1]
}

// pushFrame creates a frame on top of the stack. The budget of the new frame is carved out
// of the meter of the current top frame, so a frame can never spend more than its parent
// allotted to it.
func (s *Stack) pushFrame(args frameArgs, value types.Value, gasLimit types.Gas) (Executable, uint32, error) {
	if len(s.frames) == int(s.config.MaxCallDepth)+1 {
		return nil, 0, callerError(types.NewError(types.ErrorMaxCallDepthReached))
	}

	parentMeter := s.gasMeter
	if len(s.frames) > 0 {
		parentMeter = s.topFrame().nestedMeter
	}

	frame, executable, codeLen, err := s.newFrame(args, value, parentMeter, gasLimit)
	if err != nil {
		return nil, codeLen, callerError(err)
	}
	s.frames = append(s.frames, frame)
	s.maxDepth = max(s.maxDepth, len(s.frames))

	s.logger.Debug().
		Stringer(logging.FieldAccountAddress, frame.accountId).
		Stringer(logging.FieldEntryPoint, frame.entryPoint).
		Int(logging.FieldDepth, len(s.frames)).
		Stringer(logging.FieldGasLimit, frame.nestedMeter.Limit()).
		Msg("Frame pushed")

	return executable, codeLen, nil
}

func (s *Stack) newFrame(
	args frameArgs, value types.Value, parentMeter *gas.Meter, gasLimit types.Gas,
) (*Frame, Executable, uint32, error) {
	var (
		account    types.Address
		info       *types.ContractInfo
		executable Executable
		entryPoint EntryPoint
	)

	if args.executable == nil {
		account = args.dest
		entryPoint = EntryPointCall

		info = args.cachedInfo
		if info == nil {
			var err error
			if info, err = s.store.LoadContract(account); err != nil {
				return nil, nil, 0, err
			}
			if info == nil {
				return nil, nil, 0, types.NewVerboseError(types.ErrorNotCallable, account.Hex())
			}
		}

		var err error
		executable, err = s.loader.FromStorage(info.CodeHash, &s.config.Schedule, parentMeter)
		if err != nil {
			return nil, nil, 0, err
		}
	} else {
		executable = args.executable
		account = types.ContractAddress(args.sender, executable.CodeHash(), args.salt)
		entryPoint = EntryPointConstructor
		info = &types.ContractInfo{
			CodeHash:      executable.CodeHash(),
			RentAllowance: types.MaxValue(),
			RentPaid:      types.NewZeroValue(),
			DeductBlock:   s.block.Number,
		}
	}

	codeLen := executable.CodeLen()
	nestedMeter, err := parentMeter.Nested(gasLimit)
	if err != nil {
		return nil, nil, codeLen, err
	}

	rentParams, err := newRentParams(s.ledger, account, value, info, executable)
	if err == nil && entryPoint == EntryPointConstructor {
		var seed uint64
		if seed, err = s.nextTrieSeed(); err == nil {
			info.TrieId = s.store.GenerateTrieId(account, seed)
		}
	}
	if err != nil {
		parentMeter.Absorb(nestedMeter)
		return nil, nil, codeLen, err
	}

	return &Frame{
		accountId:        account,
		contractInfo:     Cached(info),
		valueTransferred: value,
		rentParams:       rentParams,
		entryPoint:       entryPoint,
		nestedMeter:      nestedMeter,
	}, executable, codeLen, nil
}

// run runs the top frame and pops it. Everything the frame does is executed in one store
// transaction that is committed only if the frame succeeds. Gas is spent either way.
func (s *Stack) run(executable Executable, input []byte) (ExecReturnValue, uint32, error) {
	var (
		output  ExecReturnValue
		codeLen uint32
		err     error
		success bool
	)
	s.store.WithTransaction(func() bool {
		output, codeLen, err = s.execute(executable, input)
		success = err == nil && output.IsSuccess()
		return success
	})

	if popErr := s.popFrame(success); popErr != nil && err == nil {
		err = callerError(popErr)
	}
	return output, codeLen, err
}

func (s *Stack) execute(executable Executable, input []byte) (ExecReturnValue, uint32, error) {
	frame := s.topFrame()
	codeLen := executable.CodeLen()

	// Every call or instantiation optionally transfers value.
	if err := s.initialTransfer(); err != nil {
		return ExecReturnValue{}, 0, callerError(err)
	}

	output, err := executable.Execute(s, frame.entryPoint, input)
	if err != nil {
		return ExecReturnValue{}, codeLen, calleeError(err)
	}
	if !output.IsSuccess() || frame.entryPoint != EntryPointConstructor {
		return output, codeLen, nil
	}

	// A contract may not terminate inside of its own constructor.
	if frame.contractInfo.IsTerminated() {
		return ExecReturnValue{}, codeLen, callerError(types.NewError(types.ErrorTerminatedInConstructor))
	}

	if s.config.EnforceNewContractFunding {
		balance, err := s.ledger.BalanceOf(frame.accountId)
		if err != nil {
			return ExecReturnValue{}, codeLen, callerError(err)
		}
		if balance.Lt(s.ledger.MinimumBalance()) {
			return ExecReturnValue{}, codeLen, callerError(types.NewError(types.ErrorNewContractNotFunded))
		}
	}

	info, err := frame.contractInfo.get(s.store, frame.accountId)
	if err != nil {
		return ExecReturnValue{}, codeLen, callerError(err)
	}
	if err := s.store.NewContract(frame.accountId, info); err != nil {
		return ExecReturnValue{}, codeLen, callerError(err)
	}
	if _, err := s.loader.AddUser(executable.CodeHash()); err != nil {
		return ExecReturnValue{}, codeLen, callerError(err)
	}
	frame.contractInfo = Cached(info)

	s.store.DepositEvent(types.Event{
		Kind:        types.EventInstantiated,
		Account:     frame.accountId,
		Counterpart: s.Caller(),
	})
	return output, codeLen, nil
}

// popFrame removes the top frame. This is the only place where nested meters are absorbed
// and where cached contract infos are committed: into the frame below if it runs the same
// contract, into the store otherwise.
func (s *Stack) popFrame(persist bool) error {
	frame := s.topFrame()

	// Reclaim the seed of a failed instantiation.
	if !persist && frame.entryPoint == EntryPointConstructor && s.accountCounter != nil && *s.accountCounter > 0 {
		*s.accountCounter--
	}

	s.logger.Debug().
		Stringer(logging.FieldAccountAddress, frame.accountId).
		Int(logging.FieldDepth, len(s.frames)).
		Bool(logging.FieldPersist, persist).
		Stringer(logging.FieldGasUsed, frame.nestedMeter.Spent()).
		Msg("Frame popped")
	if s.metrics != nil {
		s.metrics.RecordFrame(context.Background(), frame.entryPoint, persist)
	}

	if len(s.frames) == 1 {
		return s.finish(frame, persist)
	}

	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	prev := s.topFrame()
	prev.nestedMeter.Absorb(frame.nestedMeter)
	if assert.Enable {
		check.PanicIfNotf(prev.nestedMeter.Spent() <= prev.nestedMeter.Limit(),
			"frame of %s spent %s of %s", prev.accountId, prev.nestedMeter.Spent(), prev.nestedMeter.Limit())
	}

	// Only gas is persisted on failure. Copies invalidated by writes the failed frame made
	// are valid again since those writes are gone.
	if !persist {
		s.restoreInvalidated(frame)
		return nil
	}
	// The writes of the frame are now covered by the transaction of the frame below.
	for _, inv := range frame.invalidations {
		if inv.frame != frame {
			prev.invalidations = append(prev.invalidations, inv)
		}
	}

	switch {
	case frame.contractInfo.IsCached():
		info := frame.contractInfo.info
		// Nothing in between could roll the change back, so the frame below takes the info as is.
		if prev.accountId == frame.accountId {
			prev.contractInfo = Cached(info)
			return nil
		}
		if err := s.store.WriteContract(frame.accountId, info); err != nil {
			return err
		}
		s.invalidateBelow(frame.accountId)
	case frame.contractInfo.IsInvalidated():
		// The store already holds the newest info, written by a deeper frame. Copies further
		// down are stale as well.
		s.invalidateBelow(frame.accountId)
	}
	return nil
}

// invalidateBelow invalidates the nearest copy of account's info at or below the top frame.
// Only the nearest one: it passes the invalidation on when it is popped. The top frame records
// the change so that it can be undone if its transaction rolls back.
func (s *Stack) invalidateBelow(account types.Address) {
	top := s.topFrame()
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.accountId != account {
			continue
		}
		if f.contractInfo.IsCached() {
			top.invalidations = append(top.invalidations, invalidation{frame: f, prev: f.contractInfo})
			f.contractInfo.invalidate()
			s.logger.Debug().
				Stringer(logging.FieldAccountAddress, f.accountId).
				Int(logging.FieldDepth, i+1).
				Msg("Cached contract invalidated")
		}
		return
	}
}

// restoreInvalidated brings back the copies invalidated on behalf of a rolled back frame.
func (s *Stack) restoreInvalidated(frame *Frame) {
	for i := len(frame.invalidations) - 1; i >= 0; i-- {
		inv := frame.invalidations[i]
		if inv.frame == frame || !inv.frame.contractInfo.IsInvalidated() {
			continue
		}
		inv.frame.contractInfo = inv.prev
	}
	frame.invalidations = nil
}

// finish tears down the stack after its first frame ran.
func (s *Stack) finish(frame *Frame, persist bool) error {
	if s.debugMessage != nil {
		s.logger.Debug().Str("message", s.debugMessage.String()).Msg("Debug message")
	}

	s.gasMeter.Absorb(frame.nestedMeter)
	if assert.Enable {
		check.PanicIfNotf(s.gasMeter.Spent() <= s.gasMeter.Limit(),
			"stack spent %s of %s", s.gasMeter.Spent(), s.gasMeter.Limit())
	}
	if s.metrics != nil {
		s.metrics.RecordStack(context.Background(), s.maxDepth, frame.nestedMeter.Spent())
	}

	if persist && frame.contractInfo.IsCached() {
		if err := s.store.WriteContract(frame.accountId, frame.contractInfo.info); err != nil {
			return err
		}
	}
	if s.accountCounter != nil {
		return s.store.SetAccountCounter(*s.accountCounter)
	}
	return nil
}

// nextTrieSeed increments the cached account counter and returns the new value.
func (s *Stack) nextTrieSeed() (uint64, error) {
	if s.accountCounter == nil {
		counter, err := s.store.AccountCounter()
		if err != nil {
			return 0, err
		}
		s.accountCounter = &counter
	}
	*s.accountCounter++
	return *s.accountCounter, nil
}

// IsRecursive reports whether the contract of the top frame is on the stack more than once.
func (s *Stack) IsRecursive() bool {
	top := s.topFrame()
	for _, f := range s.frames[:len(s.frames)-1] {
		if f.accountId == top.accountId {
			return true
		}
	}
	return false
}
