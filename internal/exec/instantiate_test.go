package exec

import (
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
)

func (s *SuiteStack) instantiate(e *mockExecutable, v uint64, input, salt []byte) (types.Address, ExecReturnValue, error) {
	meter := gas.NewMeter(defaultGas)
	return RunInstantiate(s.params(), s.origin, e, meter, value(v), input, salt, nil)
}

func (s *SuiteStack) TestInstantiate() {
	ctor := s.loader.insert(func(ext Ext, entryPoint EntryPoint, input []byte) (ExecReturnValue, error) {
		if entryPoint == EntryPointConstructor {
			s.Require().NoError(ext.SetStorage(key(1), input))
			return success()
		}
		data, err := ext.GetStorage(key(1))
		if err != nil {
			return ExecReturnValue{}, err
		}
		return returnData(data)
	})

	salt := []byte("salt")
	addr, _, err := s.instantiate(ctor, 100, []byte("init"), salt)
	s.Require().NoError(err)
	s.Equal(types.ContractAddress(s.origin, ctor.codeHash, salt), addr)

	info := s.contractInfo(addr)
	s.Equal(ctor.codeHash, info.CodeHash)
	s.Equal(s.store.GenerateTrieId(addr, 1), info.TrieId)
	s.Equal(uint32(1), info.PairCount)
	s.Equal(types.BlockNumber(10), info.DeductBlock)
	s.Equal([]byte("init"), s.storageAt(addr, key(1)))

	s.Equal(uint64(1), s.accountCounter())
	s.Equal(uint32(1), ctor.Refcount())
	s.Equal(uint64(100), s.balance(addr))

	var instantiated []types.Event
	for _, event := range s.store.Events() {
		if event.Kind == types.EventInstantiated {
			instantiated = append(instantiated, event)
		}
	}
	s.Require().Len(instantiated, 1)
	s.Equal(addr, instantiated[0].Account)
	s.Equal(s.origin, instantiated[0].Counterpart)

	// The contract is callable afterwards.
	ret, _, err, _ := s.call(addr, 0, nil)
	s.Require().NoError(err)
	s.Equal([]byte("init"), ret.Data)
}

func (s *SuiteStack) TestTerminateInConstructor() {
	beneficiary := s.newAccount()
	ctor := s.loader.insert(func(ext Ext, entryPoint EntryPoint, _ []byte) (ExecReturnValue, error) {
		s.Require().NoError(ext.SetStorage(key(1), []byte("x")))
		_, err := ext.Terminate(beneficiary)
		s.Require().NoError(err)
		return success()
	})

	addr, _, err := s.instantiate(ctor, 100, nil, nil)
	s.requireCode(err, types.ErrorTerminatedInConstructor)
	s.Equal(OriginCaller, OriginOf(err))
	s.Equal(types.EmptyAddress, addr)

	created, err := s.store.LoadContract(types.ContractAddress(s.origin, ctor.codeHash, nil))
	s.Require().NoError(err)
	s.Nil(created)

	s.Equal(uint64(1_000_000), s.balance(s.origin))
	s.Zero(s.balance(beneficiary))
	s.Zero(s.accountCounter())
	s.Zero(ctor.Refcount())
	s.Empty(s.store.Events())
}

func (s *SuiteStack) TestDuplicateContract() {
	ctor := s.loader.insert(func(Ext, EntryPoint, []byte) (ExecReturnValue, error) {
		return success()
	})

	_, _, err := s.instantiate(ctor, 0, nil, []byte("x"))
	s.Require().NoError(err)

	_, _, err = s.instantiate(ctor, 0, nil, []byte("x"))
	s.requireCode(err, types.ErrorDuplicateContract)
	s.Equal(OriginCaller, OriginOf(err))
	s.Equal(uint64(1), s.accountCounter())

	_, _, err = s.instantiate(ctor, 0, nil, []byte("y"))
	s.Require().NoError(err)
	s.Equal(uint64(2), s.accountCounter())
}

func (s *SuiteStack) TestNewContractNotFunded() {
	s.cfg.EnforceNewContractFunding = true
	ctor := s.loader.insert(func(Ext, EntryPoint, []byte) (ExecReturnValue, error) {
		return success()
	})

	_, _, err := s.instantiate(ctor, 0, nil, nil)
	s.requireCode(err, types.ErrorNewContractNotFunded)

	_, _, err = s.instantiate(ctor, 100, nil, nil)
	s.Require().NoError(err)
}

func (s *SuiteStack) TestNestedInstantiate() {
	failing := s.loader.insert(func(Ext, EntryPoint, []byte) (ExecReturnValue, error) {
		return revert()
	})
	child := s.loader.insert(func(ext Ext, entryPoint EntryPoint, _ []byte) (ExecReturnValue, error) {
		if entryPoint == EntryPointConstructor {
			s.Require().NoError(ext.SetStorage(key(1), []byte("child")))
		}
		return success()
	})

	var (
		childAddr types.Address
		failedErr error
	)
	deployer := s.loader.insert(func(ext Ext, _ EntryPoint, _ []byte) (ExecReturnValue, error) {
		_, ret, _, err := ext.Instantiate(0, failing.codeHash, value(0), nil, nil)
		s.Require().NoError(err)
		s.False(ret.IsSuccess())

		_, _, _, failedErr = ext.Instantiate(0, failing.codeHash, value(1_000), nil, nil)

		childAddr, _, _, err = ext.Instantiate(0, child.codeHash, value(20), nil, []byte("salt"))
		s.Require().NoError(err)

		// Callable as soon as the constructor returned.
		_, _, err = ext.Call(0, childAddr, value(0), nil)
		s.Require().NoError(err)
		return success()
	})
	deployerAddr := s.deploy(deployer, 100)

	_, _, err, _ := s.call(deployerAddr, 0, nil)
	s.Require().NoError(err)

	s.requireCode(failedErr, types.ErrorBelowSubsistenceThreshold)
	reverted, err := s.store.LoadContract(types.ContractAddress(deployerAddr, failing.codeHash, nil))
	s.Require().NoError(err)
	s.Nil(reverted)

	s.Equal(types.ContractAddress(deployerAddr, child.codeHash, []byte("salt")), childAddr)
	// Failed instantiations give their seeds back.
	s.Equal(uint64(1), s.accountCounter())
	info := s.contractInfo(childAddr)
	s.Equal(s.store.GenerateTrieId(childAddr, 1), info.TrieId)
	s.Equal([]byte("child"), s.storageAt(childAddr, key(1)))
	s.Equal(uint64(20), s.balance(childAddr))
	s.Equal(uint64(80), s.balance(deployerAddr))

	var instantiated []types.Event
	for _, event := range s.store.Events() {
		if event.Kind == types.EventInstantiated {
			instantiated = append(instantiated, event)
		}
	}
	s.Require().Len(instantiated, 1)
	s.Equal(childAddr, instantiated[0].Account)
	s.Equal(deployerAddr, instantiated[0].Counterpart)
}

func (s *SuiteStack) TestConstructorCannotBeCalled() {
	var (
		selfAddr types.Address
		callErr  error
	)
	ctor := s.loader.insert(func(ext Ext, entryPoint EntryPoint, _ []byte) (ExecReturnValue, error) {
		if entryPoint == EntryPointConstructor {
			selfAddr = ext.Address()
			_, _, callErr = ext.Call(0, selfAddr, value(0), nil)
		}
		return success()
	})

	_, _, err := s.instantiate(ctor, 0, nil, nil)
	s.Require().NoError(err)
	s.requireCode(callErr, types.ErrorNotCallable)
}

func (s *SuiteStack) TestTerminate() {
	beneficiary := s.newAccount()
	var addr types.Address
	e := s.loader.insert(func(ext Ext, _ EntryPoint, input []byte) (ExecReturnValue, error) {
		if len(input) == 0 {
			s.Require().NoError(ext.SetStorage(key(1), []byte("data")))
			return success()
		}
		codeLen, err := ext.Terminate(beneficiary)
		s.Require().NoError(err)
		s.NotZero(codeLen)
		return success()
	})
	addr = s.deploy(e, 500)

	_, _, err, _ := s.call(addr, 0, nil)
	s.Require().NoError(err)
	trieId := s.contractInfo(addr).TrieId

	_, _, err, _ = s.call(addr, 0, []byte{1})
	s.Require().NoError(err)

	info, err := s.store.LoadContract(addr)
	s.Require().NoError(err)
	s.Nil(info)

	val, err := s.store.Read(trieId, key(1))
	s.Require().NoError(err)
	s.Nil(val)

	s.Equal(uint64(500), s.balance(beneficiary))
	s.Zero(s.balance(addr))
	s.Zero(e.Refcount())

	events := s.store.Events()
	s.Require().NotEmpty(events)
	last := events[len(events)-1]
	s.Equal(types.EventTerminated, last.Kind)
	s.Equal(addr, last.Account)
	s.Equal(beneficiary, last.Counterpart)

	_, _, err, _ = s.call(addr, 0, nil)
	s.requireCode(err, types.ErrorNotCallable)
}

func (s *SuiteStack) TestTerminateReentranceDenied() {
	var aAddr, bAddr types.Address
	var terminateErr error

	a := s.loader.insert(func(ext Ext, _ EntryPoint, input []byte) (ExecReturnValue, error) {
		if len(input) > 0 {
			_, terminateErr = ext.Terminate(s.origin)
			return success()
		}
		_, _, err := ext.Call(0, bAddr, value(0), nil)
		s.Require().NoError(err)
		return success()
	})
	b := s.loader.insert(func(ext Ext, _ EntryPoint, _ []byte) (ExecReturnValue, error) {
		_, _, err := ext.Call(0, aAddr, value(0), []byte{1})
		s.Require().NoError(err)
		return success()
	})
	aAddr = s.deploy(a, 100)
	bAddr = s.deploy(b, 100)

	_, _, err, _ := s.call(aAddr, 0, nil)
	s.Require().NoError(err)
	s.requireCode(terminateErr, types.ErrorReentranceDenied)
	s.NotNil(s.contractInfo(aAddr))
	s.Equal(uint64(100), s.balance(aAddr))
}
