package native

import (
	"bytes"
	"context"
	"testing"

	"github.com/NilFoundation/vvm/internal/balances"
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/storage"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/suite"
)

const testGas = types.Gas(10_000_000)

type SuiteNative struct {
	suite.Suite

	db       db.DB
	tx       db.RwTx
	store    *storage.Store
	ledger   *balances.Ledger
	registry *Registry
	loader   *Loader
	cfg      *config.Config

	origin types.Address
}

func (s *SuiteNative) SetupTest() {
	var err error
	s.db, err = db.NewBadgerDbInMemory()
	s.Require().NoError(err)
	s.tx, err = s.db.CreateRwTx(context.Background())
	s.Require().NoError(err)

	s.cfg = config.Default()
	s.cfg.ExistentialDeposit = types.NewValueFromUint64(10)
	s.store = storage.NewStore(s.tx)
	s.ledger = balances.NewLedger(s.store, s.cfg.ExistentialDeposit)
	s.registry = DefaultRegistry()
	s.loader = NewLoader(s.store, s.registry, s.cfg.MaxCodeSize, DefaultCacheSize)

	s.origin = types.HexToAddress("0x0a")
	s.Require().NoError(s.ledger.SetBalance(s.origin, types.NewValueFromUint64(1_000_000)))
}

func (s *SuiteNative) TearDownTest() {
	s.tx.Rollback()
	s.db.Close()
}

func (s *SuiteNative) params() exec.Params {
	return exec.Params{
		Store:  s.store,
		Ledger: s.ledger,
		Loader: s.loader,
		Config: s.cfg,
		Block:  exec.BlockContext{Number: 1, Timestamp: 1_700_000_000},
	}
}

func (s *SuiteNative) upload(name string) common.Hash {
	s.T().Helper()
	hash, err := s.loader.Upload(Code(name))
	s.Require().NoError(err)
	return hash
}

func (s *SuiteNative) instantiate(name string, value uint64, input, salt []byte) types.Address {
	s.T().Helper()
	hash := s.upload(name)
	meter := gas.NewMeter(testGas)
	executable, err := s.loader.FromStorage(hash, &s.cfg.Schedule, meter)
	s.Require().NoError(err)

	addr, ret, err := exec.RunInstantiate(
		s.params(), s.origin, executable, meter, types.NewValueFromUint64(value), input, salt, nil)
	s.Require().NoError(err)
	s.Require().True(ret.IsSuccess())
	return addr
}

func (s *SuiteNative) call(dest types.Address, input []byte, debug *bytes.Buffer) (exec.ExecReturnValue, error) {
	ret, _, err := exec.RunCall(
		s.params(), s.origin, dest, gas.NewMeter(testGas), types.NewZeroValue(), input, debug)
	return ret, err
}

func (s *SuiteNative) counterValue(addr types.Address) uint64 {
	s.T().Helper()
	info, err := s.store.LoadContract(addr)
	s.Require().NoError(err)
	s.Require().NotNil(info)
	raw, err := s.store.Read(info.TrieId, counterKey)
	s.Require().NoError(err)
	v, err := decodeUint64(raw)
	s.Require().NoError(err)
	return v
}

func (s *SuiteNative) encode(v any) []byte {
	s.T().Helper()
	data, err := rlp.EncodeToBytes(v)
	s.Require().NoError(err)
	return data
}

func (s *SuiteNative) codeInfo(hash common.Hash) *types.CodeInfo {
	s.T().Helper()
	info, err := s.store.LoadCodeInfo(hash)
	s.Require().NoError(err)
	return info
}

func (s *SuiteNative) TestRegistry() {
	s.Equal([]string{CounterName, DeployerName, ForwarderName, SelfDestructName}, s.registry.Names())

	_, err := s.registry.Register(CounterName, Counter{})
	s.Require().Error(err)

	hash, ok := s.registry.Hash(CounterName)
	s.Require().True(ok)
	s.Equal(hash, s.upload(CounterName))
}

func (s *SuiteNative) TestUpload() {
	s.Run("UnknownCode", func() {
		_, err := s.loader.Upload([]byte("not a contract"))
		s.Equal(types.ErrorCodeNotFound, types.GetErrorCode(err))

		_, err = s.loader.Upload(Code("missing"))
		s.Equal(types.ErrorCodeNotFound, types.GetErrorCode(err))
	})

	s.Run("TooLarge", func() {
		loader := NewLoader(s.store, s.registry, 4, DefaultCacheSize)
		_, err := loader.Upload(Code(CounterName))
		s.Equal(types.ErrorCodeTooLarge, types.GetErrorCode(err))
	})

	s.Run("Twice", func() {
		hash := s.upload(CounterName)
		_, err := s.loader.AddUser(hash)
		s.Require().NoError(err)

		s.upload(CounterName)
		s.Equal(uint32(1), s.codeInfo(hash).Refcount)
	})
}

func (s *SuiteNative) TestFromStorage() {
	meter := gas.NewMeter(testGas)
	_, err := s.loader.FromStorage(common.HexToHash("0x01"), &s.cfg.Schedule, meter)
	s.Equal(types.ErrorCodeNotFound, types.GetErrorCode(err))
	s.Zero(meter.Spent())

	hash := s.upload(CounterName)

	// A fresh loader has to decode the stored blob.
	loader := NewLoader(s.store, s.registry, s.cfg.MaxCodeSize, DefaultCacheSize)
	executable, err := loader.FromStorage(hash, &s.cfg.Schedule, meter)
	s.Require().NoError(err)
	s.Equal(hash, executable.CodeHash())
	s.Equal(uint32(len(Code(CounterName))), executable.CodeLen())
	s.Equal(executable.CodeLen(), executable.AggregateCodeLen())
	s.Equal(CounterName, executable.(*Executable).Name())
	s.Equal(s.cfg.Schedule.CodeLoadPerByte*types.Gas(executable.CodeLen()), meter.Spent())

	small := gas.NewMeter(1)
	_, err = loader.FromStorage(hash, &s.cfg.Schedule, small)
	s.Equal(types.ErrorOutOfGas, types.GetErrorCode(err))
}

func (s *SuiteNative) TestUsers() {
	hash := s.upload(CounterName)

	codeLen, err := s.loader.AddUser(hash)
	s.Require().NoError(err)
	s.Equal(uint32(len(Code(CounterName))), codeLen)
	_, err = s.loader.AddUser(hash)
	s.Require().NoError(err)
	s.Equal(uint32(2), s.codeInfo(hash).Refcount)

	_, err = s.loader.RemoveUser(hash)
	s.Require().NoError(err)
	s.Equal(uint32(1), s.codeInfo(hash).Refcount)

	_, err = s.loader.RemoveUser(hash)
	s.Require().NoError(err)
	s.Nil(s.codeInfo(hash))
	code, err := s.store.LoadCode(hash)
	s.Require().NoError(err)
	s.Nil(code)

	_, err = s.loader.RemoveUser(hash)
	s.Equal(types.ErrorCodeNotFound, types.GetErrorCode(err))
}

func (s *SuiteNative) TestCounter() {
	addr := s.instantiate(CounterName, 100, s.encode(uint64(5)), nil)
	s.Equal(uint64(5), s.counterValue(addr))

	hash, _ := s.registry.Hash(CounterName)
	s.Equal(uint32(1), s.codeInfo(hash).Refcount)

	var debug bytes.Buffer
	ret, err := s.call(addr, nil, &debug)
	s.Require().NoError(err)
	s.Equal(encodeUint64(6), ret.Data)
	s.Equal("counter: 6\n", debug.String())

	events := s.store.Events()
	s.Require().NotEmpty(events)
	last := events[len(events)-1]
	s.Equal(types.EventContractEmitted, last.Kind)
	s.Equal(addr, last.Account)
	s.Equal([]common.Hash{IncrementedTopic}, last.Topics)
	s.Equal(encodeUint64(6), last.Data)

	ret, err = s.call(addr, s.encode(CounterInput{Delta: 10, Revert: true}), nil)
	s.Require().NoError(err)
	s.False(ret.IsSuccess())
	s.Equal(encodeUint64(16), ret.Data)
	s.Equal(uint64(6), s.counterValue(addr))

	_, err = s.call(addr, []byte{0xff, 0x01}, nil)
	s.Equal(types.ErrorInvalidInput, types.GetErrorCode(err))
	s.Equal(exec.OriginCallee, exec.OriginOf(err))
}

func (s *SuiteNative) TestForwarder() {
	counter := s.instantiate(CounterName, 100, nil, nil)
	forwarder := s.instantiate(ForwarderName, 100, nil, nil)

	ret, err := s.call(forwarder, s.encode(ForwardInput{Target: counter, Value: types.NewValueFromUint64(5)}), nil)
	s.Require().NoError(err)
	s.True(ret.IsSuccess())
	s.Equal(encodeUint64(1), ret.Data)
	s.Equal(uint64(1), s.counterValue(counter))
	s.Equal(uint64(105), s.balanceOf(counter))

	// Reverting the forwarder discards the nested increment as well.
	ret, err = s.call(forwarder, s.encode(ForwardInput{Target: counter, Revert: true}), nil)
	s.Require().NoError(err)
	s.False(ret.IsSuccess())
	s.Equal(uint64(1), s.counterValue(counter))

	_, err = s.call(forwarder, s.encode(ForwardInput{Target: counter, GasLimit: uint64(testGas) * 2}), nil)
	s.Equal(types.ErrorOutOfGas, types.GetErrorCode(err))

	// The forwarder may not drop below its subsistence threshold.
	_, err = s.call(forwarder, s.encode(ForwardInput{Target: counter, Value: types.NewValueFromUint64(95)}), nil)
	s.Equal(types.ErrorBelowSubsistenceThreshold, types.GetErrorCode(err))
	s.Equal(uint64(95), s.balanceOf(forwarder))
}

func (s *SuiteNative) TestDeployer() {
	counterHash := s.upload(CounterName)
	deployer := s.instantiate(DeployerName, 1_000, nil, nil)

	ret, err := s.call(deployer, s.encode(DeployInput{
		CodeHash: counterHash,
		Value:    types.NewValueFromUint64(50),
		Input:    s.encode(uint64(41)),
		Salt:     []byte("salt"),
	}), nil)
	s.Require().NoError(err)
	s.Require().True(ret.IsSuccess())

	addr := types.BytesToAddress(ret.Data)
	s.Equal(types.ContractAddress(deployer, counterHash, []byte("salt")), addr)
	s.Equal(uint64(41), s.counterValue(addr))
	s.Equal(uint64(50), s.balanceOf(addr))
	s.Equal(uint32(1), s.codeInfo(counterHash).Refcount)

	// Same salt again.
	_, err = s.call(deployer, s.encode(DeployInput{CodeHash: counterHash, Salt: []byte("salt")}), nil)
	s.Equal(types.ErrorDuplicateContract, types.GetErrorCode(err))
	s.Equal(uint32(1), s.codeInfo(counterHash).Refcount)
}

func (s *SuiteNative) TestSelfDestruct() {
	beneficiary := types.HexToAddress("0xbe")
	hash := s.upload(SelfDestructName)
	meter := gas.NewMeter(testGas)
	executable, err := s.loader.FromStorage(hash, &s.cfg.Schedule, meter)
	s.Require().NoError(err)

	_, _, err = exec.RunInstantiate(s.params(), s.origin, executable, meter, types.NewValueFromUint64(100),
		s.encode(SelfDestructInput{Beneficiary: beneficiary}), nil, nil)
	s.Equal(types.ErrorTerminatedInConstructor, types.GetErrorCode(err))
	s.Zero(s.balanceOf(beneficiary))

	addr := s.instantiate(SelfDestructName, 100, nil, nil)
	s.Equal(uint32(1), s.codeInfo(hash).Refcount)

	_, err = s.call(addr, s.encode(SelfDestructInput{Beneficiary: beneficiary}), nil)
	s.Require().NoError(err)
	s.Equal(uint64(100), s.balanceOf(beneficiary))

	info, err := s.store.LoadContract(addr)
	s.Require().NoError(err)
	s.Nil(info)
	// The last user took the code with it.
	s.Nil(s.codeInfo(hash))
}

func (s *SuiteNative) balanceOf(addr types.Address) uint64 {
	s.T().Helper()
	b, err := s.ledger.BalanceOf(addr)
	s.Require().NoError(err)
	return b.Uint64()
}

func TestSuiteNative(t *testing.T) {
	t.Parallel()

	suite.Run(t, new(SuiteNative))
}
