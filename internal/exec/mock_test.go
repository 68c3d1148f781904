package exec

import (
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

type execFunc func(ext Ext, entryPoint EntryPoint, input []byte) (ExecReturnValue, error)

type mockExecutable struct {
	codeHash common.Hash
	code     []byte
	loader   *mockLoader
	fn       execFunc
}

func (e *mockExecutable) Execute(ext Ext, entryPoint EntryPoint, input []byte) (ExecReturnValue, error) {
	return e.fn(ext, entryPoint, input)
}

func (e *mockExecutable) CodeHash() common.Hash    { return e.codeHash }
func (e *mockExecutable) CodeLen() uint32          { return uint32(len(e.code)) }
func (e *mockExecutable) AggregateCodeLen() uint32 { return 2 * uint32(len(e.code)) }
func (e *mockExecutable) Refcount() uint32         { return e.loader.refcount[e.codeHash] }

// mockLoader keeps executables in memory and charges the code load like a real loader.
type mockLoader struct {
	executables map[common.Hash]*mockExecutable
	refcount    map[common.Hash]uint32
	next        byte
}

func newMockLoader() *mockLoader {
	return &mockLoader{
		executables: make(map[common.Hash]*mockExecutable),
		refcount:    make(map[common.Hash]uint32),
	}
}

// insert registers fn under a fresh code hash. Every executable gets its own code size.
func (l *mockLoader) insert(fn execFunc) *mockExecutable {
	l.next++
	hash := common.BytesToHash([]byte{l.next})
	e := &mockExecutable{
		codeHash: hash,
		code:     make([]byte, 10+int(l.next)),
		loader:   l,
		fn:       fn,
	}
	l.executables[hash] = e
	return e
}

func (l *mockLoader) FromStorage(codeHash common.Hash, schedule *config.Schedule, meter *gas.Meter) (Executable, error) {
	e, ok := l.executables[codeHash]
	if !ok {
		return nil, types.NewError(types.ErrorCodeNotFound)
	}
	if err := meter.Charge(schedule.CodeLoadPerByte * types.Gas(len(e.code))); err != nil {
		return nil, err
	}
	return e, nil
}

func (l *mockLoader) AddUser(codeHash common.Hash) (uint32, error) {
	e, ok := l.executables[codeHash]
	if !ok {
		return 0, types.NewError(types.ErrorCodeNotFound)
	}
	l.refcount[codeHash]++
	return e.CodeLen(), nil
}

func (l *mockLoader) RemoveUser(codeHash common.Hash) (uint32, error) {
	e, ok := l.executables[codeHash]
	if !ok {
		return 0, types.NewError(types.ErrorCodeNotFound)
	}
	if l.refcount[codeHash] > 0 {
		l.refcount[codeHash]--
	}
	return e.CodeLen(), nil
}

func success() (ExecReturnValue, error) {
	return ExecReturnValue{}, nil
}

func revert() (ExecReturnValue, error) {
	return ExecReturnValue{Flags: FlagRevert}, nil
}

func returnData(data []byte) (ExecReturnValue, error) {
	return ExecReturnValue{Data: data}, nil
}
