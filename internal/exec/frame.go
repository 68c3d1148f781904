package exec

import (
	"github.com/NilFoundation/vvm/common/check"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
)

type cacheState uint8

const (
	stateCached cacheState = iota
	stateInvalidated
	stateTerminated
)

// CachedContract is the in-memory copy of the metadata of the contract a frame executes.
//
// A cached copy goes stale when a deeper frame of the same contract commits changes while a
// frame of another contract lies in between; it is then Invalidated and reloaded from the
// store on next use. A Terminated contract must not be used at all.
type CachedContract struct {
	state cacheState
	info  *types.ContractInfo
}

func Cached(info *types.ContractInfo) CachedContract {
	check.PanicIfNot(info != nil)
	return CachedContract{state: stateCached, info: info}
}

func (c *CachedContract) IsCached() bool {
	return c.state == stateCached
}

func (c *CachedContract) IsInvalidated() bool {
	return c.state == stateInvalidated
}

func (c *CachedContract) IsTerminated() bool {
	return c.state == stateTerminated
}

// load reloads an invalidated copy. The contract must still exist: an invalidated copy
// of a removed contract means the stack let a frame outlive its contract.
func (c *CachedContract) load(store ContractStore, account types.Address) error {
	switch c.state {
	case stateCached:
		return nil
	case stateTerminated:
		panic("access to a terminated contract " + account.Hex())
	}

	info, err := store.LoadContract(account)
	if err != nil {
		return err
	}
	check.PanicIfNotf(info != nil, "invalidated contract %s is gone from the store", account)
	*c = Cached(info)
	return nil
}

// get materializes the cached info, reloading it if needed.
func (c *CachedContract) get(store ContractStore, account types.Address) (*types.ContractInfo, error) {
	if err := c.load(store, account); err != nil {
		return nil, err
	}
	return c.info, nil
}

func (c *CachedContract) invalidate() {
	*c = CachedContract{state: stateInvalidated}
}

// terminate marks the contract terminated and returns its last info.
func (c *CachedContract) terminate(store ContractStore, account types.Address) (*types.ContractInfo, error) {
	info, err := c.get(store, account)
	if err != nil {
		return nil, err
	}
	*c = CachedContract{state: stateTerminated}
	return info, nil
}

// Frame is one activation of a contract on the call stack.
type Frame struct {
	accountId        types.Address
	contractInfo     CachedContract
	valueTransferred types.Value
	rentParams       RentParams
	entryPoint       EntryPoint
	// Absorbed into the meter below exactly once, when the frame is popped.
	nestedMeter *gas.Meter
	// Copies of lower frames invalidated by writes this frame's transaction covers.
	invalidations []invalidation
}

type invalidation struct {
	frame *Frame
	prev  CachedContract
}
