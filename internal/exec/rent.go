package exec

import (
	"github.com/NilFoundation/vvm/internal/types"
)

// RentFraction is the share of the deposit charged as rent per block, as a ratio.
type RentFraction struct {
	Numerator   uint32
	Denominator uint32
}

var defaultRentFraction = RentFraction{Numerator: 4, Denominator: 10_000}

// RentParams is the snapshot of the figures storage rent is computed from. It is taken once,
// when a frame is created.
type RentParams struct {
	// Balances include the value transferred into the frame.
	TotalBalance types.Value
	FreeBalance  types.Value

	SubsistenceThreshold  types.Value
	DepositPerContract    types.Value
	DepositPerStorageByte types.Value
	DepositPerStorageItem types.Value
	RentAllowance         types.Value
	RentFraction          RentFraction

	StorageSize  uint32
	CodeSize     uint32
	CodeRefcount uint32
	// Share of CodeSize attributed to this contract.
	OccupiedCodeStorage uint32
}

func newRentParams(
	ledger Ledger, account types.Address, value types.Value, info *types.ContractInfo, executable Executable,
) (RentParams, error) {
	balance, err := ledger.BalanceOf(account)
	if err != nil {
		return RentParams{}, err
	}
	balance = balance.SaturatingAdd(value)
	minimum := ledger.MinimumBalance()

	return RentParams{
		TotalBalance:          balance,
		FreeBalance:           balance,
		SubsistenceThreshold:  minimum,
		DepositPerContract:    minimum,
		DepositPerStorageByte: minimum,
		DepositPerStorageItem: minimum,
		RentAllowance:         info.RentAllowance,
		RentFraction:          defaultRentFraction,
		StorageSize:           info.StorageSize,
		CodeSize:              executable.AggregateCodeLen(),
		CodeRefcount:          executable.Refcount(),
		OccupiedCodeStorage:   OccupiedStorage(executable),
	}, nil
}
