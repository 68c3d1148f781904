package exec

import (
	"github.com/NilFoundation/vvm/common/logging"
	"github.com/NilFoundation/vvm/internal/balances"
	"github.com/NilFoundation/vvm/internal/types"
)

// transfer moves value between accounts.
//
// Draining the sender is only possible with allowDeath. Otherwise a contract sender must
// keep the subsistence threshold, and a plain account sender the existential deposit as
// enforced by the ledger.
func (s *Stack) transfer(senderIsContract, allowDeath bool, from, to types.Address, value types.Value) error {
	if value.IsZero() {
		return nil
	}

	requirement := balances.KeepAlive
	switch {
	case allowDeath:
		requirement = balances.AllowDeath
	case senderIsContract:
		balance, err := s.ledger.BalanceOf(from)
		if err != nil {
			return err
		}
		if balance.SaturatingSub(value).Lt(s.ledger.MinimumBalance()) {
			return types.NewError(types.ErrorBelowSubsistenceThreshold)
		}
	}

	if err := s.ledger.Transfer(from, to, value, requirement); err != nil {
		s.logger.Debug().
			Err(err).
			Stringer(logging.FieldAccountAddress, from).
			Stringer(logging.FieldValue, value).
			Msg("Ledger refused transfer")
		return types.NewError(types.ErrorTransferFailed)
	}
	return nil
}

// initialTransfer is the transfer accompanying every call or instantiation.
func (s *Stack) initialTransfer() error {
	top := s.topFrame()
	return s.transfer(len(s.frames) > 1, false, s.Caller(), top.accountId, top.valueTransferred)
}
