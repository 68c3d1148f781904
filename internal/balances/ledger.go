package balances

import (
	"fmt"

	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/storage"
	"github.com/NilFoundation/vvm/internal/types"
)

// ExistenceRequirement tells a transfer whether it may reap the sender.
type ExistenceRequirement int

const (
	// KeepAlive fails a transfer that would leave the sender below the existential deposit.
	KeepAlive ExistenceRequirement = iota
	// AllowDeath lets the transfer remove the sender; the dust left below the existential
	// deposit is burned.
	AllowDeath
)

func (r ExistenceRequirement) String() string {
	if r == AllowDeath {
		return "AllowDeath"
	}
	return "KeepAlive"
}

// Ledger keeps account balances in the store, so balance changes are rolled back together
// with the storage writes of a failed frame.
type Ledger struct {
	store              *storage.Store
	existentialDeposit types.Value
}

func NewLedger(store *storage.Store, existentialDeposit types.Value) *Ledger {
	return &Ledger{
		store:              store,
		existentialDeposit: existentialDeposit,
	}
}

func (l *Ledger) BalanceOf(account types.Address) (types.Value, error) {
	data, err := l.store.Get(db.BalanceTable, account.Bytes())
	if err != nil {
		return types.Value{}, err
	}
	return types.NewValueFromBytes(data), nil
}

// SetBalance overwrites a balance. Zero balances are removed from the store.
func (l *Ledger) SetBalance(account types.Address, value types.Value) error {
	if value.IsZero() {
		return l.store.Delete(db.BalanceTable, account.Bytes())
	}
	b := value.Bytes32()
	return l.store.Put(db.BalanceTable, account.Bytes(), b[:])
}

// MinimumBalance is the existential deposit: the least balance an account may hold.
func (l *Ledger) MinimumBalance() types.Value {
	return l.existentialDeposit
}

// Transfer moves amount from one account to another.
//
// It fails with ErrorInsufficientBalance if the sender does not have amount, and with
// ErrorExistentialDeposit if the sender would drop below the existential deposit under
// KeepAlive or the recipient would end up below it. A transfer to the sender itself changes
// nothing once the sender is known to have amount.
func (l *Ledger) Transfer(
	from, to types.Address, amount types.Value, requirement ExistenceRequirement,
) error {
	if amount.IsZero() {
		return nil
	}

	fromBalance, err := l.BalanceOf(from)
	if err != nil {
		return err
	}
	newFrom, underflow := fromBalance.SubOverflow(amount)
	if underflow {
		return types.NewVerboseError(types.ErrorInsufficientBalance,
			fmt.Sprintf("%s has %s, needs %s", from, fromBalance, amount))
	}
	if from == to {
		return nil
	}
	if newFrom.Lt(l.existentialDeposit) {
		if requirement == KeepAlive {
			return types.NewVerboseError(types.ErrorExistentialDeposit,
				fmt.Sprintf("transfer would kill %s", from))
		}
		newFrom = types.NewZeroValue()
	}

	toBalance, err := l.BalanceOf(to)
	if err != nil {
		return err
	}
	newTo, overflow := toBalance.AddOverflow(amount)
	if overflow {
		return types.NewVerboseError(types.ErrorTransferFailed, "recipient balance overflow")
	}
	if newTo.Lt(l.existentialDeposit) {
		return types.NewVerboseError(types.ErrorExistentialDeposit,
			fmt.Sprintf("%s would be created below the existential deposit", to))
	}

	if err := l.SetBalance(from, newFrom); err != nil {
		return err
	}
	if err := l.SetBalance(to, newTo); err != nil {
		return err
	}
	l.store.DepositEvent(types.Event{
		Kind:        types.EventTransfer,
		Account:     from,
		Counterpart: to,
		Amount:      amount,
	})
	return nil
}
