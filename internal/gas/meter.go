package gas

import (
	"github.com/NilFoundation/vvm/common/check"
	"github.com/NilFoundation/vvm/internal/types"
)

// Meter is a consumable gas budget. A child budget is carved out of a parent with Nested
// and its unused remainder is returned with Absorb. Spent gas is never given back, not even
// when the state changes paid for with it are rolled back.
type Meter struct {
	limit    types.Gas
	left     types.Gas
	absorbed bool
}

func NewMeter(limit types.Gas) *Meter {
	return &Meter{limit: limit, left: limit}
}

func (m *Meter) Limit() types.Gas {
	return m.limit
}

func (m *Meter) Left() types.Gas {
	return m.left
}

// Spent is the gas consumed from this meter, including whatever nested meters took and did
// not return.
func (m *Meter) Spent() types.Gas {
	return m.limit - m.left
}

// Charge consumes amount. If the budget is insufficient, the whole remainder is consumed
// and ErrorOutOfGas is returned.
func (m *Meter) Charge(amount types.Gas) error {
	if amount > m.left {
		m.left = 0
		return types.NewError(types.ErrorOutOfGas)
	}
	m.left -= amount
	return nil
}

// Nested carves a child budget of limit out of the meter. A zero limit takes everything
// that is left. A limit above the remaining budget fails with ErrorOutOfGas and leaves the
// meter untouched.
func (m *Meter) Nested(limit types.Gas) (*Meter, error) {
	if limit == 0 {
		limit = m.left
	}
	if limit > m.left {
		return nil, types.NewError(types.ErrorOutOfGas)
	}
	m.left -= limit
	return NewMeter(limit), nil
}

// Absorb returns the unused budget of a nested meter. A nested meter may be absorbed once.
func (m *Meter) Absorb(nested *Meter) {
	check.PanicIfNot(!nested.absorbed)
	nested.absorbed = true
	m.left = m.left.Add(nested.left)
}
