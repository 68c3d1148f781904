package types

import (
	"strconv"
)

type Gas uint64

func (g Gas) Uint64() uint64 {
	return uint64(g)
}

func (g Gas) Add(other Gas) Gas {
	return Gas(g.Uint64() + other.Uint64())
}

func (g Gas) Sub(other Gas) Gas {
	return Gas(g.Uint64() - other.Uint64())
}

func (g Gas) Lt(other Gas) bool {
	return g.Uint64() < other.Uint64()
}

// ToValue converts the amount of gas to the value paid for it at the given price.
func (g Gas) ToValue(price Value) (Value, bool) {
	return price.Mul64(g.Uint64())
}

func (g Gas) String() string {
	return strconv.FormatUint(g.Uint64(), 10)
}

func (g *Gas) Set(value string) error {
	res, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return err
	}
	*g = Gas(res)
	return nil
}

func (Gas) Type() string {
	return "Gas"
}

type BlockNumber uint64

func (bn BlockNumber) Uint64() uint64 {
	return uint64(bn)
}

func (bn BlockNumber) String() string {
	return strconv.FormatUint(uint64(bn), 10)
}
