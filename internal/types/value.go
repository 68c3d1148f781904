package types

import (
	"fmt"
	"io"

	"github.com/NilFoundation/vvm/common/check"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Value is a balance amount. The zero Value is a valid zero amount.
type Value struct{ *uint256.Int }

var (
	_ rlp.Encoder = Value{}
	_ rlp.Decoder = (*Value)(nil)
)

func NewValueFromUint64(val uint64) Value {
	return Value{uint256.NewInt(val)}
}

func NewZeroValue() Value {
	return Value{new(uint256.Int)}
}

// MaxValue returns the largest representable amount.
func MaxValue() Value {
	return Value{new(uint256.Int).SetAllOne()}
}

func NewValueFromDecimal(s string) (Value, error) {
	res, err := uint256.FromDecimal(s)
	if err != nil {
		return Value{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return Value{res}, nil
}

func (v Value) safeInt() *uint256.Int {
	if v.Int == nil {
		return new(uint256.Int)
	}
	return v.Int
}

func (v Value) IsZero() bool {
	return v.Int == nil || v.Int.IsZero()
}

func (v Value) Add(other Value) Value {
	res, overflow := v.AddOverflow(other)
	check.PanicIfNotf(!overflow, "value overflow: %s + %s", v, other)
	return res
}

func (v Value) Sub(other Value) Value {
	res, overflow := v.SubOverflow(other)
	check.PanicIfNotf(!overflow, "value underflow: %s - %s", v, other)
	return res
}

func (v Value) AddOverflow(other Value) (Value, bool) {
	res, overflow := new(uint256.Int).AddOverflow(v.safeInt(), other.safeInt())
	return Value{res}, overflow
}

func (v Value) SubOverflow(other Value) (Value, bool) {
	res, overflow := new(uint256.Int).SubOverflow(v.safeInt(), other.safeInt())
	return Value{res}, overflow
}

// SaturatingAdd returns v + other clamped at the maximum value.
func (v Value) SaturatingAdd(other Value) Value {
	res, overflow := v.AddOverflow(other)
	if overflow {
		return MaxValue()
	}
	return res
}

// SaturatingSub returns v - other clamped at zero.
func (v Value) SaturatingSub(other Value) Value {
	res, overflow := v.SubOverflow(other)
	if overflow {
		return NewZeroValue()
	}
	return res
}

func (v Value) Mul64(other uint64) (Value, bool) {
	res, overflow := new(uint256.Int).MulOverflow(v.safeInt(), uint256.NewInt(other))
	return Value{res}, overflow
}

func (v Value) Cmp(other Value) int {
	return v.safeInt().Cmp(other.safeInt())
}

func (v Value) Lt(other Value) bool {
	return v.Cmp(other) < 0
}

func (v Value) Eq(other Value) bool {
	return v.Cmp(other) == 0
}

func (v Value) Uint64() uint64 {
	return v.safeInt().Uint64()
}

func (v Value) Bytes32() [32]byte {
	return v.safeInt().Bytes32()
}

func NewValueFromBytes(b []byte) Value {
	return Value{new(uint256.Int).SetBytes(b)}
}

func (v Value) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, v.safeInt())
}

func (v *Value) DecodeRLP(s *rlp.Stream) error {
	v.Int = new(uint256.Int)
	return s.ReadUint256(v.Int)
}

func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Value) UnmarshalText(input []byte) error {
	res, err := NewValueFromDecimal(string(input))
	if err != nil {
		return err
	}
	*v = res
	return nil
}

func (v *Value) Set(value string) error {
	return v.UnmarshalText([]byte(value))
}

func (v Value) String() string {
	return v.safeInt().Dec()
}

func (Value) Type() string {
	return "Value"
}
