package types

import (
	"encoding/hex"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddrSize is the expected length of the address (in bytes)
const AddrSize = 20

// Address identifies an account: either a plain account or a contract.
type Address [AddrSize]byte

var EmptyAddress = Address{}

// BytesToAddress returns Address with value b.
// If b is larger than len(h), b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress returns Address with byte values of s.
// If s is larger than len(h), s will be cropped from the left.
func HexToAddress(s string) Address {
	if has0xPrefix(s) {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}
	}
	return BytesToAddress(b)
}

// ParseAddress is the strict version of HexToAddress.
func ParseAddress(s string) (Address, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(b) != AddrSize {
		return Address{}, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, AddrSize, len(b))
	}
	return BytesToAddress(b), nil
}

// ContractAddress derives the address of a contract instantiated by deployer from the code
// with the given hash and salt.
func ContractAddress(deployer Address, codeHash ethcommon.Hash, salt []byte) Address {
	return BytesToAddress(crypto.Keccak256(deployer[:], codeHash[:], salt)[12:])
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// SetBytes sets the address to the value of b.
// If b is larger than len(a), b will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddrSize:]
	}
	copy(a[AddrSize-len(b):], b)
}

// Bytes gets the string representation of the underlying address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns an EIP55-compliant hex string representation of the address.
func (a Address) Hex() string {
	return ethcommon.Address(a).Hex()
}

func (a Address) String() string {
	return a.Hex()
}

func (a Address) IsEmpty() bool {
	return a == EmptyAddress
}

func (a Address) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

func (a *Address) UnmarshalText(input []byte) error {
	res, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = res
	return nil
}

func (a *Address) Set(value string) error {
	return a.UnmarshalText([]byte(value))
}

func (Address) Type() string {
	return "Address"
}
