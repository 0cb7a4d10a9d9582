package compiler

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the byte width of a library address.
const AddressLength = 20

// Address is a 20-byte library address used for link-time substitution.
type Address [AddressLength]byte

// ParseAddress decodes a 40-digit hex string, with or without the 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hex.DecodedLen(len(raw)) != AddressLength {
		return a, fmt.Errorf("address %q: want %d hex digits", s, AddressLength*2)
	}
	if _, err := hex.Decode(a[:], []byte(raw)); err != nil {
		return a, fmt.Errorf("address %q: %w", s, err)
	}
	return a, nil
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}
