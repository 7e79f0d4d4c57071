package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidAddress = errors.New("invalid contract address")

const TokenURIMethod = "tokenURI"

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

// IsValidAddress reports whether addr is a 20 byte hex address, with or
// without the 0x prefix.
func IsValidAddress(addr string) bool {
	return common.IsHexAddress(strings.TrimSpace(addr))
}

// ChecksumAddress returns the EIP-55 mixed-case form of addr.
func ChecksumAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !IsValidAddress(addr) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}
