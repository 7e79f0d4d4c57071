package reader

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

type EthereumNode interface {
	NodeName() string
	NodeURL() string
	ReadContractToBytes(
		ctx context.Context,
		caddr string,
		abi *abi.ABI,
		method string,
		args ...interface{},
	) ([]byte, error)
	TokenURI(ctx context.Context, caddr string, abi *abi.ABI, tokenID *big.Int) (string, error)
}
