package explorers

import (
	"context"
)

// BlockExplorer is the contract registry used to look up verified ABIs.
type BlockExplorer interface {
	GetABI(ctx context.Context, address string) ABIResult
}
