package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/samber/lo"

	"github.com/tranvictor/onchaincheck/common"
)

var ErrNoNodes = errors.New("no ethereum node configured")

// EthReader reads from a set of redundant nodes. Each read is sent to all of
// them and the first successful answer wins.
type EthReader struct {
	nodes []EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string, timeout time.Duration) *EthReader {
	names := lo.Keys(nodes)
	slices.Sort(names)
	ns := make([]EthereumNode, 0, len(names))
	for _, name := range names {
		ns = append(ns, NewOneNodeReader(name, nodes[name], timeout))
	}
	return NewEthReader(ns...)
}

func NewEthReader(nodes ...EthereumNode) *EthReader {
	return &EthReader{nodes: nodes}
}

func (er *EthReader) Nodes() []string {
	return lo.Map(er.nodes, func(n EthereumNode, _ int) string {
		return n.NodeName()
	})
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type tokenURIResponse struct {
	URI   string
	Error error
}

// TokenURI calls tokenURI(tokenID) on the contract at caddr. caddr must be a
// valid hex address; it is checksummed before use.
func (er *EthReader) TokenURI(ctx context.Context, caddr string, abi *abi.ABI, tokenID *big.Int) (string, error) {
	if len(er.nodes) == 0 {
		return "", ErrNoNodes
	}
	if abi == nil {
		return "", fmt.Errorf("no abi for %s", caddr)
	}
	checksummed, err := common.ChecksumAddress(caddr)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan tokenURIResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			uri, err := n.TokenURI(ctx, checksummed, abi, tokenID)
			resCh <- tokenURIResponse{
				URI:   uri,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.URI, nil
		}
		errs = append(errs, result.Error)
	}
	return "", fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}
