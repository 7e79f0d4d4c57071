package reader

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tranvictor/onchaincheck/common"
)

const TIMEOUT time.Duration = 10 * time.Second

type OneNodeReader struct {
	nodeName  string
	nodeURL   string
	timeout   time.Duration
	client    *rpc.Client
	ethClient *ethclient.Client
	mu        sync.Mutex
}

func NewOneNodeReader(name, url string, timeout time.Duration) *OneNodeReader {
	if timeout <= 0 {
		timeout = TIMEOUT
	}
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
		timeout:  timeout,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

// EthClient dials the node on first use and reuses the connection after.
func (onr *OneNodeReader) EthClient(ctx context.Context) (*ethclient.Client, error) {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.ethClient != nil {
		return onr.ethClient, nil
	}
	client, err := rpc.DialContext(ctx, onr.nodeURL)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	onr.ethClient = ethclient.NewClient(client)
	return onr.ethClient, nil
}

func (onr *OneNodeReader) Close() {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		onr.client.Close()
		onr.client = nil
		onr.ethClient = nil
	}
}

// ReadContractToBytes eth_calls method on caddr at the latest block and
// returns the raw return data.
func (onr *OneNodeReader) ReadContractToBytes(ctx context.Context, caddr string, abi *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	data, err := abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}

	contract := common.HexToAddress(caddr)
	timeout, cancel := context.WithTimeout(ctx, onr.timeout)
	defer cancel()

	return ethcli.CallContract(timeout, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
}

func (onr *OneNodeReader) TokenURI(ctx context.Context, caddr string, abi *abi.ABI, tokenID *big.Int) (string, error) {
	out, err := onr.ReadContractToBytes(ctx, caddr, abi, common.TokenURIMethod, tokenID)
	if err != nil {
		return "", err
	}
	return unpackString(abi, common.TokenURIMethod, out)
}

func unpackString(abi *abi.ABI, method string, out []byte) (string, error) {
	values, err := abi.Unpack(method, out)
	if err != nil {
		return "", fmt.Errorf("couldn't unpack %s result: %w", method, err)
	}
	if len(values) != 1 {
		return "", fmt.Errorf("%s returned %d values, expected 1", method, len(values))
	}
	s, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T, expected string", method, values[0])
	}
	return s, nil
}
