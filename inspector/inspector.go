// Package inspector runs the whole classification flow for one request:
// resolve the contract, fetch its ABI, read tokenURI and classify it.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/tranvictor/onchaincheck/common"
	"github.com/tranvictor/onchaincheck/logging"
	"github.com/tranvictor/onchaincheck/onchain"
	"github.com/tranvictor/onchaincheck/util/explorers"
	"github.com/tranvictor/onchaincheck/util/marketplace"
)

const DefaultTokenID int64 = 1

var ErrNoInput = errors.New("either collection_slug or contract_address is required")

type Request struct {
	CollectionSlug  string `json:"collection_slug"`
	ContractAddress string `json:"contract_address"`
}

// TokenURIReader reads tokenURI(tokenID) from a contract.
type TokenURIReader interface {
	TokenURI(ctx context.Context, caddr string, abi *abi.ABI, tokenID *big.Int) (string, error)
}

type Option func(*Inspector)

func WithTokenID(id int64) Option {
	return func(in *Inspector) {
		in.tokenID = big.NewInt(id)
	}
}

type Inspector struct {
	resolver marketplace.Resolver
	explorer explorers.BlockExplorer
	reader   TokenURIReader
	tokenID  *big.Int
}

func New(resolver marketplace.Resolver, explorer explorers.BlockExplorer, reader TokenURIReader, opts ...Option) *Inspector {
	in := &Inspector{
		resolver: resolver,
		explorer: explorer,
		reader:   reader,
		tokenID:  big.NewInt(DefaultTokenID),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ResolveAddress returns the checksummed contract address for req. A
// supplied contract address takes precedence over the collection slug,
// which is then never looked up.
func (in *Inspector) ResolveAddress(ctx context.Context, req Request) (string, error) {
	log := logging.FromContext(ctx)

	addr := strings.TrimSpace(req.ContractAddress)
	if addr == "" {
		slug := strings.TrimSpace(req.CollectionSlug)
		if slug == "" {
			return "", ErrNoInput
		}
		if in.resolver == nil {
			return "", fmt.Errorf("%w: no marketplace configured", marketplace.ErrResolution)
		}
		resolved, err := in.resolver.ContractAddress(ctx, slug)
		if err != nil {
			return "", err
		}
		log.Info("resolved collection", "collection_slug", slug, "contract_address", resolved)
		addr = resolved
	}
	return common.ChecksumAddress(addr)
}

// Inspect classifies the first token of the requested collection. Upstream
// failures after the address is known degrade to an Unknown result; only
// input and resolution problems are returned as errors.
func (in *Inspector) Inspect(ctx context.Context, req Request) (onchain.Result, error) {
	log := logging.FromContext(ctx)

	addr, err := in.ResolveAddress(ctx, req)
	if err != nil {
		return onchain.Result{}, err
	}
	log = log.With("contract_address", addr)

	abiRes := in.explorer.GetABI(ctx, addr)
	switch abiRes.Status {
	case explorers.ABIAvailable:
	case explorers.ABIUnverified:
		log.Info("contract abi not available", "reason", abiRes.Message)
		return onchain.UnknownResult(), nil
	case explorers.ABITransportError:
		log.Warn("couldn't fetch contract abi", "error", abiRes.Message)
		return onchain.UnknownResult(), nil
	default:
		log.Warn("unexpected abi status", "status", abiRes.Status.String())
		return onchain.UnknownResult(), nil
	}
	if abiRes.ABI == nil {
		log.Warn("abi registry reported success without an abi")
		return onchain.UnknownResult(), nil
	}

	tokenURI, err := in.reader.TokenURI(ctx, addr, abiRes.ABI, in.tokenID)
	if err != nil {
		log.Warn("couldn't read token uri", "token_id", in.tokenID.String(), "error", err)
		return onchain.UnknownResult(), nil
	}

	result := onchain.Classify(tokenURI)
	log.Info("classified token uri",
		"token_id", in.tokenID.String(),
		"short_uri", result.ShortURI,
		"type", result.Type.String(),
	)
	return result, nil
}
