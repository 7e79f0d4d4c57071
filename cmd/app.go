package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tranvictor/onchaincheck/config"
	"github.com/tranvictor/onchaincheck/inspector"
	"github.com/tranvictor/onchaincheck/util/cache"
	"github.com/tranvictor/onchaincheck/util/explorers"
	"github.com/tranvictor/onchaincheck/util/marketplace"
	"github.com/tranvictor/onchaincheck/util/reader"
)

// newInspector wires the marketplace, the ABI registry and the node reader
// for the configured network.
func newInspector(cfg config.Config, logger *slog.Logger) (*inspector.Inspector, error) {
	network, err := cfg.GetNetwork()
	if err != nil {
		return nil, err
	}
	nodes, err := cfg.Nodes()
	if err != nil {
		return nil, err
	}
	explorerURL, err := cfg.ExplorerAPIURL()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w for %s", reader.ErrNoNodes, network.GetName())
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	opensea := marketplace.NewOpenSea(cfg.OpenSea.APIURL, cfg.OpenSea.APIKey, httpClient)
	explorer := explorers.NewEtherscanLikeExplorer(
		explorerURL,
		cfg.Etherscan.APIKey,
		explorers.WithHTTPClient(httpClient),
		explorers.WithChainID(network.GetChainID()),
		explorers.WithCache(cache.New(cfg.ABICachePath)),
	)
	ethReader := reader.NewEthReaderGeneric(nodes, cfg.RPCTimeout)

	logger.Info("inspector configured",
		"network", network.GetName(),
		"chain_id", network.GetChainID(),
		"explorer", explorerURL,
		"nodes", ethReader.Nodes(),
		"token_id", cfg.TokenID,
	)
	return inspector.New(opensea, explorer, ethReader, inspector.WithTokenID(cfg.TokenID)), nil
}
