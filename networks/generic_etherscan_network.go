package networks

import (
	"fmt"
)

type GenericEtherscanNetworkConfig struct {
	Name                string   `json:"name"`
	AlternativeNames    []string `json:"alternative_names"`
	ChainID             uint64   `json:"chain_id"`
	InfuraSubdomain     string   `json:"infura_subdomain"`
	NodeVariableName    string   `json:"node_variable_name"`
	BlockExplorerAPIURL string   `json:"block_explorer_api_url"`
}

// GenericEtherscanNetwork is a network served by Infura whose contracts are
// verified on Etherscan (or its V2 multichain API).
type GenericEtherscanNetwork struct {
	config GenericEtherscanNetworkConfig
}

func NewGenericEtherscanNetwork(config GenericEtherscanNetworkConfig) *GenericEtherscanNetwork {
	return &GenericEtherscanNetwork{config: config}
}

func (gn *GenericEtherscanNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericEtherscanNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericEtherscanNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericEtherscanNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericEtherscanNetwork) GetDefaultNodes(infuraKey string) map[string]string {
	if infuraKey == "" || gn.config.InfuraSubdomain == "" {
		return map[string]string{}
	}
	return map[string]string{
		gn.config.Name + "-infura": fmt.Sprintf("https://%s.infura.io/v3/%s", gn.config.InfuraSubdomain, infuraKey),
	}
}

func (gn *GenericEtherscanNetwork) GetBlockExplorerAPIURL() string {
	return gn.config.BlockExplorerAPIURL
}
