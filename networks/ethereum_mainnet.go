package networks

var EthereumMainnet Network = NewGenericEtherscanNetwork(GenericEtherscanNetworkConfig{
	Name:                "mainnet",
	AlternativeNames:    []string{"ethereum", "eth"},
	ChainID:             1,
	InfuraSubdomain:     "mainnet",
	NodeVariableName:    "ETHEREUM_MAINNET_NODE",
	BlockExplorerAPIURL: "https://api.etherscan.io/v2",
})

var Sepolia Network = NewGenericEtherscanNetwork(GenericEtherscanNetworkConfig{
	Name:                "sepolia",
	AlternativeNames:    []string{"ethereum-sepolia"},
	ChainID:             11155111,
	InfuraSubdomain:     "sepolia",
	NodeVariableName:    "ETHEREUM_SEPOLIA_NODE",
	BlockExplorerAPIURL: "https://api.etherscan.io/v2",
})
