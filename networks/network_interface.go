package networks

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string

	GetNodeVariableName() string
	// GetDefaultNodes returns the RPC nodes reachable with the given Infura
	// project key, keyed by node name.
	GetDefaultNodes(infuraKey string) map[string]string

	GetBlockExplorerAPIURL() string
}
