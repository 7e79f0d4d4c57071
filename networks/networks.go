package networks

import (
	"fmt"
	"strings"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	EthereumMainnet,
	Sepolia,
}

func GetSupportedNetworks() []Network {
	return supportedNetworks
}

func GetNetwork(str string) (Network, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	for _, n := range supportedNetworks {
		if n.GetName() == str {
			return n, nil
		}
		for _, alt := range n.GetAlternativeNames() {
			if alt == str {
				return n, nil
			}
		}
	}
	return nil, fmt.Errorf("unsupported network %q", str)
}
