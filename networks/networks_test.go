package networks_test

import (
	"testing"

	"github.com/tranvictor/onchaincheck/networks"
)

func TestGetNetwork(t *testing.T) {
	for _, name := range []string{"mainnet", "ETH", " ethereum "} {
		n, err := networks.GetNetwork(name)
		if err != nil {
			t.Fatalf("GetNetwork(%q): %s", name, err)
		}
		if n.GetChainID() != 1 {
			t.Fatalf("GetNetwork(%q) chain id = %d", name, n.GetChainID())
		}
	}
	if _, err := networks.GetNetwork("tomo"); err == nil {
		t.Fatalf("expected unsupported network error")
	}
}

func TestGetDefaultNodes(t *testing.T) {
	nodes := networks.EthereumMainnet.GetDefaultNodes("abc")
	if nodes["mainnet-infura"] != "https://mainnet.infura.io/v3/abc" {
		t.Fatalf("nodes = %v", nodes)
	}
	if len(networks.EthereumMainnet.GetDefaultNodes("")) != 0 {
		t.Fatalf("expected no default nodes without an infura key")
	}
}
