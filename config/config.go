package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"

	"github.com/tranvictor/onchaincheck/inspector"
	"github.com/tranvictor/onchaincheck/networks"
	"github.com/tranvictor/onchaincheck/util/marketplace"
)

type Config struct {
	Network     string          `koanf:"network"`
	OpenSea     OpenSeaConfig   `koanf:"opensea"`
	Etherscan   EtherscanConfig `koanf:"etherscan"`
	Node        NodeConfig      `koanf:"node"`
	TokenID     int64           `koanf:"token_id"`
	HTTPTimeout time.Duration   `koanf:"http_timeout"`
	RPCTimeout  time.Duration   `koanf:"rpc_timeout"`
	Port        string          `koanf:"port"`
	Log         LogConfig       `koanf:"log"`

	// ABICachePath mirrors fetched ABIs to a JSON file. Empty keeps them in
	// memory only.
	ABICachePath string `koanf:"abi_cache_path"`
}

type OpenSeaConfig struct {
	APIKey string `koanf:"api_key"`
	APIURL string `koanf:"api_url"`
}

type EtherscanConfig struct {
	APIKey string `koanf:"api_key"`
	// APIURL overrides the network's explorer API when set.
	APIURL string `koanf:"api_url"`
}

type NodeConfig struct {
	InfuraKey string `koanf:"infura_key"`
	// ExtraURLs holds one additional RPC node per network name.
	ExtraURLs map[string]string `koanf:"extra_urls"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// envKeys maps the recognised environment variables to config keys. Other
// variables are ignored. Each network's node variable (for example
// ETHEREUM_MAINNET_NODE) is added in init.
var envKeys = map[string]string{
	"NETWORK":          "network",
	"OPEN_SEA_API_KEY": "opensea.api_key",
	"OPEN_SEA_API_URL": "opensea.api_url",
	"ETH_SCAN_API_KEY": "etherscan.api_key",
	"ETH_SCAN_API_URL": "etherscan.api_url",
	"INFRA_API_KEY":    "node.infura_key",
	"TOKEN_ID":         "token_id",
	"HTTP_TIMEOUT":     "http_timeout",
	"RPC_TIMEOUT":      "rpc_timeout",
	"PORT":             "port",
	"LOG_LEVEL":        "log.level",
	"LOG_FORMAT":       "log.format",
	"ABI_CACHE_PATH":   "abi_cache_path",
}

func init() {
	for _, n := range networks.GetSupportedNetworks() {
		envKeys[n.GetNodeVariableName()] = "node.extra_urls." + n.GetName()
	}
}

func Default() Config {
	return Config{
		Network: networks.EthereumMainnet.GetName(),
		OpenSea: OpenSeaConfig{
			APIURL: marketplace.OpenSeaAPIURL,
		},
		TokenID:     inspector.DefaultTokenID,
		HTTPTimeout: 10 * time.Second,
		RPCTimeout:  10 * time.Second,
		Port:        "8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// at path, then the environment.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("couldn't load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue("", ".", envKeyValue), nil); err != nil {
		return Config{}, fmt.Errorf("couldn't load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("couldn't decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	warnIfEmpty("OPEN_SEA_API_KEY", cfg.OpenSea.APIKey)
	warnIfEmpty("ETH_SCAN_API_KEY", cfg.Etherscan.APIKey)
	return cfg, nil
}

// envKeyValue skips unknown and empty variables so they don't shadow
// defaults or file values.
func envKeyValue(key, value string) (string, interface{}) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	return envKeys[key], value
}

func warnIfEmpty(key, v string) {
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
}

func (c Config) GetNetwork() (networks.Network, error) {
	return networks.GetNetwork(c.Network)
}

// Nodes returns the RPC nodes to read from: the network's Infura node and the
// extra node, when configured.
func (c Config) Nodes() (map[string]string, error) {
	n, err := c.GetNetwork()
	if err != nil {
		return nil, err
	}
	nodes := n.GetDefaultNodes(c.Node.InfuraKey)
	if extra := c.Node.ExtraURLs[n.GetName()]; extra != "" {
		nodes[n.GetName()+"-custom"] = extra
	}
	return nodes, nil
}

// ExplorerAPIURL returns the configured ABI registry URL, falling back to the
// network's explorer.
func (c Config) ExplorerAPIURL() (string, error) {
	n, err := c.GetNetwork()
	if err != nil {
		return "", err
	}
	url, _ := lo.Coalesce(c.Etherscan.APIURL, n.GetBlockExplorerAPIURL())
	return url, nil
}

func (c Config) Validate() error {
	n, err := c.GetNetwork()
	if err != nil {
		return err
	}
	if c.TokenID < 0 {
		return fmt.Errorf("token_id must not be negative, got %d", c.TokenID)
	}
	if c.HTTPTimeout <= 0 || c.RPCTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	nodes, err := c.Nodes()
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("no ethereum node configured, set INFRA_API_KEY or %s", n.GetNodeVariableName())
	}
	return nil
}
