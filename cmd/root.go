// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tranvictor/onchaincheck/config"
	"github.com/tranvictor/onchaincheck/networks"
)

var (
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "onchaincheck",
	Short: "Tell whether an NFT collection keeps its token metadata on-chain",
	Long: fmt.Sprintf(`onchaincheck classifies where an NFT collection stores its token metadata.

Given an OpenSea collection slug or a contract address, it looks up the contract
ABI on Etherscan, reads tokenURI(1) from an ethereum node and reports one of:

	0 - unknown: the ABI or the token URI could not be obtained
	1 - fully on-chain: the metadata and its SVG image are embedded as data URIs
	2 - off-chain: anything else, e.g. ipfs:// or https:// metadata

It can run as an HTTP service (serve) or classify a single collection (classify).

Configuration is read from an optional YAML file (--config) and the environment:
	OPEN_SEA_API_KEY, ETH_SCAN_API_KEY, INFRA_API_KEY
You can also add your own node by setting:
	1. For mainnet: %s
	2. For sepolia: %s`,
		networks.EthereumMainnet.GetNodeVariableName(),
		networks.Sepolia.GetNodeVariableName(),
	),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file. Environment variables override its values.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error. Overrides LOG_LEVEL.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
