package cmd

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tranvictor/onchaincheck/api"
	"github.com/tranvictor/onchaincheck/common"
	"github.com/tranvictor/onchaincheck/inspector"
	"github.com/tranvictor/onchaincheck/logging"
	"github.com/tranvictor/onchaincheck/onchain"
	"github.com/tranvictor/onchaincheck/ui"
)

var (
	classifySlug    string
	classifyAddress string
	classifyJSON    bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [slug or address]",
	Short: "Classify the token metadata storage of one collection",
	Long: `Classify where a collection keeps the metadata of its first token.
The collection can be given as an OpenSea slug (--slug) or a contract
address (--address). A bare argument is treated as an address when it
looks like one and as a slug otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := inspector.Request{
			CollectionSlug:  classifySlug,
			ContractAddress: classifyAddress,
		}
		if len(args) == 1 {
			req = requestFromArg(args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		if err != nil {
			return err
		}
		in, err := newInspector(cfg, logger)
		if err != nil {
			return err
		}

		ctx := logging.WithLogger(cmd.Context(), logger)
		return runClassify(ctx, ui.NewTerminalUI(), in, req, classifyJSON)
	},
}

func requestFromArg(arg string) inspector.Request {
	if common.IsValidAddress(arg) {
		return inspector.Request{ContractAddress: arg}
	}
	return inspector.Request{CollectionSlug: arg}
}

func storageTypeStyle(t onchain.StorageType) ui.StyledText {
	switch t {
	case onchain.FullyOnChain:
		return ui.StyledText{Text: t.String(), Severity: ui.SeveritySuccess}
	case onchain.OffChain:
		return ui.StyledText{Text: t.String(), Severity: ui.SeverityInfo}
	default:
		return ui.StyledText{Text: t.String(), Severity: ui.SeverityWarn}
	}
}

func runClassify(ctx context.Context, u ui.UI, in api.Inspector, req inspector.Request, asJSON bool) error {
	stop := u.Spinner("Classifying token metadata...")
	res, err := in.Inspect(ctx, req)
	stop()
	if err != nil {
		u.Error("Couldn't classify collection: %s", err)
		return err
	}

	if asJSON {
		return json.NewEncoder(u.Writer()).Encode(res)
	}

	target := req.ContractAddress
	if target == "" {
		target = req.CollectionSlug
	}
	shortURI := res.ShortURI
	if shortURI == "" {
		shortURI = "-"
	}

	u.Section("Token URI")
	u.Table([]string{"Field", "Value"}, [][]string{
		{"Collection", target},
		{"Short URI", shortURI},
		{"Type", u.Style(storageTypeStyle(res.Type))},
		{"Code", strconv.Itoa(int(res.Type))},
	})
	if res.Type == onchain.Unknown {
		u.Warn("The ABI or the token URI couldn't be read, see the logs for details.")
	}
	return nil
}

func init() {
	classifyCmd.Flags().StringVarP(&classifySlug, "slug", "s", "", "OpenSea collection slug")
	classifyCmd.Flags().StringVarP(&classifyAddress, "address", "a", "", "contract address. Takes precedence over --slug.")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the result as JSON, the same body the HTTP service returns")
	rootCmd.AddCommand(classifyCmd)
}
