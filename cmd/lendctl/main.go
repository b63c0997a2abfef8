// lendctl drives the ledger from a shell against the configured store,
// bypassing the HTTP layer.
package main

import (
	"os"

	"lending-ledger/internal/app"
	"lending-ledger/internal/config"
	"lending-ledger/pkg/logger"

	"github.com/spf13/cobra"
)

// opener builds the ledger a command runs against; tests swap it.
type opener func() (*app.App, error)

func openFromEnv(logLevel string) opener {
	return func() (*app.App, error) {
		cfg := config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger.InitTo(os.Stderr, cfg.LogLevel, cfg.LogFile)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return app.Build(cfg)
	}
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree. A nil open reads the environment.
func newRootCmd(open opener) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:          "lendctl",
		Short:        "Operate the lending ledger",
		SilenceUsage: true,
		Long: `lendctl offers and repays loans and moves the simulated chain
directly against the store selected by STORE_DRIVER / CHAIN_DRIVER.

Every command prints its result as JSON on stdout.`,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	if open == nil {
		open = func() (*app.App, error) { return openFromEnv(logLevel)() }
	}
	root.AddCommand(
		offerCmd(open),
		repayCmd(open),
		getCmd(open),
		listCmd(open),
		receiptsCmd(open),
		heightCmd(open),
		mineCmd(open),
	)
	return root
}
