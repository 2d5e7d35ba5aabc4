// riskctl runs the fusion engine offline: score a round or classify a dialogue stage
// without the HTTP service, Mongo or Redis.
//
// Usage:
//
//	riskctl fuse --text 8 --voice 6 [--config-dir <dir>] [--json]
//	riskctl stage --messages 7 [--config-dir <dir>]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mindscreen/internal/config"
	"mindscreen/internal/engine"
)

// version is set at build time via -ldflags.
var version = "dev"

// nowFunc stamps alerts; swapped in tests
var nowFunc = time.Now

func newRootCmd() *cobra.Command {
	var configDir string
	root := &cobra.Command{
		Use:   "riskctl",
		Short: "Offline multimodal risk fusion and screening stage tool",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding config/config.yaml (default: built-in scoring parameters)")

	loadParams := func() (engine.Params, error) {
		if configDir == "" {
			return engine.DefaultParams(), nil
		}
		cfg, err := config.Load(config.New(configDir))
		if err != nil {
			return engine.Params{}, err
		}
		return cfg.Scoring.Params()
	}

	root.AddCommand(newFuseCmd(loadParams))
	root.AddCommand(newStageCmd(loadParams))
	root.Version = version
	return root
}

type paramsLoader func() (engine.Params, error)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
