// Command motionx inspects preset files and simulates the engine's timing
// components on a manual clock.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/motionx/config"
	"github.com/comalice/motionx/internal/logging"
)

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	logLevel string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "motionx",
		Short:         "Motion orchestration tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			a.cfg = cfg
			level := a.logLevel
			if level == "" {
				level = cfg.LogLevel
			}
			logger, err := logging.New(level)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides MOTIONX_LOG_LEVEL")

	root.AddCommand(a.presetsCmd(), a.simulateCmd())
	return root
}
