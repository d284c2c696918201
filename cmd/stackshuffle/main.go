package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peterkuimelis/stackshuffle/internal/config"
)

// options holds the flags shared by all commands.
type options struct {
	configPath string
	seed       uint64
	debug      bool
	verify     bool
	showDeck   bool
	cards      int
	stacks     int

	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "stackshuffle",
		Short: "Print instructions for shuffling a numbered deck by building stacks",
		Long: `stackshuffle prints a numbered list of steps for turning a deck of cards,
held in order, into a random order by dealing cards onto stacks and placing
stacks on top of each other.

  reconstruct  picks a random target order and works out the steps that produce it
  simulate     makes random moves with a limited number of stacks`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if opts.debug {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	pf.Uint64Var(&opts.seed, "seed", 0, "random seed (0 for a random one)")
	pf.BoolVar(&opts.debug, "debug", false, "log diagnostics to stderr")
	pf.BoolVar(&opts.verify, "verify", false, "replay the instructions and check the result")
	pf.BoolVar(&opts.showDeck, "show-deck", false, "print the resulting deck after the instructions")

	root.AddCommand(newReconstructCmd(opts), newSimulateCmd(opts), newConfigCmd(opts))
	return root
}

func (o *options) loadConfig() (config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	o.logger.Debug("loaded config", zap.String("path", o.configPath))
	return cfg, nil
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
