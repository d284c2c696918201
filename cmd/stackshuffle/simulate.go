package main

import (
	"bufio"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/shuffle"
)

func newSimulateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print a random stack-building procedure with a limited number of stacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.cards, "cards", 0, "number of cards (prompted for when omitted)")
	cmd.Flags().IntVar(&opts.stacks, "stacks", 0, "maximum number of stacks (prompted for when omitted)")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if opts.cards < 0 || opts.stacks < 0 {
		return fmt.Errorf("--cards and --stacks must be positive")
	}
	n, m := opts.cards, opts.stacks
	if n == 0 || m == 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Select the number of cards and stacks to use.")
		fmt.Fprintln(out, "5 stacks is enough for 50 cards, 10 is enough for 400.")
		fmt.Fprintln(out)

		in := bufio.NewReader(cmd.InOrStdin())
		if n == 0 {
			if n, err = promptInt(in, out, "Number of cards: "); err != nil {
				return err
			}
		}
		if m == 0 {
			if m, err = promptInt(in, out, "Number of stacks: "); err != nil {
				return err
			}
		}
	}

	rng, seed := shuffle.NewRand(opts.seed)
	opts.logger.Info("simulating", zap.Int("cards", n), zap.Int("stacks", m), zap.Uint64("seed", seed))

	text := log.NewTextLogger(out, cfg.TextOptions())
	simOpts := cfg.SimulatorOptions(n, m)
	simOpts.Rand = rng
	simOpts.Logger = text
	simOpts.Debug = opts.logger

	sim, err := shuffle.NewSimulator(simOpts)
	if err != nil {
		return err
	}
	res, err := sim.Run()
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	if err := text.Err(); err != nil {
		return fmt.Errorf("write instructions: %w", err)
	}

	if opts.verify {
		replayed, err := shuffle.ReplaySlots(text.Events(), n, m)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if !slices.Equal(replayed.Cards(), res.Deck.Cards()) {
			return fmt.Errorf("verify: replayed instructions do not produce the gathered deck")
		}
		opts.logger.Info("verified", zap.Int("instructions", len(text.Events())))
	}

	fmt.Fprintln(out, "Done!")

	if opts.showDeck {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Final deck (bottom first):")
		fmt.Fprintln(out, res.Deck.Format())
	}
	return nil
}
