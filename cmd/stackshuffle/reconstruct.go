package main

import (
	"bufio"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/shuffle"
	"github.com/peterkuimelis/stackshuffle/internal/stack"
)

func newReconstructCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconstruct",
		Short: "Print the steps that turn an ordered deck into a random target order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconstruct(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.cards, "cards", 0, "number of cards (prompted for when omitted)")
	return cmd
}

func runReconstruct(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	n := opts.cards
	if n < 0 {
		return fmt.Errorf("--cards must be positive, got %d", n)
	}
	if n == 0 {
		if n, err = promptInt(bufio.NewReader(cmd.InOrStdin()), out, "How many cards? "); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)

	rng, seed := shuffle.NewRand(opts.seed)
	opts.logger.Info("reconstructing", zap.Int("cards", n), zap.Uint64("seed", seed))

	target := shuffle.RandomTarget(n, rng)
	text := log.NewTextLogger(out, cfg.TextOptions())
	stacks, err := shuffle.Reconstruct(target, text)
	if err != nil {
		return fmt.Errorf("reconstruct: %w", err)
	}
	if err := text.Err(); err != nil {
		return fmt.Errorf("write instructions: %w", err)
	}
	if len(stacks) != 1 || !slices.Equal(stacks[0].Cards(), target) {
		return fmt.Errorf("reconstruct: ended with %d stacks instead of the target", len(stacks))
	}

	if opts.verify {
		replayed, err := shuffle.Replay(text.Events(), n)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if len(replayed) != 1 || !slices.Equal(replayed[0].Cards(), target) {
			return fmt.Errorf("verify: replayed instructions do not produce the target")
		}
		opts.logger.Info("verified", zap.Int("instructions", len(text.Events())))
	}

	fmt.Fprintln(out, "Done!")

	if opts.showDeck {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Final deck (bottom first):")
		fmt.Fprintln(out, stack.New(target...).Format())
	}
	return nil
}
