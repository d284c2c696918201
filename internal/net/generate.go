package net

import (
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/config"
	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/shuffle"
	"github.com/peterkuimelis/stackshuffle/internal/stack"
)

// Limits for remotely requested procedures.
const (
	MaxCards  = 2000
	MaxStacks = 100
)

// Generate runs the requested engine, replays its instructions to verify them
// and returns the numbered result.
func Generate(req ClientMessage, cfg config.Config, logger *zap.Logger) (*ResultView, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if req.Cards < 1 || req.Cards > MaxCards {
		return nil, fmt.Errorf("cards must be between 1 and %d, got %d", MaxCards, req.Cards)
	}

	rng, seed := shuffle.NewRand(req.Seed)
	text := log.NewTextLogger(io.Discard, cfg.TextOptions())
	res := &ResultView{
		RunID: uuid.NewString(),
		Kind:  req.Type,
		Seed:  seed,
		Cards: req.Cards,
	}

	switch req.Type {
	case KindReconstruct:
		target := shuffle.RandomTarget(req.Cards, rng)
		if _, err := shuffle.Reconstruct(target, text); err != nil {
			return nil, fmt.Errorf("reconstruct: %w", err)
		}
		replayed, err := shuffle.Replay(text.Events(), req.Cards)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		res.Verified = len(replayed) == 1 && slices.Equal(replayed[0].Cards(), target)
		res.Deck = ints(target)

	case KindSimulate:
		if req.Stacks < 1 || req.Stacks > MaxStacks {
			return nil, fmt.Errorf("stacks must be between 1 and %d, got %d", MaxStacks, req.Stacks)
		}
		opts := cfg.SimulatorOptions(req.Cards, req.Stacks)
		opts.Rand = rng
		opts.Logger = text
		opts.Debug = logger
		sim, err := shuffle.NewSimulator(opts)
		if err != nil {
			return nil, err
		}
		out, err := sim.Run()
		if err != nil {
			return nil, fmt.Errorf("simulate: %w", err)
		}
		replayed, err := shuffle.ReplaySlots(text.Events(), req.Cards, req.Stacks)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		res.Stacks = req.Stacks
		res.Verified = slices.Equal(replayed.Cards(), out.Deck.Cards())
		res.Deck = ints(out.Deck.Cards())

	default:
		return nil, fmt.Errorf("unknown request type %q", req.Type)
	}

	res.Instructions = BuildInstructionViews(text.Events(), cfg.Instructions.StartStep)

	logger.Info("generated procedure",
		zap.String("run_id", res.RunID),
		zap.String("kind", res.Kind),
		zap.Uint64("seed", res.Seed),
		zap.Int("cards", res.Cards),
		zap.Int("instructions", len(res.Instructions)),
		zap.Bool("verified", res.Verified))

	return res, nil
}

// BuildInstructionViews numbers instructions from startStep (0 means 1).
func BuildInstructionViews(events []log.Instruction, startStep int) []InstructionView {
	if startStep == 0 {
		startStep = 1
	}
	views := make([]InstructionView, len(events))
	for i, e := range events {
		views[i] = InstructionView{
			Step:  startStep + i,
			Type:  e.Type.String(),
			Text:  e.Details,
			Stack: e.Stack,
			Onto:  e.Onto,
			Count: e.Count,
			Order: e.Order,
		}
	}
	return views
}

func ints(cards []stack.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = int(c)
	}
	return out
}
