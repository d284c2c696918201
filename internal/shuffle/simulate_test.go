package shuffle

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/stack"
)

// checkingLogger runs check after every logged instruction.
type checkingLogger struct {
	log.MemoryLogger
	check func(in log.Instruction)
}

func (l *checkingLogger) Log(in log.Instruction) {
	l.MemoryLogger.Log(in)
	if l.check != nil {
		l.check(in)
	}
}

func newTestSimulator(t *testing.T, cards, stacks int, seed uint64, logger log.EventLogger) *Simulator {
	t.Helper()
	opts := DefaultSimulatorOptions(cards, stacks)
	opts.Rand, _ = NewRand(seed)
	opts.Logger = logger
	sim, err := NewSimulator(opts)
	if err != nil {
		t.Fatalf("NewSimulator(%d, %d): %v", cards, stacks, err)
	}
	return sim
}

func isPermutation(cs []stack.Card, n int) bool {
	sorted := slices.Clone(cs)
	slices.Sort(sorted)
	if len(sorted) != n {
		return false
	}
	for i, c := range sorted {
		if int(c) != i+1 {
			return false
		}
	}
	return true
}

func TestSimulatorRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *SimulatorOptions)
	}{
		{"zero cards", func(o *SimulatorOptions) { o.Cards = 0 }},
		{"zero stacks", func(o *SimulatorOptions) { o.Stacks = 0 }},
		{"negative cards", func(o *SimulatorOptions) { o.Cards = -3 }},
		{"no new stacks", func(o *SimulatorOptions) { o.NewStackProbability = 0 }},
		{"no added cards", func(o *SimulatorOptions) { o.AddCardProbability = 0.001 }},
		{"negative pull frequency", func(o *SimulatorOptions) { o.PullFrequency = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultSimulatorOptions(20, 3)
			logger := log.NewMemoryLogger()
			opts.Logger = logger
			tt.modify(&opts)

			_, err := NewSimulator(opts)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
			if len(logger.Events()) != 0 {
				t.Errorf("expected no instructions, got %d", len(logger.Events()))
			}
		})
	}
}

// Every card is placed exactly once, however many merges and pulls interleave.
func TestSimulatorPlacesEveryCard(t *testing.T) {
	for _, tc := range []struct{ cards, stacks int }{
		{1, 1}, {5, 1}, {9, 2}, {52, 5}, {400, 10},
	} {
		for seed := uint64(1); seed <= 10; seed++ {
			logger := log.NewMemoryLogger()
			sim := newTestSimulator(t, tc.cards, tc.stacks, seed, logger)

			res, err := sim.Run()
			if err != nil {
				t.Fatalf("%d cards, %d stacks, seed %d: %v", tc.cards, tc.stacks, seed, err)
			}

			placed := logger.Count(log.EventNewStack) + logger.Count(log.EventAddToStack)
			if placed != tc.cards || res.Placed != tc.cards {
				t.Errorf("%d cards, seed %d: placed %d (result %d), want %d", tc.cards, seed, placed, res.Placed, tc.cards)
			}
			if res.Merges != logger.Count(log.EventMerge) {
				t.Errorf("result merges %d != logged merges %d", res.Merges, logger.Count(log.EventMerge))
			}
			if res.Pulls != logger.Count(log.EventPullFromBottom) {
				t.Errorf("result pulls %d != logged pulls %d", res.Pulls, logger.Count(log.EventPullFromBottom))
			}
			if res.Steps != placed+res.Merges+res.Pulls {
				t.Errorf("steps %d != placements+merges+pulls %d", res.Steps, placed+res.Merges+res.Pulls)
			}
			if last := logger.LastEvent(); last.Type != log.EventRandomGather {
				t.Errorf("last instruction = %v, want RandomGather", last)
			}
			if !isPermutation(res.Deck.Cards(), tc.cards) {
				t.Errorf("%d cards, seed %d: final deck is not a permutation: %v", tc.cards, seed, res.Deck)
			}
		}
	}
}

// At every instruction the deck plus the live stacks hold each card exactly once.
func TestSimulatorConservesCards(t *testing.T) {
	const n, m = 120, 6
	logger := &checkingLogger{}
	sim := newTestSimulator(t, n, m, 42, logger)

	logger.check = func(in log.Instruction) {
		all := sim.Deck()
		live := 0
		for _, s := range sim.Stacks() {
			if s != nil {
				live++
				all = append(all, s.Cards()...)
			}
		}
		if live > m {
			t.Fatalf("after %v: %d live stacks exceeds %d", in, live, m)
		}
		if !isPermutation(all, n) {
			t.Fatalf("after %v: cards not conserved (%d held)", in, len(all))
		}
	}

	if _, err := sim.Run(); err != nil {
		t.Fatal(err)
	}
}

func TestSimulatorReplayMatchesResult(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		logger := log.NewMemoryLogger()
		sim := newTestSimulator(t, 75, 4, seed, logger)
		res, err := sim.Run()
		if err != nil {
			t.Fatal(err)
		}

		replayed, err := ReplaySlots(logger.Events(), 75, 4)
		if err != nil {
			t.Fatalf("seed %d: replay: %v", seed, err)
		}
		if diff := cmp.Diff(res.Deck.Cards(), replayed.Cards()); diff != "" {
			t.Fatalf("seed %d: replay mismatch (-sim +replay):\n%s", seed, diff)
		}
	}
}

func TestSimulatorIsDeterministicForSeed(t *testing.T) {
	run := func() []log.Instruction {
		logger := log.NewMemoryLogger()
		sim := newTestSimulator(t, 60, 5, 7, logger)
		if _, err := sim.Run(); err != nil {
			t.Fatal(err)
		}
		return logger.Events()
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed produced different instructions (-first +second):\n%s", diff)
	}
}

func TestSimulatorPulls(t *testing.T) {
	logger := log.NewMemoryLogger()
	sim := newTestSimulator(t, 300, 8, 3, logger)
	if sim.PullInterval() != 30 {
		t.Errorf("PullInterval() = %d, want 30", sim.PullInterval())
	}
	if _, err := sim.Run(); err != nil {
		t.Fatal(err)
	}

	if len(logger.EventsOfType(log.EventPullFromBottom)) == 0 {
		t.Fatal("expected at least one pull for a 300 card deck")
	}
}

// Each pull takes between 3 and min(remaining/3, 70) cards, and only from a deck of 9 or more.
func TestSimulatorPullSizeBoundedByRemainingDeck(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 4, 5, 6, 7, 8} {
		logger := &checkingLogger{}
		sim := newTestSimulator(t, 300, 8, seed, logger)

		pulls := 0
		logger.check = func(in log.Instruction) {
			if in.Type != log.EventPullFromBottom {
				return
			}
			pulls++
			// A pull rotates the deck without changing its size.
			remaining := len(sim.Deck())
			if remaining < minPullDeck {
				t.Errorf("seed %d: pull from a deck of %d cards", seed, remaining)
			}
			hi := min(remaining/3, maxPullSize)
			if in.Count < minPullSize || in.Count > hi {
				t.Errorf("seed %d: pull of %d cards from %d remaining, want [%d, %d]",
					seed, in.Count, remaining, minPullSize, hi)
			}
		}

		if _, err := sim.Run(); err != nil {
			t.Fatal(err)
		}
		if pulls == 0 {
			t.Errorf("seed %d: no pulls for a 300 card deck", seed)
		}
	}
}

func TestSimulatorSmallDeckUsesMinimumInterval(t *testing.T) {
	sim := newTestSimulator(t, 12, 2, 1, nil)
	if sim.PullInterval() != minPullInterval {
		t.Errorf("PullInterval() = %d, want %d", sim.PullInterval(), minPullInterval)
	}
}

func TestSimulatorSingleSlotNeverMerges(t *testing.T) {
	logger := log.NewMemoryLogger()
	sim := newTestSimulator(t, 40, 1, 9, logger)
	if _, err := sim.Run(); err != nil {
		t.Fatal(err)
	}
	if n := logger.Count(log.EventMerge); n != 0 {
		t.Errorf("merges with one slot = %d, want 0", n)
	}
	if n := logger.Count(log.EventNewStack); n != 1 {
		t.Errorf("new stacks with one slot = %d, want 1", n)
	}
}

func TestSimulatorRunsOnce(t *testing.T) {
	sim := newTestSimulator(t, 5, 2, 1, nil)
	if _, err := sim.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Run(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("second Run: got %v, want ErrInvalidConfig", err)
	}
}

func TestPullBottom(t *testing.T) {
	got := pullBottom(stack.New(cards(5, 4, 3, 2, 1)...), 2)
	if diff := cmp.Diff(cards(3, 2, 1, 5, 4), got.Cards()); diff != "" {
		t.Errorf("pullBottom mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaySlotsRequiresGather(t *testing.T) {
	events := []log.Instruction{log.NewStackEvent()}
	if _, err := ReplaySlots(events, 1, 1); !errors.Is(err, ErrBadInstruction) {
		t.Errorf("got %v, want ErrBadInstruction", err)
	}
}
