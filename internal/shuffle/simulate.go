package shuffle

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/stack"
)

const (
	minPullInterval = 5
	minPullDeck     = 9 // pulls need at least this many cards left
	minPullSize     = 3
	maxPullSize     = 70
)

// SimulatorOptions holds configuration for a random forward simulation.
type SimulatorOptions struct {
	Cards  int // deck size N
	Stacks int // maximum stacks on the table at once

	NewStackProbability      float64
	AddCardProbability       float64
	CombineStacksProbability float64
	PullFrequency            float64 // pull interval as a fraction of the deck size

	Rand   *rand.Rand      // nil for a randomly seeded generator
	Logger log.EventLogger // nil for an in-memory logger
	Debug  *zap.Logger     // nil for no diagnostics
}

// DefaultSimulatorOptions returns options with the stock probabilities.
func DefaultSimulatorOptions(cards, stacks int) SimulatorOptions {
	return SimulatorOptions{
		Cards:                    cards,
		Stacks:                   stacks,
		NewStackProbability:      0.1,
		AddCardProbability:       0.3,
		CombineStacksProbability: 0.02,
		PullFrequency:            0.1,
	}
}

type operation int

const (
	opNewStack operation = iota
	opAddCard
	opCombineStacks
)

// SimulationResult is the outcome of a completed walk.
type SimulationResult struct {
	Deck   *stack.Stack // emergent final deck, bottom first
	Steps  int          // loop iterations, including pulls
	Placed int          // NewStack + AddToStack instructions
	Merges int
	Pulls  int
}

// Simulator performs a random walk of stack operations over a bounded number of
// stack slots. Empty slots are nil.
type Simulator struct {
	deck         *stack.Stack
	slots        []*stack.Stack
	weights      [3]int
	pullInterval int
	rng          *rand.Rand
	logger       log.EventLogger
	debug        *zap.Logger
	result       SimulationResult
	done         bool
}

// NewSimulator validates opts and prepares a simulation.
func NewSimulator(opts SimulatorOptions) (*Simulator, error) {
	if opts.Cards < 1 {
		return nil, fmt.Errorf("%w: number of cards must be positive, got %d", ErrInvalidConfig, opts.Cards)
	}
	if opts.Stacks < 1 {
		return nil, fmt.Errorf("%w: number of stacks must be positive, got %d", ErrInvalidConfig, opts.Stacks)
	}

	weights := [3]int{
		weight(opts.NewStackProbability),
		weight(opts.AddCardProbability),
		weight(opts.CombineStacksProbability),
	}
	if weights[opNewStack] <= 0 || weights[opAddCard] <= 0 {
		return nil, fmt.Errorf("%w: new-stack and add-card probabilities must be at least 0.005", ErrInvalidConfig)
	}
	if weights[opCombineStacks] < 0 {
		return nil, fmt.Errorf("%w: combine-stacks probability must not be negative", ErrInvalidConfig)
	}
	if opts.PullFrequency < 0 {
		return nil, fmt.Errorf("%w: pull frequency must not be negative", ErrInvalidConfig)
	}

	rng := opts.Rand
	if rng == nil {
		rng, _ = NewRand(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	debug := opts.Debug
	if debug == nil {
		debug = zap.NewNop()
	}

	return &Simulator{
		deck:         NewDeck(opts.Cards),
		slots:        make([]*stack.Stack, opts.Stacks),
		weights:      weights,
		pullInterval: max(int(float64(opts.Cards)*opts.PullFrequency), minPullInterval),
		rng:          rng,
		logger:       logger,
		debug:        debug,
	}, nil
}

func weight(p float64) int {
	return int(math.Round(p * 100))
}

// Run consumes the deck and gathers the stacks into the final deck.
func (s *Simulator) Run() (*SimulationResult, error) {
	if s.done {
		return nil, fmt.Errorf("%w: simulation already ran", ErrInvalidConfig)
	}
	s.done = true

	for !s.deck.IsEmpty() {
		s.result.Steps++

		if s.result.Steps%s.pullInterval == 0 && s.deck.Len() >= minPullDeck {
			s.pullFromBottom()
			continue
		}

		var err error
		switch s.chooseOperation() {
		case opNewStack:
			err = s.newStack()
		case opAddCard:
			err = s.addCard()
		case opCombineStacks:
			err = s.combineStacks()
		}
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", s.result.Steps, err)
		}
	}

	s.gather()

	s.debug.Debug("simulation finished",
		zap.Int("steps", s.result.Steps),
		zap.Int("merges", s.result.Merges),
		zap.Int("pulls", s.result.Pulls))

	res := s.result
	return &res, nil
}

// chooseOperation draws from the enabled operations by cumulative weight.
func (s *Simulator) chooseOperation() operation {
	live := s.liveCount()

	var ops []operation
	var cumulative []int
	total := 0
	enable := func(op operation) {
		if s.weights[op] == 0 {
			return
		}
		total += s.weights[op]
		ops = append(ops, op)
		cumulative = append(cumulative, total)
	}

	if live < len(s.slots) {
		enable(opNewStack)
	}
	if live > 0 {
		enable(opAddCard)
	}
	if live >= 2 {
		enable(opCombineStacks)
	}

	r := s.rng.IntN(total)
	for i, c := range cumulative {
		if r < c {
			return ops[i]
		}
	}
	return ops[len(ops)-1]
}

func (s *Simulator) newStack() error {
	card, err := s.deck.Pop()
	if err != nil {
		return fmt.Errorf("new stack: %w", err)
	}
	for k, slot := range s.slots {
		if slot == nil {
			s.slots[k] = stack.New(card)
			s.result.Placed++
			s.logger.Log(log.NewStackEvent())
			return nil
		}
	}
	return fmt.Errorf("new stack: no free slot")
}

func (s *Simulator) addCard() error {
	live := s.liveSlots()
	i := s.rng.IntN(len(live))

	card, err := s.deck.Pop()
	if err != nil {
		return fmt.Errorf("add card: %w", err)
	}
	s.slots[live[i]].Push(card)
	s.result.Placed++
	s.logger.Log(log.AddToStackEvent(i + 1))
	return nil
}

// combineStacks places a random stack i on top of a different random stack j.
func (s *Simulator) combineStacks() error {
	live := s.liveSlots()
	if len(live) < 2 {
		return fmt.Errorf("combine stacks: %d live stacks", len(live))
	}
	i := s.rng.IntN(len(live))
	j := s.rng.IntN(len(live) - 1)
	if j >= i {
		j++
	}

	src, dst := s.slots[live[i]], s.slots[live[j]]
	dst.PushAll(src.Cards())
	s.slots[live[i]] = nil
	s.result.Merges++
	s.logger.Log(log.MergeEvent(i+1, j+1))
	return nil
}

// pullFromBottom cuts a chunk from the bottom of the deck and puts it on top.
func (s *Simulator) pullFromBottom() {
	remaining := s.deck.Len()
	hi := min(remaining/3, maxPullSize)
	size := minPullSize + s.rng.IntN(hi-minPullSize+1)

	s.deck = pullBottom(s.deck, size)
	s.result.Pulls++
	s.logger.Log(log.PullFromBottomEvent(size))
}

func pullBottom(deck *stack.Stack, size int) *stack.Stack {
	cards := deck.Cards()
	moved := make([]stack.Card, 0, len(cards))
	moved = append(moved, cards[size:]...)
	moved = append(moved, cards[:size]...)
	return stack.New(moved...)
}

// gather shuffles the slots and stacks every live stack, first slot at the bottom.
func (s *Simulator) gather() {
	order := s.rng.Perm(len(s.slots))
	final := stack.New()
	for _, k := range order {
		if s.slots[k] != nil {
			final.PushAll(s.slots[k].Cards())
		}
	}
	s.result.Deck = final
	s.logger.Log(log.RandomGatherEvent(order))

	for k := range s.slots {
		s.slots[k] = nil
	}
}

func (s *Simulator) liveSlots() []int {
	var live []int
	for k, slot := range s.slots {
		if slot != nil {
			live = append(live, k)
		}
	}
	return live
}

func (s *Simulator) liveCount() int {
	n := 0
	for _, slot := range s.slots {
		if slot != nil {
			n++
		}
	}
	return n
}

// Deck returns a copy of the cards not yet placed, bottom first.
func (s *Simulator) Deck() []stack.Card {
	return s.deck.Cards()
}

// Stacks returns copies of the slot contents; empty slots are nil.
func (s *Simulator) Stacks() []*stack.Stack {
	out := make([]*stack.Stack, len(s.slots))
	for k, slot := range s.slots {
		if slot != nil {
			out[k] = slot.Clone()
		}
	}
	return out
}

// PullInterval returns how many steps separate pull attempts.
func (s *Simulator) PullInterval() int {
	return s.pullInterval
}
