// Package shuffle generates stack-building procedures that turn a deck held in
// canonical order into a random one.
package shuffle

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/peterkuimelis/stackshuffle/internal/stack"
)

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNotPermutation = errors.New("target is not a permutation of the deck")
	ErrBadInstruction = errors.New("instruction cannot be applied")
)

// NewDeck returns the canonical starting deck [N, N-1, ..., 1]. Popping from it
// yields cards in ascending order.
func NewDeck(n int) *stack.Stack {
	cards := make([]stack.Card, 0, n)
	for c := n; c >= 1; c-- {
		cards = append(cards, stack.Card(c))
	}
	return stack.New(cards...)
}

// RandomTarget returns a random permutation of the canonical deck.
func RandomTarget(n int, rng *rand.Rand) []stack.Card {
	cards := NewDeck(n).Cards()
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// NewRand returns a generator for the given seed. Seed 0 picks a random seed,
// which is returned alongside so a run can be repeated.
func NewRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}

// checkPermutation verifies that target holds each card 1..len(target) exactly once.
func checkPermutation(target []stack.Card) error {
	seen := make([]bool, len(target)+1)
	for i, c := range target {
		if c < 1 || int(c) > len(target) {
			return fmt.Errorf("%w: card %d at position %d out of range 1..%d", ErrNotPermutation, c, i, len(target))
		}
		if seen[c] {
			return fmt.Errorf("%w: card %d appears more than once", ErrNotPermutation, c)
		}
		seen[c] = true
	}
	return nil
}
