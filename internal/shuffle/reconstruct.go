package shuffle

import (
	"fmt"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/stack"
)

// Reconstruct works out the new/add/merge instructions that turn the canonical
// deck into target, logging each one. target is listed bottom first. On success a
// single stack equal to target is returned.
func Reconstruct(target []stack.Card, logger log.EventLogger) ([]*stack.Stack, error) {
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	if err := checkPermutation(target); err != nil {
		return nil, err
	}
	if len(target) == 0 {
		return nil, nil
	}

	final := stack.New(target...)
	bottom, _ := final.Bottom()
	deck := NewDeck(len(target))

	var stacks []*stack.Stack
	for !deck.IsEmpty() {
		card, _ := deck.Pop()

		placed := false
		// Nothing can ever go below the bottom card, so it always starts a stack.
		if card != bottom {
			want, err := final.Below(card)
			if err != nil {
				return nil, fmt.Errorf("reconstruct card %d: %w", card, err)
			}
			for i, s := range stacks {
				top, err := s.Top()
				if err != nil {
					return nil, fmt.Errorf("reconstruct stack %d: %w", i+1, err)
				}
				if top == want {
					s.Push(card)
					logger.Log(log.AddToStackEvent(i + 1))
					placed = true
					break
				}
			}
		}
		if !placed {
			stacks = append(stacks, stack.New(card))
			logger.Log(log.NewStackEvent())
		}

		var err error
		if stacks, err = mergeStacks(final, stacks, logger); err != nil {
			return nil, err
		}
	}

	return stacks, nil
}

// mergeStacks places any stack whose bottom belongs directly on another stack's
// top onto that stack, until no such pair remains.
func mergeStacks(final *stack.Stack, stacks []*stack.Stack, logger log.EventLogger) ([]*stack.Stack, error) {
	i := 0
	for i < len(stacks) {
		top, err := stacks[i].Top()
		if err != nil {
			return nil, fmt.Errorf("merge stack %d: %w", i+1, err)
		}

		merged := false
		for j, other := range stacks {
			if j == i {
				continue
			}
			b, err := other.Bottom()
			if err != nil {
				return nil, fmt.Errorf("merge stack %d: %w", j+1, err)
			}
			want, err := final.Below(b)
			if err != nil {
				return nil, fmt.Errorf("merge stack %d: %w", j+1, err)
			}
			if want == top {
				// Indices are reported before the source is removed.
				logger.Log(log.MergeEvent(j+1, i+1))
				stacks[i].PushAll(other.Cards())
				stacks = append(stacks[:j], stacks[j+1:]...)
				merged = true
				break
			}
		}

		// Positions shift after a removal; rescan from the same index.
		if !merged {
			i++
		}
	}
	return stacks, nil
}
