package shuffle

import (
	"fmt"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/stack"
)

// Replay applies reconstruction instructions to the canonical deck of n cards and
// returns the resulting stacks. Stacks are numbered by position and merged-away
// stacks are removed, as in Reconstruct.
func Replay(events []log.Instruction, n int) ([]*stack.Stack, error) {
	deck := NewDeck(n)
	var stacks []*stack.Stack

	at := func(in log.Instruction, idx int) (*stack.Stack, error) {
		if idx < 1 || idx > len(stacks) {
			return nil, fmt.Errorf("%w: %v: stack %d out of range 1..%d", ErrBadInstruction, in, idx, len(stacks))
		}
		return stacks[idx-1], nil
	}

	for _, in := range events {
		switch in.Type {
		case log.EventNewStack:
			card, err := deck.Pop()
			if err != nil {
				return nil, fmt.Errorf("%w: %v: %w", ErrBadInstruction, in, err)
			}
			stacks = append(stacks, stack.New(card))

		case log.EventAddToStack:
			dst, err := at(in, in.Stack)
			if err != nil {
				return nil, err
			}
			card, err := deck.Pop()
			if err != nil {
				return nil, fmt.Errorf("%w: %v: %w", ErrBadInstruction, in, err)
			}
			dst.Push(card)

		case log.EventMerge:
			src, err := at(in, in.Stack)
			if err != nil {
				return nil, err
			}
			dst, err := at(in, in.Onto)
			if err != nil {
				return nil, err
			}
			if src == dst {
				return nil, fmt.Errorf("%w: %v: stack merged onto itself", ErrBadInstruction, in)
			}
			dst.PushAll(src.Cards())
			stacks = append(stacks[:in.Stack-1], stacks[in.Stack:]...)

		default:
			return nil, fmt.Errorf("%w: %v is not a reconstruction instruction", ErrBadInstruction, in)
		}
	}

	if !deck.IsEmpty() {
		return nil, fmt.Errorf("%w: %d cards left in the deck", ErrBadInstruction, deck.Len())
	}
	return stacks, nil
}

// ReplaySlots applies simulator instructions to the canonical deck of n cards
// using m stack slots and returns the gathered deck. The log must end with a
// RandomGather instruction.
func ReplaySlots(events []log.Instruction, n, m int) (*stack.Stack, error) {
	if n < 1 || m < 1 {
		return nil, fmt.Errorf("%w: need positive cards and stacks, got %d and %d", ErrInvalidConfig, n, m)
	}
	deck := NewDeck(n)
	slots := make([]*stack.Stack, m)

	live := func() []int {
		var out []int
		for k, s := range slots {
			if s != nil {
				out = append(out, k)
			}
		}
		return out
	}
	slotAt := func(in log.Instruction, idx int) (int, error) {
		l := live()
		if idx < 1 || idx > len(l) {
			return 0, fmt.Errorf("%w: %v: stack %d out of range 1..%d", ErrBadInstruction, in, idx, len(l))
		}
		return l[idx-1], nil
	}

	for _, in := range events {
		switch in.Type {
		case log.EventNewStack:
			card, err := deck.Pop()
			if err != nil {
				return nil, fmt.Errorf("%w: %v: %w", ErrBadInstruction, in, err)
			}
			free := -1
			for k, s := range slots {
				if s == nil {
					free = k
					break
				}
			}
			if free < 0 {
				return nil, fmt.Errorf("%w: %v: no free slot", ErrBadInstruction, in)
			}
			slots[free] = stack.New(card)

		case log.EventAddToStack:
			k, err := slotAt(in, in.Stack)
			if err != nil {
				return nil, err
			}
			card, err := deck.Pop()
			if err != nil {
				return nil, fmt.Errorf("%w: %v: %w", ErrBadInstruction, in, err)
			}
			slots[k].Push(card)

		case log.EventMerge:
			src, err := slotAt(in, in.Stack)
			if err != nil {
				return nil, err
			}
			dst, err := slotAt(in, in.Onto)
			if err != nil {
				return nil, err
			}
			if src == dst {
				return nil, fmt.Errorf("%w: %v: stack merged onto itself", ErrBadInstruction, in)
			}
			slots[dst].PushAll(slots[src].Cards())
			slots[src] = nil

		case log.EventPullFromBottom:
			if in.Count < 0 || in.Count > deck.Len() {
				return nil, fmt.Errorf("%w: %v: deck has %d cards", ErrBadInstruction, in, deck.Len())
			}
			deck = pullBottom(deck, in.Count)

		case log.EventRandomGather:
			if len(in.Order) != m {
				return nil, fmt.Errorf("%w: %v: order covers %d slots, want %d", ErrBadInstruction, in, len(in.Order), m)
			}
			final := stack.New()
			for _, k := range in.Order {
				if k < 0 || k >= m {
					return nil, fmt.Errorf("%w: %v: slot %d out of range", ErrBadInstruction, in, k)
				}
				if slots[k] != nil {
					final.PushAll(slots[k].Cards())
					slots[k] = nil
				}
			}
			if !deck.IsEmpty() {
				return nil, fmt.Errorf("%w: gathered with %d cards left in the deck", ErrBadInstruction, deck.Len())
			}
			return final, nil
		}
	}

	return nil, fmt.Errorf("%w: log does not end with a gather", ErrBadInstruction)
}
