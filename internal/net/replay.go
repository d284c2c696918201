package net

import (
	"fmt"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	"github.com/peterkuimelis/stackshuffle/internal/shuffle"
)

// Instructions converts client instruction views back into events.
// Step and Text are ignored.
func Instructions(views []InstructionView) ([]log.Instruction, error) {
	events := make([]log.Instruction, len(views))
	for i, v := range views {
		typ, err := log.ParseEventType(v.Type)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i+1, err)
		}
		events[i] = log.Instruction{
			Seq:   i + 1,
			Type:  typ,
			Stack: v.Stack,
			Onto:  v.Onto,
			Count: v.Count,
			Order: v.Order,
		}
	}
	return events, nil
}

// Replay applies the instructions to an ordered deck of cards. With stacks 0
// the stacks are unbounded and numbered as the reconstructor numbers them;
// otherwise the table has that many slots and the log must end with a gather.
func Replay(views []InstructionView, cards, stacks int) (*ReplayView, error) {
	if cards < 1 || cards > MaxCards {
		return nil, fmt.Errorf("cards must be between 1 and %d, got %d", MaxCards, cards)
	}
	if stacks < 0 || stacks > MaxStacks {
		return nil, fmt.Errorf("stacks must be between 0 and %d, got %d", MaxStacks, stacks)
	}
	events, err := Instructions(views)
	if err != nil {
		return nil, err
	}

	view := &ReplayView{Cards: cards, Stacks: stacks}
	if stacks == 0 {
		out, err := shuffle.Replay(events, cards)
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
		for _, s := range out {
			view.Decks = append(view.Decks, ints(s.Cards()))
		}
		return view, nil
	}

	deck, err := shuffle.ReplaySlots(events, cards, stacks)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	view.Decks = [][]int{ints(deck.Cards())}
	return view, nil
}
