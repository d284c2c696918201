package stack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Card is a card identity in the range [1, N].
type Card int

// NoCard is returned by Below when a card has nothing beneath it.
const NoCard Card = 0

var (
	ErrEmptyStack   = errors.New("invalid stack access: stack is empty")
	ErrCardNotFound = errors.New("invalid stack access: card not in stack")
)

// Stack is an ordered pile of cards. Index 0 is the bottom, the last index is the top.
type Stack struct {
	cards []Card
}

// New creates a stack holding the given cards, bottom first.
func New(cards ...Card) *Stack {
	s := &Stack{cards: make([]Card, 0, len(cards))}
	s.cards = append(s.cards, cards...)
	return s
}

// Push puts a card on top.
func (s *Stack) Push(c Card) {
	s.cards = append(s.cards, c)
}

// PushAll puts cards on top, keeping their relative order.
func (s *Stack) PushAll(cards []Card) {
	s.cards = append(s.cards, cards...)
}

// Pop removes and returns the top card.
func (s *Stack) Pop() (Card, error) {
	if len(s.cards) == 0 {
		return NoCard, ErrEmptyStack
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return c, nil
}

func (s *Stack) Top() (Card, error) {
	if len(s.cards) == 0 {
		return NoCard, ErrEmptyStack
	}
	return s.cards[len(s.cards)-1], nil
}

func (s *Stack) Bottom() (Card, error) {
	if len(s.cards) == 0 {
		return NoCard, ErrEmptyStack
	}
	return s.cards[0], nil
}

// Below returns the card stored immediately beneath c, or NoCard if c is the bottom card.
func (s *Stack) Below(c Card) (Card, error) {
	for i, card := range s.cards {
		if card != c {
			continue
		}
		if i == 0 {
			return NoCard, nil
		}
		return s.cards[i-1], nil
	}
	return NoCard, fmt.Errorf("%w: %d", ErrCardNotFound, c)
}

func (s *Stack) Contains(c Card) bool {
	for _, card := range s.cards {
		if card == c {
			return true
		}
	}
	return false
}

func (s *Stack) IsEmpty() bool {
	return len(s.cards) == 0
}

func (s *Stack) Len() int {
	return len(s.cards)
}

// Cards returns a copy of the contents, bottom first.
func (s *Stack) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *Stack) Clone() *Stack {
	return New(s.cards...)
}

// Format renders the stack bottom first, each card right-aligned to the width
// of the largest card plus two.
func (s *Stack) Format() string {
	if len(s.cards) == 0 {
		return ""
	}
	largest := s.cards[0]
	for _, c := range s.cards {
		if c > largest {
			largest = c
		}
	}
	width := len(strconv.Itoa(int(largest)))
	if width < 2 {
		width = 2
	}
	width += 2

	parts := make([]string, len(s.cards))
	for i, c := range s.cards {
		parts[i] = fmt.Sprintf("%*d", width, c)
	}
	return strings.Join(parts, ",")
}

func (s *Stack) String() string {
	return fmt.Sprint(s.cards)
}
