package log

import "fmt"

// EventType enumerates the instructions a person can be asked to perform.
type EventType int

const (
	EventNewStack EventType = iota
	EventAddToStack
	EventMerge
	EventPullFromBottom
	EventRandomGather
)

func (e EventType) String() string {
	switch e {
	case EventNewStack:
		return "NewStack"
	case EventAddToStack:
		return "AddToStack"
	case EventMerge:
		return "Merge"
	case EventPullFromBottom:
		return "PullFromBottom"
	case EventRandomGather:
		return "RandomGather"
	default:
		return "Unknown"
	}
}

// ParseEventType is the inverse of EventType.String.
func ParseEventType(s string) (EventType, error) {
	for e := EventNewStack; e <= EventRandomGather; e++ {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown instruction type %q", s)
}

// Instruction is a single step of the generated procedure.
type Instruction struct {
	Seq     int       // monotonic sequence number, assigned by the logger
	Type    EventType // instruction type
	Stack   int       // 1-based stack index (%i): AddToStack target, Merge source
	Onto    int       // 1-based stack index (%j): Merge destination
	Count   int       // cards moved by PullFromBottom
	Order   []int     // slot order used by RandomGather
	Details string    // rendered text, filled in by TextLogger
}

// PlacesCard reports whether the instruction consumes a card from the deck.
func (in Instruction) PlacesCard() bool {
	return in.Type == EventNewStack || in.Type == EventAddToStack
}

func (in Instruction) String() string {
	switch in.Type {
	case EventAddToStack:
		return fmt.Sprintf("%s(%d)", in.Type, in.Stack)
	case EventMerge:
		return fmt.Sprintf("%s(%d→%d)", in.Type, in.Stack, in.Onto)
	case EventPullFromBottom:
		return fmt.Sprintf("%s(%d)", in.Type, in.Count)
	default:
		return in.Type.String()
	}
}

// --- Helper constructors ---

func NewStackEvent() Instruction {
	return Instruction{Type: EventNewStack}
}

func AddToStackEvent(stack int) Instruction {
	return Instruction{Type: EventAddToStack, Stack: stack}
}

// MergeEvent places stack src on top of stack dst.
func MergeEvent(src, dst int) Instruction {
	return Instruction{Type: EventMerge, Stack: src, Onto: dst}
}

func PullFromBottomEvent(count int) Instruction {
	return Instruction{Type: EventPullFromBottom, Count: count}
}

func RandomGatherEvent(order []int) Instruction {
	return Instruction{Type: EventRandomGather, Order: order}
}
