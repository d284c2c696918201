package log

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// EventLogger is the interface for recording instructions.
type EventLogger interface {
	Log(in Instruction)
	Events() []Instruction
}

// --- MemoryLogger: stores instructions in memory for replay and test assertions ---

type MemoryLogger struct {
	events []Instruction
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(in Instruction) {
	l.seq++
	in.Seq = l.seq
	l.events = append(l.events, in)
}

func (l *MemoryLogger) Events() []Instruction {
	return l.events
}

// EventsOfType returns all instructions matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []Instruction {
	var result []Instruction
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Count returns how many instructions of the given type were logged.
func (l *MemoryLogger) Count(t EventType) int {
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// LastEvent returns the most recent instruction, or a zero instruction if none.
func (l *MemoryLogger) LastEvent() Instruction {
	if len(l.events) == 0 {
		return Instruction{}
	}
	return l.events[len(l.events)-1]
}

// --- Templates ---

// Templates holds the phrasing for each instruction type. %i and %j are replaced
// with 1-based stack indices.
type Templates struct {
	NewStack       string
	AddToStack     string
	CombineStacks  string
	PullFromBottom string
	RandomGather   string
}

// DefaultTemplates returns the long-form phrasing.
func DefaultTemplates() Templates {
	return Templates{
		NewStack:       "CREATE NEW STACK",
		AddToStack:     "ADD CARD TO STACK %i",
		CombineStacks:  "PLACE STACK %i OVER STACK %j",
		PullFromBottom: "PULL FROM THE BOTTOM",
		RandomGather:   "GATHER STACKS RANDOMLY",
	}
}

// withDefaults fills empty phrasings from DefaultTemplates.
func (t Templates) withDefaults() Templates {
	d := DefaultTemplates()
	if t.NewStack == "" {
		t.NewStack = d.NewStack
	}
	if t.AddToStack == "" {
		t.AddToStack = d.AddToStack
	}
	if t.CombineStacks == "" {
		t.CombineStacks = d.CombineStacks
	}
	if t.PullFromBottom == "" {
		t.PullFromBottom = d.PullFromBottom
	}
	if t.RandomGather == "" {
		t.RandomGather = d.RandomGather
	}
	return t
}

// Render formats an instruction's text without a step number.
func (t Templates) Render(in Instruction) string {
	var tmpl string
	switch in.Type {
	case EventNewStack:
		tmpl = t.NewStack
	case EventAddToStack:
		tmpl = t.AddToStack
	case EventMerge:
		tmpl = t.CombineStacks
	case EventPullFromBottom:
		tmpl = t.PullFromBottom
	case EventRandomGather:
		tmpl = t.RandomGather
	default:
		return in.Type.String()
	}
	return strings.NewReplacer(
		"%i", strconv.Itoa(in.Stack),
		"%j", strconv.Itoa(in.Onto),
	).Replace(tmpl)
}

// --- TextLogger: writes numbered instruction lines to an io.Writer ---

// TextOptions configures a TextLogger.
type TextOptions struct {
	Templates  Templates
	StartStep  int // first step number (0 means 1)
	BreakEvery int // blank line after every N instructions (0 means never)
}

type TextLogger struct {
	MemoryLogger
	w          io.Writer
	templates  Templates
	step       int
	breakEvery int
	err        error // first write error
}

func NewTextLogger(w io.Writer, opts TextOptions) *TextLogger {
	step := opts.StartStep
	if step == 0 {
		step = 1
	}
	return &TextLogger{
		w:          w,
		templates:  opts.Templates.withDefaults(),
		step:       step,
		breakEvery: opts.BreakEvery,
	}
}

// Log renders the instruction, writes one numbered line and advances the step.
// After a write error nothing more is written; see Err.
func (l *TextLogger) Log(in Instruction) {
	in.Details = l.templates.Render(in)
	l.MemoryLogger.Log(in)

	l.writeLine(FormatStep(l.step, in.Details))
	if BreakAfter(len(l.events), l.breakEvery) {
		l.writeLine("")
	}
	l.step++
}

func (l *TextLogger) writeLine(s string) {
	if l.err != nil {
		return
	}
	if _, err := fmt.Fprintln(l.w, s); err != nil {
		l.err = fmt.Errorf("write instruction %d: %w", l.seq, err)
	}
}

// Err returns the first error hit while writing, if any.
func (l *TextLogger) Err() error {
	return l.err
}

// Step returns the number the next instruction will be printed with.
func (l *TextLogger) Step() int {
	return l.step
}

// --- Formatting ---

// BreakAfter reports whether a blank line follows the emitted-th instruction
// when breaking every n instructions (n <= 0 means never).
func BreakAfter(emitted, n int) bool {
	return n > 0 && emitted > 0 && emitted%n == 0
}

// FormatStep formats a numbered instruction line.
func FormatStep(step int, text string) string {
	return fmt.Sprintf("%3d) %s", step, text)
}

// FormatAll formats instructions as a multi-line string using the given templates,
// numbering from 1.
func FormatAll(events []Instruction, t Templates) string {
	t = t.withDefaults()
	var sb strings.Builder
	for i, e := range events {
		text := e.Details
		if text == "" {
			text = t.Render(e)
		}
		sb.WriteString(FormatStep(i+1, text))
		sb.WriteByte('\n')
	}
	return sb.String()
}
