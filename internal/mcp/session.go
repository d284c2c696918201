package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/peterkuimelis/stackshuffle/internal/log"
	ssnet "github.com/peterkuimelis/stackshuffle/internal/net"
)

// Session keeps the most recent procedure so it can be fetched again as text.
type Session struct {
	mu   sync.Mutex
	last *ssnet.ResultView
}

func (s *Session) store(res *ssnet.ResultView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = res
}

// Last returns the most recent procedure, or nil if none was generated.
func (s *Session) Last() *ssnet.ResultView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// formatText renders a procedure the way the CLI prints it.
func formatText(res *ssnet.ResultView, breakEvery int) string {
	var sb strings.Builder
	for i, in := range res.Instructions {
		sb.WriteString(log.FormatStep(in.Step, in.Text))
		sb.WriteByte('\n')
		if log.BreakAfter(i+1, breakEvery) {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("Done!\n")
	return sb.String()
}

// respondJSON marshals a value to a JSON string.
func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
