package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterkuimelis/stackshuffle/internal/config"
	"github.com/peterkuimelis/stackshuffle/internal/log"
	ssnet "github.com/peterkuimelis/stackshuffle/internal/net"
)

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestReconstructTool(t *testing.T) {
	tools := NewTools(config.Default(), nil)
	res, err := tools.handleReconstruct(context.Background(), callRequest(map[string]any{
		"cards": float64(12),
		"seed":  float64(21),
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var view ssnet.ResultView
	if err := json.Unmarshal([]byte(resultText(t, res)), &view); err != nil {
		t.Fatal(err)
	}
	if !view.Verified || view.Seed != 21 || len(view.Deck) != 12 {
		t.Errorf("unexpected result: verified=%v seed=%d deck=%v", view.Verified, view.Seed, view.Deck)
	}
}

func TestSimulateToolRejectsMissingStacks(t *testing.T) {
	tools := NewTools(config.Default(), nil)
	res, err := tools.handleSimulate(context.Background(), callRequest(map[string]any{
		"cards": float64(12),
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected a tool error for zero stacks")
	}
}

func TestLastProcedureTool(t *testing.T) {
	tools := NewTools(config.Default(), nil)

	res, err := tools.handleLastProcedure(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected an error before any procedure was generated")
	}

	if _, err := tools.handleSimulate(context.Background(), callRequest(map[string]any{
		"cards":  float64(10),
		"stacks": float64(2),
		"seed":   float64(1),
	})); err != nil {
		t.Fatal(err)
	}

	res, err = tools.handleLastProcedure(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !strings.HasPrefix(text, "  1) ") {
		t.Errorf("text does not start with step 1: %q", text)
	}
	if !strings.Contains(text, "RANDOM GATHER") || !strings.HasSuffix(text, "Done!\n") {
		t.Errorf("unexpected procedure text:\n%s", text)
	}
}

func TestShowConfigTool(t *testing.T) {
	tools := NewTools(config.Default(), nil)
	res, err := tools.handleShowConfig(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse([]byte(resultText(t, res)))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != config.Default() {
		t.Errorf("round-tripped config differs: %+v", cfg)
	}
}

func generateView(t *testing.T, tools *Tools, args map[string]any) ssnet.ResultView {
	t.Helper()
	handler := tools.handleReconstruct
	if _, ok := args["stacks"]; ok {
		handler = tools.handleSimulate
	}
	res, err := handler(context.Background(), callRequest(args))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var view ssnet.ResultView
	if err := json.Unmarshal([]byte(resultText(t, res)), &view); err != nil {
		t.Fatal(err)
	}
	return view
}

func TestReplayToolReproducesDeck(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"reconstruct", map[string]any{"cards": float64(15), "seed": float64(2)}},
		{"simulate", map[string]any{"cards": float64(90), "stacks": float64(3), "seed": float64(6)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := NewTools(config.Default(), nil)
			view := generateView(t, tools, tt.args)

			data, err := json.Marshal(view.Instructions)
			if err != nil {
				t.Fatal(err)
			}
			var asArray []any
			if err := json.Unmarshal(data, &asArray); err != nil {
				t.Fatal(err)
			}

			for _, instructions := range []any{string(data), asArray} {
				args := map[string]any{"instructions": instructions, "cards": tt.args["cards"]}
				if m, ok := tt.args["stacks"]; ok {
					args["stacks"] = m
				}
				res, err := tools.handleReplay(context.Background(), callRequest(args))
				if err != nil {
					t.Fatal(err)
				}
				if res.IsError {
					t.Fatalf("tool error: %s", resultText(t, res))
				}
				var replayed ssnet.ReplayView
				if err := json.Unmarshal([]byte(resultText(t, res)), &replayed); err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff([][]int{view.Deck}, replayed.Decks); diff != "" {
					t.Errorf("replayed deck mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestReplayToolRejectsBadInstructions(t *testing.T) {
	tools := NewTools(config.Default(), nil)
	for _, args := range []map[string]any{
		{"cards": float64(3)},
		{"instructions": "not json", "cards": float64(3)},
		{"instructions": `[{"type":"NewStack"}]`, "cards": float64(3)},
	} {
		res, err := tools.handleReplay(context.Background(), callRequest(args))
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("expected a tool error for %v", args)
		}
	}
}

// The text returned by get_last_procedure matches what the CLI prints for the same steps.
func TestFormatTextMatchesTextLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Instructions.StartStep = 2
	cfg.Instructions.BlankLineEvery = 3

	tools := NewTools(cfg, nil)
	view := generateView(t, tools, map[string]any{"cards": float64(20), "seed": float64(5)})

	events, err := ssnet.Instructions(view.Instructions)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	text := log.NewTextLogger(&buf, cfg.TextOptions())
	for _, in := range events {
		text.Log(in)
	}
	buf.WriteString("Done!\n")

	if diff := cmp.Diff(buf.String(), formatText(&view, cfg.Instructions.BlankLineEvery)); diff != "" {
		t.Errorf("formatText differs from TextLogger (-logger +formatText):\n%s", diff)
	}
	if !strings.HasPrefix(buf.String(), "  2) ") {
		t.Errorf("text does not start at step 2: %q", buf.String())
	}
}
