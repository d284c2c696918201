package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/stackshuffle/internal/config"
	ssnet "github.com/peterkuimelis/stackshuffle/internal/net"
)

// Tools serves the stackshuffle MCP tools.
type Tools struct {
	cfg     config.Config
	logger  *zap.Logger
	session Session
}

// NewTools creates the tool handlers for the given configuration.
func NewTools(cfg config.Config, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{cfg: cfg, logger: logger}
}

// Register adds all tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(reconstructTool(), t.handleReconstruct)
	s.AddTool(simulateTool(), t.handleSimulate)
	s.AddTool(replayTool(), t.handleReplay)
	s.AddTool(lastProcedureTool(), t.handleLastProcedure)
	s.AddTool(showConfigTool(), t.handleShowConfig)
}

// --- Tool definitions ---

func reconstructTool() mcp.Tool {
	return mcp.NewTool("reconstruct_deck",
		mcp.WithDescription("Pick a random target order for a deck of cards numbered 1..N and return the "+
			"new-stack / add-to-stack / merge instructions that produce it from a deck held in order. "+
			"The returned deck lists the target order bottom first."),
		mcp.WithNumber("cards", mcp.Required(), mcp.Description("Number of cards in the deck")),
		mcp.WithNumber("seed", mcp.Description("Random seed; omit or 0 for a random one")),
	)
}

func simulateTool() mcp.Tool {
	return mcp.NewTool("simulate_shuffle",
		mcp.WithDescription("Generate a random stack-building procedure using at most the given number of "+
			"stacks, ending with a random gather. The returned deck is the order that results."),
		mcp.WithNumber("cards", mcp.Required(), mcp.Description("Number of cards in the deck")),
		mcp.WithNumber("stacks", mcp.Required(), mcp.Description("Maximum number of stacks on the table at once")),
		mcp.WithNumber("seed", mcp.Description("Random seed; omit or 0 for a random one")),
	)
}

func replayTool() mcp.Tool {
	return mcp.NewTool("replay_instructions",
		mcp.WithDescription("Apply a list of instructions to a deck held in order and return the stacks "+
			"that result, bottom first. Accepts the instructions array returned by reconstruct_deck or "+
			"simulate_shuffle. Read-only."),
		mcp.WithString("instructions", mcp.Required(),
			mcp.Description("JSON array of instructions, each with type, stack, onto, count and order as returned by the generators")),
		mcp.WithNumber("cards", mcp.Required(), mcp.Description("Number of cards in the deck")),
		mcp.WithNumber("stacks", mcp.Description("Number of stack slots used by simulate_shuffle; omit or 0 for reconstruct_deck output")),
	)
}

func lastProcedureTool() mcp.Tool {
	return mcp.NewTool("get_last_procedure",
		mcp.WithDescription("Return the most recently generated procedure as numbered, printable text. Read-only."),
	)
}

func showConfigTool() mcp.Tool {
	return mcp.NewTool("show_config",
		mcp.WithDescription("Return the instruction templates and simulator probabilities in use, as YAML. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleReconstruct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.generate(ssnet.ClientMessage{
		Type:  ssnet.KindReconstruct,
		Cards: request.GetInt("cards", 0),
		Seed:  uint64(max(request.GetInt("seed", 0), 0)),
	})
}

func (t *Tools) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.generate(ssnet.ClientMessage{
		Type:   ssnet.KindSimulate,
		Cards:  request.GetInt("cards", 0),
		Stacks: request.GetInt("stacks", 0),
		Seed:   uint64(max(request.GetInt("seed", 0), 0)),
	})
}

func (t *Tools) generate(req ssnet.ClientMessage) (*mcp.CallToolResult, error) {
	res, err := ssnet.Generate(req, t.cfg, t.logger)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to generate procedure: %v", err), nil
	}
	t.session.store(res)
	return mcp.NewToolResultText(respondJSON(res)), nil
}

func (t *Tools) handleReplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var data []byte
	switch v := request.GetArguments()["instructions"].(type) {
	case string:
		data = []byte(v)
	case nil:
		return mcp.NewToolResultError("instructions is required."), nil
	default:
		// Clients may send the array itself instead of a JSON string.
		var err error
		if data, err = json.Marshal(v); err != nil {
			return mcp.NewToolResultErrorf("Invalid instructions: %v", err), nil
		}
	}

	var views []ssnet.InstructionView
	if err := json.Unmarshal(data, &views); err != nil {
		return mcp.NewToolResultErrorf("Invalid instructions: %v", err), nil
	}
	res, err := ssnet.Replay(views, request.GetInt("cards", 0), request.GetInt("stacks", 0))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to replay instructions: %v", err), nil
	}
	t.logger.Debug("replayed instructions", zap.Int("instructions", len(views)), zap.Int("stacks", len(res.Decks)))
	return mcp.NewToolResultText(respondJSON(res)), nil
}

func (t *Tools) handleLastProcedure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := t.session.Last()
	if res == nil {
		return mcp.NewToolResultError("No procedure generated yet. Use reconstruct_deck or simulate_shuffle first."), nil
	}
	return mcp.NewToolResultText(formatText(res, t.cfg.Instructions.BlankLineEvery)), nil
}

func (t *Tools) handleShowConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := t.cfg.Marshal()
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to render config: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
