package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/keymap"
)

const stateURI = "calculator://state"

// keypad exposes one calculator session as MCP tools.
type keypad struct {
	svc       *calculator.Service
	sessionID string
}

func (k *keypad) register(s *server.MCPServer) {
	pressTool := mcp.NewTool("calculator_press",
		mcp.WithDescription("Press calculator keys in order. Keys are space separated keypad captions: digits, '.', '±', '+', '−', '×', '÷', '=', 'x²', '√', 'C', 'MC', 'MR', 'M+', 'M-'"),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Space separated keys, e.g. '1 2 + 3 ='"),
		),
	)
	s.AddTool(pressTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keys, ok := request.GetArguments()["keys"].(string)
		if !ok {
			return mcp.NewToolResultError("keys is required"), nil
		}
		return toolResult(k.press(ctx, keys))
	})

	keyboardTool := mcp.NewTool("calculator_keys",
		mcp.WithDescription("Type on the calculator's keyboard layout: characters map to keys, 'enter' is equals, 'alt+<key>' reaches memory, square and square root"),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Keyboard input, e.g. '12+3 enter' or '4 alt++'"),
		),
	)
	s.AddTool(keyboardTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, ok := request.GetArguments()["input"].(string)
		if !ok {
			return mcp.NewToolResultError("input is required"), nil
		}
		return toolResult(k.typeKeys(ctx, input))
	})

	stateTool := mcp.NewTool("calculator_state",
		mcp.WithDescription("Read the calculator display, history and memory indicator"),
	)
	s.AddTool(stateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(k.state(ctx))
	})

	clearTool := mcp.NewTool("calculator_clear",
		mcp.WithDescription("Press C: reset the value and history, keeping memory"),
	)
	s.AddTool(clearTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(k.press(ctx, "C"))
	})

	stateResource := mcp.NewResource(stateURI,
		"Calculator State",
		mcp.WithResourceDescription("Current display, history and memory indicator"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(stateResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := k.state(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      stateURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func (k *keypad) press(ctx context.Context, keys string) (string, error) {
	cmds, err := engine.ParseCommands(strings.Fields(keys))
	if err != nil {
		return "", err
	}
	res, err := k.svc.Apply(ctx, k.sessionID, cmds)
	if err != nil {
		return "", err
	}
	return encode(res)
}

func (k *keypad) typeKeys(ctx context.Context, input string) (string, error) {
	res, err := k.svc.PressKeys(ctx, k.sessionID, keymap.ParseKeys(input))
	if err != nil {
		return "", err
	}
	return encode(res)
}

func (k *keypad) state(ctx context.Context) (string, error) {
	st, err := k.svc.State(ctx, k.sessionID)
	if err != nil {
		return "", err
	}
	return encode(st)
}

func encode(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}

func toolResult(text string, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
