package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// mcpToolAdapter exposes a tool served by an MCP server (chiller-scraper,
// social-listener) through the native Tool interface, so the model sees no
// difference between in-process and MCP-backed capabilities.
type mcpToolAdapter struct {
	client client.MCPClient
	tool   mcp.Tool
	name   string
}

func (m *mcpToolAdapter) Name() string {
	return m.name
}

func (m *mcpToolAdapter) Description() string {
	return m.tool.Description
}

func (m *mcpToolAdapter) Parameters() map[string]any {
	schema := map[string]any{
		"type": "object",
	}
	if m.tool.InputSchema.Properties != nil {
		schema["properties"] = m.tool.InputSchema.Properties
	} else {
		schema["properties"] = map[string]any{}
	}
	if len(m.tool.InputSchema.Required) > 0 {
		schema["required"] = m.tool.InputSchema.Required
	}
	return schema
}

func (m *mcpToolAdapter) Call(ctx context.Context, args map[string]any) (string, error) {
	callRequest := mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
	}
	callRequest.Params.Name = m.tool.Name
	callRequest.Params.Arguments = args

	response, err := m.client.CallTool(ctx, callRequest)
	if err != nil {
		return "", fmt.Errorf("MCP tool call failed: %w", err)
	}

	var result strings.Builder
	for _, content := range response.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			result.WriteString(textContent.Text)
			result.WriteString("\n")
		}
	}

	return strings.TrimSpace(result.String()), nil
}
