package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

type mcpClientWrapper struct {
	client client.MCPClient
	tools  []Tool
	name   string
}

func (s *Service) createMCPClient(command string, args ...string) (client.MCPClient, error) {
	return client.NewStdioMCPClient(
		command,
		nil,
		args...,
	)
}

// initializeMCPClients starts the configured MCP servers (e.g. the
// chiller-scraper and social-listener sidecars) and wraps every tool they
// expose, name-prefixed per server.
func (s *Service) initializeMCPClients() error {
	for _, server := range s.cfg.MCP.Servers {
		mcpClient, err := s.createMCPClient(server.Command, server.Args...)
		if err != nil {
			return fmt.Errorf("failed to create MCP client for %s: %w", server.Name, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		initRequest := mcp.InitializeRequest{}
		initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
		initRequest.Params.ClientInfo = mcp.Implementation{
			Name:    "truevalue-analyst",
			Version: "1.0.0",
		}

		_, err = mcpClient.Initialize(ctx, initRequest)
		if err != nil {
			return fmt.Errorf("failed to initialize MCP client %s: %w", server.Name, err)
		}

		toolsRequest := mcp.ListToolsRequest{}
		toolsResponse, err := mcpClient.ListTools(ctx, toolsRequest)
		if err != nil {
			return fmt.Errorf("failed to list tools from %s: %w", server.Name, err)
		}

		wrappedTools := make([]Tool, 0, len(toolsResponse.Tools))
		for _, mcpTool := range toolsResponse.Tools {
			wrappedTools = append(wrappedTools, &mcpToolAdapter{
				client: mcpClient,
				tool:   mcpTool,
				name:   fmt.Sprintf("%s_%s", server.Name, mcpTool.Name),
			})
		}

		s.mcpClients = append(s.mcpClients, &mcpClientWrapper{
			client: mcpClient,
			tools:  wrappedTools,
			name:   server.Name,
		})
	}

	return nil
}
