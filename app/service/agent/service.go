package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"truevalue/app/client/bayut"
	"truevalue/app/config"

	_ "embed"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

//go:embed system_prompt.txt
var systemPrompt string

const (
	// The analyst gets a bounded number of tool rounds per query; a complete
	// analysis typically needs 3-5 tools.
	maxToolIterations = 5
	maxQueryDuration  = 2 * time.Minute
	maxOutputTokens   = 4000
)

var _ do.Shutdownable = (*Service)(nil)

// Service runs the LLM tool-calling loop: the model is given the fixed tool
// set and iterates search/calculate/analyze rounds until it produces a final
// recommendation.
type Service struct {
	cfg         *config.Config
	bayutClient *bayut.Client

	llm        llms.Model
	tools      []Tool
	toolsByID  map[string]Tool
	mcpClients []*mcpClientWrapper
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	llm, err := anthropic.New(
		anthropic.WithToken(cfg.LLM.Token),
		anthropic.WithModel(cfg.LLM.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}

	s := &Service{
		cfg:         cfg,
		bayutClient: do.MustInvoke[*bayut.Client](di),
		llm:         llm,
	}

	s.tools = s.nativeTools()

	if err = s.initializeMCPClients(); err != nil {
		// MCP sidecars are optional capability extensions; the native tool
		// set is complete without them.
		slog.Warn("MCP initialization failed, continuing with native tools only", "error", err)
	}
	for _, wrapper := range s.mcpClients {
		s.tools = append(s.tools, wrapper.tools...)
	}

	s.toolsByID = make(map[string]Tool, len(s.tools))
	for _, tool := range s.tools {
		s.toolsByID[tool.Name()] = tool
	}

	return s, nil
}

// Result is the outcome of one handled query.
type Result struct {
	Response  string
	ToolsUsed []string
}

// Handle processes one user query through the tool loop. conversationContext
// is the rolling session summary for follow-up questions; empty for fresh
// requests.
func (s *Service) Handle(ctx context.Context, query, conversationContext string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, maxQueryDuration)
	defer cancel()

	userContent := query
	if conversationContext != "" {
		userContent = fmt.Sprintf("Previous conversation context: %s\n\nCurrent question: %s", conversationContext, query)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userContent),
	}

	var toolsUsed []string

	for iteration := 0; iteration < maxToolIterations; iteration++ {
		resp, err := s.llm.GenerateContent(ctx, messages,
			llms.WithTools(s.toolDefinitions()),
			llms.WithMaxTokens(maxOutputTokens),
		)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no chat completion found")
		}

		choice := resp.Choices[0]

		if len(choice.ToolCalls) == 0 {
			slog.Info("Query complete", "tools_used", toolsUsed, "iterations", iteration+1)
			return &Result{Response: choice.Content, ToolsUsed: toolsUsed}, nil
		}

		assistantParts := make([]llms.ContentPart, 0, len(choice.ToolCalls)+1)
		if choice.Content != "" {
			assistantParts = append(assistantParts, llms.TextContent{Text: choice.Content})
		}
		for _, toolCall := range choice.ToolCalls {
			assistantParts = append(assistantParts, toolCall)
		}
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeAI,
			Parts: assistantParts,
		})

		for _, toolCall := range choice.ToolCalls {
			toolsUsed = append(toolsUsed, toolCall.FunctionCall.Name)

			output := s.executeTool(ctx, toolCall.FunctionCall.Name, toolCall.FunctionCall.Arguments)

			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: toolCall.ID,
						Name:       toolCall.FunctionCall.Name,
						Content:    output,
					},
				},
			})
		}
	}

	return nil, fmt.Errorf("query required more than %d tool iterations, try a more specific question", maxToolIterations)
}

func (s *Service) executeTool(ctx context.Context, name, rawArgs string) string {
	tool, ok := s.toolsByID[name]
	if !ok {
		return fmt.Sprintf(`{"success": false, "error": "unknown tool: %s"}`, name)
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		args = map[string]any{}
	}

	slog.Info("Executing tool", "tool", name)

	start := time.Now()
	output, err := tool.Call(ctx, args)
	if err != nil {
		slog.Error("Tool call failed", "tool", name, "error", err)
		return fmt.Sprintf(`{"success": false, "error": %q}`, err.Error())
	}

	slog.Debug("Tool call finished", "tool", name, "duration", time.Since(start))

	return output
}

func (s *Service) toolDefinitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(s.tools))
	for _, tool := range s.tools {
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return defs
}

func (s *Service) Shutdown() error {
	for _, wrapper := range s.mcpClients {
		if err := wrapper.client.Close(); err != nil {
			slog.Warn("Failed to close MCP client", "server", wrapper.name, "error", err)
		}
	}
	return nil
}
