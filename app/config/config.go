package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const defaultModel = "claude-sonnet-4-20250514"

type Config struct {
	Log      Log      `yaml:"log"`
	Telegram Telegram `yaml:"telegram"`
	LLM      LLM      `yaml:"llm"`
	Whisper  Whisper  `yaml:"whisper"`
	Bayut    Bayut    `yaml:"bayut"`
	MCP      MCP      `yaml:"mcp"`
}

type Telegram struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789" validate:"required"`
}

type LLM struct {
	// Anthropic API token
	Token string `yaml:"token" example:"sk-ant-REDACTED" validate:"required"`
	// Anthropic model
	Model string `yaml:"model" example:"claude-sonnet-4-20250514" validate:"required"`
}

type Whisper struct {
	// OpenAI token for voice transcription; leave empty to disable voice notes
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
}

type Bayut struct {
	// RapidAPI key for the Bayut listings API; leave empty to use the
	// built-in market snapshot
	APIKey string `yaml:"api_key" example:"a1b2c3d4e5msh6f7g8h9i0j1k2l3p4q5r6s7t8u9"`
}

type MCP struct {
	// MCP tool servers to spawn alongside the bot
	Servers []MCPServer `yaml:"servers" validate:"dive"`
}

type MCPServer struct {
	// Server name, used to prefix its tool names
	Name string `yaml:"name" example:"chiller_scraper" validate:"required"`
	// Command to launch the server
	Command string `yaml:"command" example:"python3" validate:"required"`
	// Command arguments
	Args []string `yaml:"args" example:"[mcp-servers/chiller-scraper/server.py]"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.LLM.Model == "" {
		result.LLM.Model = defaultModel
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
