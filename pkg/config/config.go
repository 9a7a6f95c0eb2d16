// Package config loads harness configuration from config files, .env files,
// and environment variables. The environment variable names match the ones
// used by LM Studio and Neo4j tutorials so a single .env drives every command.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the demo harness.
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Neo4j connection configuration
	Neo4j Neo4jConfig `mapstructure:"neo4j"`

	// LMStudio holds the OpenAI-compatible endpoint configuration
	LMStudio LMStudioConfig `mapstructure:"lmstudio"`

	// Demo configuration shared by the quickstart and evolution commands
	Demo DemoConfig `mapstructure:"demo"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Neo4jConfig holds the Neo4j connection parameters.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// LMStudioConfig holds the LM Studio endpoint parameters. LM Studio exposes
// an OpenAI-compatible API, so the same settings work for Ollama, vLLM, or
// any other compatible server.
type LMStudioConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	ChatModel           string `mapstructure:"chat_model"`
	EmbeddingModel      string `mapstructure:"embedding_model"`
	EmbeddingDimensions int    `mapstructure:"embedding_dimensions"`
}

// DemoConfig holds parameters shared by the scripted demos.
type DemoConfig struct {
	// GroupID namespaces all demo data inside the graph.
	GroupID string `mapstructure:"group_id"`
	// ClearOnStart wipes the demo group before ingesting, so repeated runs
	// start from a clean graph.
	ClearOnStart bool `mapstructure:"clear_on_start"`
}

// Default values matching the LM Studio + Neo4j local setup.
const (
	DefaultNeo4jURI       = "bolt://localhost:7687"
	DefaultNeo4jUser      = "neo4j"
	DefaultNeo4jPassword  = "password"
	DefaultNeo4jDatabase  = "neo4j"
	DefaultBaseURL        = "http://localhost:1234/v1"
	DefaultAPIKey         = "lm-studio"
	DefaultChatModel      = "llama-3.2-1b-instruct"
	DefaultEmbeddingModel = "text-embedding-nomic-embed-text-v1.5"
	DefaultEmbeddingDims  = 768
	DefaultGroupID        = "predicato-agent-demo"
)

// LoadEnvFile loads a .env file into the process environment if it exists.
// A missing default file is not an error; an explicit path that cannot be
// read is.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from viper (config file + flags) and overrides it
// with environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("log.level", "info")

	viper.SetDefault("neo4j.uri", DefaultNeo4jURI)
	viper.SetDefault("neo4j.username", DefaultNeo4jUser)
	viper.SetDefault("neo4j.password", DefaultNeo4jPassword)
	viper.SetDefault("neo4j.database", DefaultNeo4jDatabase)

	viper.SetDefault("lmstudio.base_url", DefaultBaseURL)
	viper.SetDefault("lmstudio.api_key", DefaultAPIKey)
	viper.SetDefault("lmstudio.chat_model", DefaultChatModel)
	viper.SetDefault("lmstudio.embedding_model", DefaultEmbeddingModel)
	viper.SetDefault("lmstudio.embedding_dimensions", DefaultEmbeddingDims)

	viper.SetDefault("demo.group_id", DefaultGroupID)
	viper.SetDefault("demo.clear_on_start", false)
}

// overrideWithEnv overrides config with environment variables. Both the
// OPENAI_* names and the LMSTUDIO_* aliases are honoured; the aliases win
// because they are the more specific setting.
func overrideWithEnv(config *Config) {
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Neo4j.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Neo4j.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Neo4j.Password = pass
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		config.Neo4j.Database = db
	}

	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		config.LMStudio.BaseURL = url
	}
	if url := os.Getenv("LMSTUDIO_API_HOST"); url != "" {
		config.LMStudio.BaseURL = url
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.LMStudio.APIKey = key
	}
	if key := os.Getenv("LMSTUDIO_API_KEY"); key != "" {
		config.LMStudio.APIKey = key
	}
	if model := os.Getenv("MODEL_CHOICE"); model != "" {
		config.LMStudio.ChatModel = model
	}
	if model := os.Getenv("OPENAI_EMBEDDING_MODEL"); model != "" {
		config.LMStudio.EmbeddingModel = model
	}

	if groupID := os.Getenv("DEMO_GROUP_ID"); groupID != "" {
		config.Demo.GroupID = groupID
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j URI is required")
	}
	if c.Neo4j.Username == "" || c.Neo4j.Password == "" {
		return fmt.Errorf("neo4j credentials are required")
	}
	if c.LMStudio.BaseURL == "" {
		return fmt.Errorf("LM Studio base URL is required")
	}
	if c.LMStudio.ChatModel == "" {
		return fmt.Errorf("chat model is required")
	}
	return nil
}
