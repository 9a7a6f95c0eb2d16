// Package graph wires a predicato client to LM Studio and Neo4j. All graph
// storage, extraction, and search behaviour lives in predicato; this package
// only assembles the client from harness configuration.
package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/soundprediction/predicato"
	"github.com/soundprediction/predicato/pkg/driver"
	"github.com/soundprediction/predicato/pkg/embedder"
	"github.com/soundprediction/predicato/pkg/llm"
	"github.com/soundprediction/predicato/pkg/types"

	"github.com/soundprediction/predicato-agent/pkg/cliui"
	"github.com/soundprediction/predicato-agent/pkg/config"
)

// Client is the narrow slice of the predicato API the demos drive. Keeping it
// small lets tests substitute a fake without a running Neo4j.
type Client interface {
	CreateIndices(ctx context.Context) error
	ClearGraph(ctx context.Context, groupID string) error
	Add(ctx context.Context, episodes []types.Episode, options *predicato.AddEpisodeOptions) (*types.AddBulkEpisodeResults, error)
	Search(ctx context.Context, query string, config *types.SearchConfig) (*types.SearchResults, error)
	GetEpisodes(ctx context.Context, groupID string, limit int) ([]*types.Node, error)
	Close(ctx context.Context) error
}

var _ Client = (*predicato.Client)(nil)

// NewClient builds a predicato client backed by Neo4j, with LM Studio serving
// both chat completions and embeddings through its OpenAI-compatible API.
func NewClient(cfg *config.Config, log *slog.Logger) (*predicato.Client, error) {
	graphDriver, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	temperature := float32(0.0)
	llmConfig := llm.Config{
		Model:       cfg.LMStudio.ChatModel,
		BaseURL:     cfg.LMStudio.BaseURL,
		Temperature: &temperature,
	}
	baseLLMClient, err := llm.NewOpenAIClient(cfg.LMStudio.APIKey, llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	// Retry wrapper smooths over the hiccups local inference servers have
	// under load.
	llmClient := llm.NewRetryClient(baseLLMClient, llm.DefaultRetryConfig())

	embedderClient := embedder.NewOpenAIEmbedder(cfg.LMStudio.APIKey, embedder.Config{
		Model:      cfg.LMStudio.EmbeddingModel,
		BaseURL:    cfg.LMStudio.BaseURL,
		Dimensions: cfg.LMStudio.EmbeddingDimensions,
		BatchSize:  32,
	})

	predicatoConfig := &predicato.Config{
		GroupID:  cfg.Demo.GroupID,
		TimeZone: time.UTC,
	}

	client, err := predicato.NewClient(graphDriver, llmClient, embedderClient, predicatoConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create predicato client: %w", err)
	}

	return client, nil
}

// SearchConfig returns the search configuration the harness uses: the
// library defaults with edges included so facts come back with their
// validity windows.
func SearchConfig() *types.SearchConfig {
	return predicato.NewDefaultSearchConfig()
}

// Init prepares the graph for a demo run: indices first, then an optional
// wipe of the demo group, then indices again so the cleared graph is left in
// a consistent state.
func Init(ctx context.Context, client Client, groupID string, clear bool, w io.Writer) error {
	if err := cliui.Step(w, "Building graph indices and constraints", func() error {
		return client.CreateIndices(ctx)
	}); err != nil {
		return fmt.Errorf("building indices: %w", err)
	}

	if !clear {
		return nil
	}

	if err := cliui.Step(w, fmt.Sprintf("Clearing graph data for group %q", groupID), func() error {
		return client.ClearGraph(ctx, groupID)
	}); err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}

	if err := cliui.Step(w, "Rebuilding indices after clear", func() error {
		return client.CreateIndices(ctx)
	}); err != nil {
		return fmt.Errorf("rebuilding indices: %w", err)
	}

	return nil
}
