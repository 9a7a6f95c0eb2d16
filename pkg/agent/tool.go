package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/hupe1980/agentmesh/core"
	meshtool "github.com/hupe1980/agentmesh/tool"

	"github.com/soundprediction/predicato-agent/pkg/graph"
)

// defaultFactLimit bounds how many facts a single tool call hands back to the
// model. LM Studio models choke on oversized tool outputs.
const defaultFactLimit = 10

// SearchResult is one fact handed back to the model, with the temporal
// validity window so the model can reason about superseded information.
type SearchResult struct {
	UUID           string     `json:"uuid"`
	Fact           string     `json:"fact"`
	ValidAt        *time.Time `json:"valid_at,omitempty"`
	InvalidAt      *time.Time `json:"invalid_at,omitempty"`
	SourceNodeUUID string     `json:"source_node_uuid,omitempty"`
}

// SearchTool exposes knowledge graph search to the agent as a callable tool.
type SearchTool struct {
	client graph.Client
	log    *slog.Logger
}

var _ meshtool.Tool = (*SearchTool)(nil)

// NewSearchTool returns the graph search tool backed by the given client.
func NewSearchTool(client graph.Client, log *slog.Logger) *SearchTool {
	return &SearchTool{client: client, log: log}
}

func (t *SearchTool) Name() string { return "search_graph" }

func (t *SearchTool) Description() string {
	return "Search the temporal knowledge graph for facts relevant to a query. " +
		"Returns facts with validity windows; a fact with an invalid_at timestamp " +
		"has been superseded and is no longer current."
}

func (t *SearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Natural language query to search the graph for",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of facts to return (default 10)",
			},
		},
		"required": []string{"query"},
	}
}

// Call runs the graph search. It never returns an error to the model: a
// failed search yields an empty result list instead, so the model answers
// from what it has rather than looping on tool retries.
func (t *SearchTool) Call(toolCtx *core.ToolContext, args map[string]interface{}) (interface{}, error) {
	ctx := context.Background()
	if toolCtx != nil {
		ctx = toolCtx.Context()
	}

	query, _ := args["query"].(string)
	if query == "" {
		return []SearchResult{}, nil
	}

	limit := defaultFactLimit
	// JSON numbers arrive as float64.
	if f, ok := args["limit"].(float64); ok && f > 0 {
		limit = int(f)
	}

	config := graph.SearchConfig()
	config.Limit = limit

	results, err := t.client.Search(ctx, query, config)
	if err != nil {
		t.log.Warn("graph search failed", "query", query, "error", err)
		return []SearchResult{}, nil
	}

	facts := make([]SearchResult, 0, len(results.Edges))
	for _, edge := range results.Edges {
		if edge == nil || edge.Fact == "" {
			continue
		}
		facts = append(facts, SearchResult{
			UUID:           edge.Uuid,
			Fact:           edge.Fact,
			ValidAt:        edge.ValidAt,
			InvalidAt:      edge.InvalidAt,
			SourceNodeUUID: edge.SourceNodeID,
		})
	}
	return facts, nil
}
