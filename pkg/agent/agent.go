// Package agent hosts the conversational interface over the knowledge graph:
// a tool-calling model agent whose only capability is searching the graph,
// plus the terminal chat loop that drives it.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentmesh"
	meshagent "github.com/hupe1980/agentmesh/agent"
	"github.com/hupe1980/agentmesh/core"
	"github.com/hupe1980/agentmesh/logging"
	openaimodel "github.com/hupe1980/agentmesh/model/openai"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/soundprediction/predicato-agent/pkg/config"
	"github.com/soundprediction/predicato-agent/pkg/graph"
)

const agentName = "graph-assistant"

// systemPrompt steers the model toward the graph tool and temporal honesty.
const systemPrompt = `You are a helpful assistant with access to a temporal knowledge graph.
Use the search_graph tool to look up facts before answering questions about
people, organizations, models, or events. Facts carry validity windows: a fact
with an invalid_at timestamp has been superseded and must not be presented as
current. When facts conflict, prefer the one that is still valid and mention
that the older fact was superseded. If the graph has no relevant facts, say so
instead of guessing.`

// Agent wraps a registered mesh agent with the session it talks through.
type Agent struct {
	mesh      *agentmesh.AgentMesh
	sessionID string
	log       *slog.Logger
}

// New builds the conversational agent: an LM Studio backed model with the
// graph search tool registered, running inside an in-memory mesh.
func New(cfg *config.Config, client graph.Client, log *slog.Logger) *Agent {
	oaiClient := openai.NewClient(
		option.WithBaseURL(cfg.LMStudio.BaseURL),
		option.WithAPIKey(cfg.LMStudio.APIKey),
	)
	model := openaimodel.NewModelFromClient(&oaiClient, func(o *openaimodel.Options) {
		o.Model = cfg.LMStudio.ChatModel
		o.Temperature = 0.7
	})

	a := meshagent.NewModelAgent(agentName, model, func(o *meshagent.ModelAgentOptions) {
		o.Instruction = meshagent.NewInstructionFromText(systemPrompt)
		// Local models are slow; graph search fans out into several Neo4j
		// queries plus an embedding call.
		o.ToolTimeout = 60 * time.Second
		o.AllowTransfer = false
	})
	a.RegisterTool(NewSearchTool(client, log))

	meshLevel := logging.LogLevelWarn
	if cfg.Log.Level == "debug" {
		meshLevel = logging.LogLevelDebug
	}
	mesh := agentmesh.New(func(o *agentmesh.Options) {
		o.Logger = logging.NewSlogLogger(meshLevel, "text", false)
	})
	mesh.RegisterAgent(a)

	return &Agent{
		mesh:      mesh,
		sessionID: uuid.NewString(),
		log:       log,
	}
}

// Ask sends one user message through the mesh and returns the assistant's
// full answer once the turn completes. Conversation history accumulates in
// the mesh session, so follow-up questions see earlier turns.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	content := core.Content{
		Role:  "user",
		Parts: []core.Part{core.TextPart{Text: question}},
	}

	_, events, errs, err := a.mesh.Invoke(ctx, a.sessionID, agentName, content)
	if err != nil {
		return "", fmt.Errorf("invoking agent: %w", err)
	}

	return drainAnswer(ctx, events, errs)
}

// drainAnswer accumulates assistant text from the event stream until the
// channels close. Partial (streaming delta) events are skipped so text is
// not duplicated when the final aggregated event arrives.
func drainAnswer(ctx context.Context, events <-chan core.Event, errs <-chan error) (string, error) {
	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			return b.String(), ctx.Err()

		case event, ok := <-events:
			if !ok {
				select {
				case err := <-errs:
					if err != nil {
						return b.String(), err
					}
				default:
				}
				return b.String(), nil
			}
			if event.Content == nil || event.Content.Role != "assistant" {
				continue
			}
			if event.Partial != nil && *event.Partial {
				continue
			}
			for _, part := range event.Content.Parts {
				if text, ok := part.(core.TextPart); ok {
					b.WriteString(text.Text)
				}
			}

		case err := <-errs:
			if err != nil {
				return b.String(), err
			}
		}
	}
}
