package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	openai "github.com/sashabaranov/go-openai"

	"github.com/soundprediction/predicato-agent/pkg/graph"
)

// Check names shared with the summary table.
const (
	neo4jCheckName = "Neo4j Connection"
	lmCheckName    = "LM Studio Connection"
	chatCheckName  = "Chat Completion"
	graphCheckName = "Graph Initialization"
)

// CheckNeo4j verifies bolt connectivity, runs a round-trip query, and reads
// the kernel version.
func (s *Suite) CheckNeo4j(ctx context.Context) Result {
	hints := []string{
		"Ensure Neo4j is running (check Neo4j Desktop or the container)",
		"Verify connection details in your .env file",
		fmt.Sprintf("Current config: %s, user: %s", s.cfg.Neo4j.URI, s.cfg.Neo4j.Username),
	}

	driver, err := neo4j.NewDriverWithContext(s.cfg.Neo4j.URI, neo4j.BasicAuth(s.cfg.Neo4j.Username, s.cfg.Neo4j.Password, ""))
	if err != nil {
		return fail(neo4jCheckName, fmt.Errorf("creating driver: %w", err), hints...)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fail(neo4jCheckName, fmt.Errorf("verifying connectivity: %w", err), hints...)
	}

	detail := []string{"Neo4j connection successful"}

	session := driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.cfg.Neo4j.Database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "RETURN 'Hello Neo4j!' AS message", nil)
	if err != nil {
		return fail(neo4jCheckName, fmt.Errorf("running query: %w", err), hints...)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return fail(neo4jCheckName, fmt.Errorf("reading query result: %w", err), hints...)
	}
	if msg, ok := record.Get("message"); ok {
		detail = append(detail, fmt.Sprintf("Query test successful: %v", msg))
	}

	if version := s.neo4jVersion(ctx, driver); version != "" {
		detail = append(detail, "Neo4j version: "+version)
	}

	return pass(neo4jCheckName, detail...)
}

// neo4jVersion reads the kernel version from dbms.components. Best effort:
// some deployments restrict the procedure, and the check should not fail on
// that alone.
func (s *Suite) neo4jVersion(ctx context.Context, driver neo4j.DriverWithContext) string {
	session := driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.cfg.Neo4j.Database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "CALL dbms.components() YIELD name, versions RETURN name, versions", nil)
	if err != nil {
		return ""
	}
	for result.Next(ctx) {
		record := result.Record()
		name, _ := record.Get("name")
		if name != "Neo4j Kernel" {
			continue
		}
		versions, ok := record.Get("versions")
		if !ok {
			continue
		}
		if list, ok := versions.([]any); ok && len(list) > 0 {
			return fmt.Sprintf("%v", list[0])
		}
	}
	return ""
}

// CheckLMStudio lists the models LM Studio has loaded. Returns the model IDs
// so the chat check can use the first available one.
func (s *Suite) CheckLMStudio(ctx context.Context) (Result, []string) {
	client := s.openAIClient()

	models, err := client.ListModels(ctx)
	if err != nil {
		return fail(lmCheckName, fmt.Errorf("listing models: %w", err),
			"Ensure LM Studio is running",
			"Start the local server in LM Studio (Developer tab)",
			fmt.Sprintf("Current config: %s", s.cfg.LMStudio.BaseURL),
		), nil
	}

	ids := make([]string, 0, len(models.Models))
	for _, m := range models.Models {
		ids = append(ids, m.ID)
	}

	detail := []string{
		"Connected via OpenAI-compatible API",
		fmt.Sprintf("Available models: %d", len(ids)),
	}
	for i, id := range ids {
		if i >= 3 {
			detail = append(detail, fmt.Sprintf("... and %d more models", len(ids)-3))
			break
		}
		detail = append(detail, fmt.Sprintf("%d. %s", i+1, id))
	}

	return pass(lmCheckName, detail...), ids
}

// CheckChat runs a short completion against the given model.
func (s *Suite) CheckChat(ctx context.Context, model string) Result {
	client := s.openAIClient()

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant."},
			{Role: openai.ChatMessageRoleUser, Content: "Say hello and confirm you are working. Keep it short."},
		},
		MaxTokens:   50,
		Temperature: 0.7,
	})
	if err != nil {
		return fail(chatCheckName, fmt.Errorf("chat completion: %w", err),
			"Verify the model is fully loaded in LM Studio",
			"Enable just-in-time model loading if needed",
		)
	}
	if len(resp.Choices) == 0 {
		return fail(chatCheckName, fmt.Errorf("no choices returned"))
	}

	return pass(chatCheckName,
		"Using model: "+model,
		"Response: "+strings.TrimSpace(resp.Choices[0].Message.Content),
	)
}

// CheckGraph builds a full predicato client and creates indices, proving the
// library can drive both services end to end.
func (s *Suite) CheckGraph(ctx context.Context) Result {
	client, err := graph.NewClient(s.cfg, s.log)
	if err != nil {
		return fail(graphCheckName, fmt.Errorf("initializing predicato: %w", err),
			"Check the Neo4j and LM Studio settings above",
		)
	}
	defer client.Close(ctx)

	if err := client.CreateIndices(ctx); err != nil {
		return fail(graphCheckName, fmt.Errorf("building indices: %w", err),
			"Check Neo4j permissions for index creation",
		)
	}

	return pass(graphCheckName,
		"predicato client initialized",
		"Indices and constraints built",
		"Connection closed cleanly",
	)
}

// openAIClient builds a go-openai client pointed at LM Studio.
func (s *Suite) openAIClient() *openai.Client {
	clientConfig := openai.DefaultConfig(s.cfg.LMStudio.APIKey)
	clientConfig.BaseURL = s.cfg.LMStudio.BaseURL
	return openai.NewClientWithConfig(clientConfig)
}
