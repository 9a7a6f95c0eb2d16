package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hupe1980/agentmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/predicato"
	"github.com/soundprediction/predicato/pkg/types"
)

type fakeGraph struct {
	lastQuery  string
	lastConfig *types.SearchConfig
	searchErr  error
	edges      []*types.Edge
}

func (f *fakeGraph) CreateIndices(ctx context.Context) error                  { return nil }
func (f *fakeGraph) ClearGraph(ctx context.Context, groupID string) error     { return nil }
func (f *fakeGraph) Close(ctx context.Context) error                          { return nil }
func (f *fakeGraph) GetEpisodes(ctx context.Context, groupID string, limit int) ([]*types.Node, error) {
	return nil, nil
}

func (f *fakeGraph) Add(ctx context.Context, episodes []types.Episode, options *predicato.AddEpisodeOptions) (*types.AddBulkEpisodeResults, error) {
	return nil, nil
}

func (f *fakeGraph) Search(ctx context.Context, query string, config *types.SearchConfig) (*types.SearchResults, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.lastQuery = query
	f.lastConfig = config
	return &types.SearchResults{Edges: f.edges}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSearchToolSchema(t *testing.T) {
	tool := NewSearchTool(&fakeGraph{}, discardLogger())

	assert.Equal(t, "search_graph", tool.Name())
	assert.NotEmpty(t, tool.Description())

	params := tool.Parameters()
	assert.Equal(t, "object", params["type"])
	props, ok := params["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")
	assert.Equal(t, []string{"query"}, params["required"])
}

func TestSearchToolReturnsFacts(t *testing.T) {
	validAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeGraph{edges: []*types.Edge{
		{
			BaseEdge: types.BaseEdge{Uuid: "edge-1", SourceNodeID: "node-1"},
			Fact:     "Orion 2 is the flagship model",
			ValidAt:  &validAt,
		},
		{Fact: ""}, // edges without a fact are dropped
	}}
	tool := NewSearchTool(fake, discardLogger())

	out, err := tool.Call(nil, map[string]interface{}{"query": "flagship model"})
	require.NoError(t, err)

	facts, ok := out.([]SearchResult)
	require.True(t, ok)
	require.Len(t, facts, 1)
	assert.Equal(t, "edge-1", facts[0].UUID)
	assert.Equal(t, "Orion 2 is the flagship model", facts[0].Fact)
	assert.Equal(t, "node-1", facts[0].SourceNodeUUID)
	require.NotNil(t, facts[0].ValidAt)
	assert.Nil(t, facts[0].InvalidAt)

	assert.Equal(t, "flagship model", fake.lastQuery)
	assert.Equal(t, defaultFactLimit, fake.lastConfig.Limit)
}

func TestSearchToolHonorsLimit(t *testing.T) {
	fake := &fakeGraph{}
	tool := NewSearchTool(fake, discardLogger())

	// JSON-decoded numbers are float64.
	_, err := tool.Call(nil, map[string]interface{}{"query": "q", "limit": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, fake.lastConfig.Limit)
}

func TestSearchToolSwallowsSearchErrors(t *testing.T) {
	tool := NewSearchTool(&fakeGraph{searchErr: errors.New("neo4j down")}, discardLogger())

	out, err := tool.Call(nil, map[string]interface{}{"query": "anything"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearchToolEmptyQuery(t *testing.T) {
	tool := NewSearchTool(&fakeGraph{}, discardLogger())

	out, err := tool.Call(nil, map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func newEventChans() (chan core.Event, chan error) {
	return make(chan core.Event, 8), make(chan error, 1)
}

func textEvent(role, text string, partial bool) core.Event {
	e := core.Event{
		Content: &core.Content{Role: role, Parts: []core.Part{core.TextPart{Text: text}}},
	}
	if partial {
		e.Partial = &partial
	}
	return e
}

func TestDrainAnswerAccumulatesAssistantText(t *testing.T) {
	events, errs := newEventChans()
	events <- textEvent("user", "ignored", false)
	events <- textEvent("assistant", "streamed delta ", true) // partial, skipped
	events <- textEvent("assistant", "Hello, ", false)
	events <- textEvent("assistant", "world.", false)
	close(events)

	answer, err := drainAnswer(context.Background(), events, errs)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world.", answer)
}

func TestDrainAnswerPropagatesErrors(t *testing.T) {
	events, errs := newEventChans()
	errs <- errors.New("model unavailable")
	close(events)

	_, err := drainAnswer(context.Background(), events, errs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestDrainAnswerRespectsContext(t *testing.T) {
	events, errs := newEventChans()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := drainAnswer(ctx, events, errs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestREPLExitCommand(t *testing.T) {
	a := &Agent{log: discardLogger()}
	var out bytes.Buffer

	err := a.REPL(context.Background(), bytes.NewBufferString("/exit\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "bye")
}

func TestREPLEndsOnEOF(t *testing.T) {
	a := &Agent{log: discardLogger()}
	var out bytes.Buffer

	err := a.REPL(context.Background(), bytes.NewBufferString(""), &out)
	require.NoError(t, err)
}

func TestTroubleshootingHints(t *testing.T) {
	var out bytes.Buffer
	printTroubleshooting(&out, errors.New("connection refused"))

	s := out.String()
	assert.Contains(t, s, "connection refused")
	assert.Contains(t, s, "LM Studio is running")
	assert.Contains(t, s, "doctor")
}
