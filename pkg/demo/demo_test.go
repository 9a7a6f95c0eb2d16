package demo

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/predicato"
	"github.com/soundprediction/predicato/pkg/types"
)

type fakeGraph struct {
	indexCalls int
	cleared    []string
	added      []types.Episode
	queries    []string
	configs    []*types.SearchConfig

	addErr     error
	searchErr  error
	searchHits *types.SearchResults
}

func (f *fakeGraph) CreateIndices(ctx context.Context) error { f.indexCalls++; return nil }

func (f *fakeGraph) ClearGraph(ctx context.Context, groupID string) error {
	f.cleared = append(f.cleared, groupID)
	return nil
}

func (f *fakeGraph) Add(ctx context.Context, episodes []types.Episode, options *predicato.AddEpisodeOptions) (*types.AddBulkEpisodeResults, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, episodes...)
	return &types.AddBulkEpisodeResults{
		Nodes: []*types.Node{{Name: "NovaMind Labs"}},
		Edges: []*types.Edge{{Fact: "stub"}},
	}, nil
}

func (f *fakeGraph) Search(ctx context.Context, query string, config *types.SearchConfig) (*types.SearchResults, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.queries = append(f.queries, query)
	f.configs = append(f.configs, config)
	if f.searchHits != nil {
		return f.searchHits, nil
	}
	return &types.SearchResults{Query: query}, nil
}

func (f *fakeGraph) GetEpisodes(ctx context.Context, groupID string, limit int) ([]*types.Node, error) {
	nodes := make([]*types.Node, 0, len(f.added))
	for _, ep := range f.added {
		nodes = append(nodes, &types.Node{Name: ep.Name, Reference: ep.Reference})
	}
	return nodes, nil
}

func (f *fakeGraph) Close(ctx context.Context) error { return nil }

func TestQuickstartIngestsAndSearches(t *testing.T) {
	fake := &fakeGraph{}
	var out bytes.Buffer
	r := NewRunner(fake, "test-group", &out, nil)

	err := r.Quickstart(context.Background())
	require.NoError(t, err)

	// Clear-on-start: indices, clear, indices again.
	assert.Equal(t, 2, fake.indexCalls)
	assert.Equal(t, []string{"test-group"}, fake.cleared)

	assert.Len(t, fake.added, len(QuickstartEpisodes("test-group")))
	for _, ep := range fake.added {
		assert.Equal(t, "test-group", ep.GroupID)
		assert.NotEmpty(t, ep.ID)
	}

	// The canned queries plus the reranked follow-up.
	require.Len(t, fake.queries, len(QuickstartQueries)+1)
	assert.Equal(t, QuickstartQueries[0], fake.queries[len(fake.queries)-1])

	last := fake.configs[len(fake.configs)-1]
	assert.True(t, last.Rerank)
	assert.Equal(t, 5, last.Limit)
	for _, cfg := range fake.configs[:len(fake.configs)-1] {
		assert.False(t, cfg.Rerank)
	}

	assert.Contains(t, out.String(), "Stored episodes")
	assert.Contains(t, out.String(), fake.added[0].Name)
	assert.Contains(t, out.String(), "Quickstart complete")
}

func TestQuickstartWithoutClear(t *testing.T) {
	fake := &fakeGraph{}
	r := NewRunner(fake, "test-group", &bytes.Buffer{}, nil)
	r.Clear = false

	require.NoError(t, r.Quickstart(context.Background()))
	assert.Equal(t, 1, fake.indexCalls)
	assert.Empty(t, fake.cleared)
}

func TestQuickstartAddError(t *testing.T) {
	fake := &fakeGraph{addErr: errors.New("lm studio unreachable")}
	r := NewRunner(fake, "test-group", &bytes.Buffer{}, nil)

	err := r.Quickstart(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adding episode")
}

func TestEvolutionRunsAllPhases(t *testing.T) {
	fake := &fakeGraph{}
	var out bytes.Buffer
	r := NewRunner(fake, "test-group", &out, nil)
	r.NoPause = true

	require.NoError(t, r.Evolution(context.Background()))

	phases := EvolutionPhases("test-group")
	wantEpisodes := 0
	for _, p := range phases {
		wantEpisodes += len(p.Episodes)
	}
	assert.Len(t, fake.added, wantEpisodes)

	// Every probe reruns after every phase.
	assert.Len(t, fake.queries, len(phases)*len(EvolutionProbes))

	for _, p := range phases {
		assert.Contains(t, out.String(), p.Name)
	}
	assert.Contains(t, out.String(), "Evolution complete")
}

func TestEvolutionPausesBetweenPhases(t *testing.T) {
	fake := &fakeGraph{}
	var out bytes.Buffer
	// Two newlines: one gate after each of the first two phases.
	r := NewRunner(fake, "test-group", &out, strings.NewReader("\n\n"))

	require.NoError(t, r.Evolution(context.Background()))
	assert.Equal(t, 2, strings.Count(out.String(), "Press Enter to continue"))
}

func TestSearchPrintsValidityWindows(t *testing.T) {
	validAt := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	invalidAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeGraph{searchHits: &types.SearchResults{
		Edges: []*types.Edge{
			{Fact: "Orion 1 is the flagship model", ValidAt: &validAt, InvalidAt: &invalidAt},
			{Fact: "Orion 2 is the flagship model", ValidAt: &invalidAt},
		},
	}}
	var out bytes.Buffer
	r := NewRunner(fake, "test-group", &out, nil)

	require.NoError(t, r.search(context.Background(), "flagship?", predicato.NewDefaultSearchConfig()))

	s := out.String()
	assert.Contains(t, s, "Orion 1 is the flagship model")
	assert.Contains(t, s, "valid 2025-01-10 00:00 → superseded 2025-06-01 00:00")
	assert.Contains(t, s, "valid since 2025-06-01 00:00")
}

func TestSearchFallsBackToNodeSummaries(t *testing.T) {
	fake := &fakeGraph{searchHits: &types.SearchResults{
		Nodes: []*types.Node{{Name: "NovaMind Labs", Summary: "An AI research company in Rotterdam"}},
	}}
	var out bytes.Buffer
	r := NewRunner(fake, "test-group", &out, nil)

	require.NoError(t, r.search(context.Background(), "who?", predicato.NewDefaultSearchConfig()))
	assert.Contains(t, out.String(), "An AI research company in Rotterdam")
}

func TestSearchReportsEmptyResults(t *testing.T) {
	fake := &fakeGraph{}
	var out bytes.Buffer
	r := NewRunner(fake, "test-group", &out, nil)

	require.NoError(t, r.search(context.Background(), "anything?", predicato.NewDefaultSearchConfig()))
	assert.Contains(t, out.String(), "no results")
}

func TestEpisodeFixturesAreWellFormed(t *testing.T) {
	for _, ep := range QuickstartEpisodes("g") {
		assert.NotEmpty(t, ep.ID)
		assert.NotEmpty(t, ep.Name)
		assert.NotEmpty(t, ep.Content)
		assert.Equal(t, "g", ep.GroupID)
		assert.False(t, ep.Reference.IsZero())
	}

	phases := EvolutionPhases("g")
	require.Len(t, phases, 3)
	for i := 1; i < len(phases); i++ {
		assert.True(t, phases[i].Episodes[0].Reference.After(phases[i-1].Episodes[0].Reference),
			"phase references must advance in time")
	}
}
