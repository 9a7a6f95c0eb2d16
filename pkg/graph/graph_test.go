package graph

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/soundprediction/predicato"
	"github.com/soundprediction/predicato/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records the calls Init makes.
type fakeClient struct {
	indexCalls    int
	clearedGroups []string
	indexErr      error
	clearErr      error
}

func (f *fakeClient) CreateIndices(ctx context.Context) error {
	f.indexCalls++
	return f.indexErr
}

func (f *fakeClient) ClearGraph(ctx context.Context, groupID string) error {
	f.clearedGroups = append(f.clearedGroups, groupID)
	return f.clearErr
}

func (f *fakeClient) Add(ctx context.Context, episodes []types.Episode, options *predicato.AddEpisodeOptions) (*types.AddBulkEpisodeResults, error) {
	return &types.AddBulkEpisodeResults{}, nil
}

func (f *fakeClient) Search(ctx context.Context, query string, config *types.SearchConfig) (*types.SearchResults, error) {
	return &types.SearchResults{}, nil
}

func (f *fakeClient) GetEpisodes(ctx context.Context, groupID string, limit int) ([]*types.Node, error) {
	return nil, nil
}

func (f *fakeClient) Close(ctx context.Context) error { return nil }

func TestInitWithoutClear(t *testing.T) {
	f := &fakeClient{}
	var buf bytes.Buffer

	err := Init(context.Background(), f, "demo", false, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, f.indexCalls)
	assert.Empty(t, f.clearedGroups)
}

func TestInitWithClearRebuildsIndices(t *testing.T) {
	f := &fakeClient{}
	var buf bytes.Buffer

	err := Init(context.Background(), f, "demo", true, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, f.indexCalls)
	assert.Equal(t, []string{"demo"}, f.clearedGroups)
}

func TestInitSurfacesIndexError(t *testing.T) {
	f := &fakeClient{indexErr: errors.New("no database")}
	var buf bytes.Buffer

	err := Init(context.Background(), f, "demo", true, &buf)
	assert.Error(t, err)
	assert.Empty(t, f.clearedGroups)
}

func TestInitSurfacesClearError(t *testing.T) {
	f := &fakeClient{clearErr: errors.New("denied")}
	var buf bytes.Buffer

	err := Init(context.Background(), f, "demo", true, &buf)
	assert.Error(t, err)
	assert.Equal(t, 1, f.indexCalls)
}
