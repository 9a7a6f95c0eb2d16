// Package demo drives the scripted walkthroughs: the quickstart ingest-and-
// search run and the multi-phase evolution narrative that shows facts being
// superseded over time.
package demo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/soundprediction/predicato"
	"github.com/soundprediction/predicato/pkg/types"

	"github.com/soundprediction/predicato-agent/pkg/cliui"
	"github.com/soundprediction/predicato-agent/pkg/graph"
)

// Runner executes the scripted demos against a graph client.
type Runner struct {
	Client  graph.Client
	GroupID string

	// Clear wipes the demo group before ingesting, so reruns start from the
	// same state.
	Clear bool

	// NoPause skips the interactive "press Enter" gates between evolution
	// phases.
	NoPause bool

	Out io.Writer
	In  io.Reader
}

// NewRunner returns a Runner with the given graph client and group.
func NewRunner(client graph.Client, groupID string, out io.Writer, in io.Reader) *Runner {
	return &Runner{
		Client:  client,
		GroupID: groupID,
		Clear:   true,
		Out:     out,
		In:      in,
	}
}

// Quickstart runs the end-to-end smoke demo: initialize the graph, ingest a
// small fixed episode set, then run canned searches and print the retrieved
// facts with their validity windows.
func (r *Runner) Quickstart(ctx context.Context) error {
	cliui.Banner(r.Out, "Predicato Quickstart",
		"ingest a few episodes, then search the temporal knowledge graph")

	if err := graph.Init(ctx, r.Client, r.GroupID, r.Clear, r.Out); err != nil {
		return err
	}

	episodes := QuickstartEpisodes(r.GroupID)
	if err := r.ingest(ctx, episodes); err != nil {
		return err
	}

	cliui.Rule(r.Out, "Searching the graph")
	for _, query := range QuickstartQueries {
		if err := r.search(ctx, query, predicato.NewDefaultSearchConfig()); err != nil {
			return err
		}
	}

	// Rerun the first query with reranking, the closest the library gets to
	// the focused follow-up search the walkthrough calls for.
	cliui.Rule(r.Out, "Reranked follow-up")
	rerankConfig := predicato.NewDefaultSearchConfig()
	rerankConfig.Rerank = true
	rerankConfig.Limit = 5
	if err := r.search(ctx, QuickstartQueries[0], rerankConfig); err != nil {
		return err
	}

	cliui.Rule(r.Out, "Stored episodes")
	stored, err := r.Client.GetEpisodes(ctx, r.GroupID, 10)
	if err != nil {
		return fmt.Errorf("listing episodes: %w", err)
	}
	for _, node := range stored {
		fmt.Fprintf(r.Out, "  %s %s %s\n", cliui.DimStyle.Render("·"), node.Name,
			cliui.DimStyle.Render(node.Reference.UTC().Format("2006-01-02")))
	}

	fmt.Fprintf(r.Out, "\n  %s Quickstart complete\n", cliui.SuccessMark)
	return nil
}

// Evolution runs the three-phase narrative. After each phase the same probe
// queries rerun so superseded facts show up with closed validity windows.
func (r *Runner) Evolution(ctx context.Context) error {
	cliui.Banner(r.Out, "Predicato Evolution",
		"watch facts become superseded as the narrative advances")

	if err := graph.Init(ctx, r.Client, r.GroupID, r.Clear, r.Out); err != nil {
		return err
	}

	phases := EvolutionPhases(r.GroupID)
	for i, phase := range phases {
		cliui.Rule(r.Out, phase.Name)
		fmt.Fprintf(r.Out, "  %s\n\n", cliui.DimStyle.Render(phase.Intro))

		if err := r.ingest(ctx, phase.Episodes); err != nil {
			return err
		}

		for _, query := range EvolutionProbes {
			if err := r.search(ctx, query, predicato.NewDefaultSearchConfig()); err != nil {
				return err
			}
		}

		if i < len(phases)-1 {
			r.pause()
		}
	}

	fmt.Fprintf(r.Out, "\n  %s Evolution complete\n", cliui.SuccessMark)
	return nil
}

func (r *Runner) ingest(ctx context.Context, episodes []types.Episode) error {
	for _, ep := range episodes {
		var results *types.AddBulkEpisodeResults
		msg := fmt.Sprintf("Ingesting episode %q", ep.Name)
		err := cliui.Step(r.Out, msg, func() error {
			var addErr error
			results, addErr = r.Client.Add(ctx, []types.Episode{ep}, nil)
			return addErr
		})
		if err != nil {
			return fmt.Errorf("adding episode %q: %w", ep.Name, err)
		}
		if results != nil {
			fmt.Fprintf(r.Out, "    %s\n", cliui.DimStyle.Render(
				fmt.Sprintf("extracted %d entities, %d relationships", len(results.Nodes), len(results.Edges))))
		}
	}
	return nil
}

func (r *Runner) search(ctx context.Context, query string, config *types.SearchConfig) error {
	fmt.Fprintf(r.Out, "\n  %s %s\n", cliui.KeyStyle.Render("?"), query)

	results, err := r.Client.Search(ctx, query, config)
	if err != nil {
		return fmt.Errorf("searching %q: %w", query, err)
	}

	printed := 0
	for _, edge := range results.Edges {
		if edge == nil || edge.Fact == "" {
			continue
		}
		cliui.Fact(r.Out, edge.Fact, formatTime(edge.ValidAt), formatTime(edge.InvalidAt))
		printed++
	}
	if printed == 0 {
		// Fall back to node summaries when the search returned no facts.
		for _, node := range results.Nodes {
			if node == nil || node.Summary == "" {
				continue
			}
			cliui.Fact(r.Out, node.Summary, "", "")
			printed++
		}
	}
	if printed == 0 {
		fmt.Fprintf(r.Out, "  %s\n", cliui.DimStyle.Render("no results"))
	}
	return nil
}

func (r *Runner) pause() {
	if r.NoPause || r.In == nil {
		return
	}
	fmt.Fprintf(r.Out, "\n  %s", cliui.DimStyle.Render("Press Enter to continue..."))
	scanner := bufio.NewScanner(r.In)
	scanner.Scan()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
