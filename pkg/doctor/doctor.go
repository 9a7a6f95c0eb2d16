// Package doctor verifies that the services the demos depend on are
// reachable: Neo4j over bolt, LM Studio over its OpenAI-compatible API, and
// the predicato client that binds them together.
package doctor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/soundprediction/predicato-agent/pkg/cliui"
	"github.com/soundprediction/predicato-agent/pkg/config"
)

// Result holds the outcome of a single connectivity check.
type Result struct {
	Name   string
	Passed bool
	Detail []string
	Err    error
	Hints  []string
}

// pass builds a passing result.
func pass(name string, detail ...string) Result {
	return Result{Name: name, Passed: true, Detail: detail}
}

// fail builds a failing result with troubleshooting hints.
func fail(name string, err error, hints ...string) Result {
	return Result{Name: name, Err: err, Hints: hints}
}

// Suite runs the connectivity checks in dependency order.
type Suite struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a check suite for the given configuration.
func New(cfg *config.Config, log *slog.Logger) *Suite {
	return &Suite{cfg: cfg, log: log}
}

// Run executes all checks, printing each as it completes. The chat check
// only runs when LM Studio is reachable, and the graph check only when both
// Neo4j and LM Studio are up, since it needs the two of them. Returns true
// when every executed check passed and none were skipped.
func (s *Suite) Run(ctx context.Context, w io.Writer) bool {
	cliui.Banner(w, "Connection Test Suite", "predicato + LM Studio + Neo4j")

	cliui.Rule(w, "Current Configuration")
	cliui.KV(w, "Neo4j URI", s.cfg.Neo4j.URI)
	cliui.KV(w, "Neo4j user", s.cfg.Neo4j.Username)
	cliui.KV(w, "LM Studio base URL", s.cfg.LMStudio.BaseURL)
	cliui.KV(w, "Chat model", s.cfg.LMStudio.ChatModel)
	cliui.KV(w, "Embedding model", fmt.Sprintf("%s (%d dims)", s.cfg.LMStudio.EmbeddingModel, s.cfg.LMStudio.EmbeddingDimensions))

	neo4jRes := s.CheckNeo4j(ctx)
	printResult(w, neo4jRes)

	lmRes, models := s.CheckLMStudio(ctx)
	printResult(w, lmRes)

	chatRes := Result{Name: chatCheckName}
	if lmRes.Passed && len(models) > 0 {
		chatRes = s.CheckChat(ctx, models[0])
		printResult(w, chatRes)
	} else {
		printSkipped(w, chatCheckName, "LM Studio unavailable")
	}

	graphRes := Result{Name: graphCheckName}
	if neo4jRes.Passed && lmRes.Passed {
		graphRes = s.CheckGraph(ctx)
		printResult(w, graphRes)
	} else {
		printSkipped(w, graphCheckName, "requires Neo4j and LM Studio")
	}

	results := []Result{neo4jRes, lmRes, chatRes, graphRes}

	cliui.Rule(w, "Test Summary")
	allPassed := true
	for _, r := range results {
		fmt.Fprintf(w, "  %-28s %s\n", r.Name, cliui.PassFail(r.Passed))
		if !r.Passed {
			allPassed = false
		}
	}
	fmt.Fprintln(w)
	if allPassed {
		fmt.Fprintf(w, "  %s All tests passed. You're ready to run the demos.\n", cliui.SuccessMark)
	} else {
		fmt.Fprintf(w, "  %s Some tests failed. Address the issues above before running the demos.\n", cliui.FailMark)
	}

	return allPassed
}

func printResult(w io.Writer, r Result) {
	cliui.Rule(w, r.Name)
	if r.Passed {
		for _, d := range r.Detail {
			fmt.Fprintf(w, "  %s %s\n", cliui.SuccessMark, d)
		}
		return
	}

	fmt.Fprintf(w, "  %s %v\n", cliui.FailMark, r.Err)
	if len(r.Hints) > 0 {
		fmt.Fprintf(w, "\n  %s\n", cliui.DimStyle.Render("Troubleshooting:"))
		for i, h := range r.Hints {
			fmt.Fprintf(w, "  %d. %s\n", i+1, h)
		}
	}
}

func printSkipped(w io.Writer, name, reason string) {
	cliui.Rule(w, name)
	fmt.Fprintf(w, "  %s\n", cliui.DimStyle.Render("skipped: "+reason))
}
