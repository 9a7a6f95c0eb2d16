package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/soundprediction/predicato-agent/pkg/cliui"
)

var promptStyle = cliui.KeyStyle

// REPL runs the interactive chat loop: read a question, ask the agent, render
// the answer as markdown. Exits on /exit, /quit, or EOF.
func (a *Agent) REPL(ctx context.Context, in io.Reader, out io.Writer) error {
	cliui.Banner(out, "Predicato Agent",
		"chat with the knowledge graph · /exit to quit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s ", promptStyle.Render("you ❯"))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
			continue
		case "/exit", "/quit":
			fmt.Fprintf(out, "%s\n", cliui.DimStyle.Render("bye"))
			return nil
		}

		var answer string
		err := cliui.Step(out, "Thinking", func() error {
			var askErr error
			answer, askErr = a.Ask(ctx, question)
			return askErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			printTroubleshooting(out, err)
			continue
		}

		rendered, renderErr := cliui.RenderMarkdown(answer)
		if renderErr != nil {
			a.log.Debug("markdown rendering failed", "error", renderErr)
		}
		fmt.Fprintln(out, rendered)
	}
}

// printTroubleshooting keeps the chat loop alive after a failed turn and
// points at the usual local-setup culprits.
func printTroubleshooting(w io.Writer, err error) {
	fmt.Fprintf(w, "\n  %s %s\n", cliui.FailMark, err)
	fmt.Fprintf(w, "  %s\n", cliui.WarnStyle.Render("If this keeps happening, check that:"))
	for _, hint := range []string{
		"LM Studio is running with the local server started",
		"a chat model is loaded and matches MODEL_CHOICE",
		"Neo4j is reachable at the configured bolt URI",
		"run `predicato-agent doctor` for a full connection check",
	} {
		fmt.Fprintf(w, "    %s %s\n", cliui.DimStyle.Render("-"), hint)
	}
	fmt.Fprintln(w)
}
