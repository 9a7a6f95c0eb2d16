package predicatoagent

import (
	"github.com/spf13/cobra"

	"github.com/soundprediction/predicato-agent/pkg/agent"
	"github.com/soundprediction/predicato-agent/pkg/graph"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Chat with the knowledge graph",
	Long: `Agent starts an interactive chat session. The model answers through a
single search tool backed by the knowledge graph, so answers reflect what the
graph currently holds, including which facts have been superseded.

Run the quickstart or evolution demo first so the graph has something to say.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		client, err := graph.NewClient(cfg, log)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		a := agent.New(cfg, client, log)
		return a.REPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(agentCmd)
}
