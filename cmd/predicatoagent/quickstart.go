package predicatoagent

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soundprediction/predicato-agent/pkg/demo"
	"github.com/soundprediction/predicato-agent/pkg/graph"
)

var quickstartKeepData bool

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Ingest a few episodes and search the knowledge graph",
	Long: `Quickstart runs the end-to-end smoke demo: it initializes the graph,
ingests a small set of text and JSON episodes, then runs a handful of
searches and prints the retrieved facts with their validity windows.`,
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

		runner := demo.NewRunner(client, cfg.Demo.GroupID, cmd.OutOrStdout(), cmd.InOrStdin())
		runner.Clear = !quickstartKeepData
		return runner.Quickstart(ctx)
	},
}

func init() {
	quickstartCmd.Flags().BoolVar(&quickstartKeepData, "keep-data", false, "keep existing demo data instead of clearing the group")
	rootCmd.AddCommand(quickstartCmd)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM so demos
// shut down cleanly on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
