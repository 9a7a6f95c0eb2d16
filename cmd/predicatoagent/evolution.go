package predicatoagent

import (
	"github.com/spf13/cobra"

	"github.com/soundprediction/predicato-agent/pkg/demo"
	"github.com/soundprediction/predicato-agent/pkg/graph"
)

var (
	evolutionKeepData bool
	evolutionNoPause  bool
)

var evolutionCmd = &cobra.Command{
	Use:   "evolution",
	Short: "Watch facts become superseded as a narrative advances",
	Long: `Evolution runs a three-phase narrative through the graph. Each phase
contradicts facts from the previous one, and the same probe queries rerun
after every phase so you can watch older facts pick up closed validity
windows instead of disappearing.`,
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
		runner.Clear = !evolutionKeepData
		runner.NoPause = evolutionNoPause
		return runner.Evolution(ctx)
	},
}

func init() {
	evolutionCmd.Flags().BoolVar(&evolutionKeepData, "keep-data", false, "keep existing demo data instead of clearing the group")
	evolutionCmd.Flags().BoolVar(&evolutionNoPause, "no-pause", false, "run all phases without pausing for Enter")
	rootCmd.AddCommand(evolutionCmd)
}
