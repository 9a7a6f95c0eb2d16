package predicatoagent

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/predicato-agent/pkg/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connections to Neo4j and LM Studio",
	Long: `Doctor verifies the local setup the demos depend on: the Neo4j
connection, the LM Studio server, a chat completion against the configured
model, and graph index creation. Checks that depend on a failed prerequisite
are skipped rather than reported as extra failures.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		if !doctor.New(cfg, log).Run(ctx, cmd.OutOrStdout()) {
			return fmt.Errorf("some checks failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
