package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"pouw.net/chaincore/config"
	"pouw.net/core/logging"
	"pouw.net/smartcontract/dbs/event"
	"pouw.net/smartcontract/replay"
)

func init() {
	runCmd.Flags().Bool("events", false, "persist events to the configured event database")
	runCmd.Flags().Bool("check-invariants", true, "check the state after every step")
	runCmd.Flags().Bool("hash-only", false, "print only the final state hash")
}

var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Run a scenario and print its report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		sc, err := replay.ReadScenario(args[0])
		if err != nil {
			return err
		}

		var opts []replay.Option
		if flags.Changed("check-invariants") {
			check, _ := flags.GetBool("check-invariants")
			opts = append(opts, replay.WithInvariantChecks(check))
		}
		if withEvents, _ := flags.GetBool("events"); withEvents {
			access := config.GetDbAccess()
			edb, err := event.NewEventDb(access)
			if err != nil {
				return errors.Wrap(err, "open event db")
			}
			defer edb.Close()
			opts = append(opts, replay.WithEventDb(edb))
		}

		runner, err := replay.NewRunner(sc, config.SmartContractConfig, opts...)
		if err != nil {
			return err
		}
		report, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}
		logging.Logger.Info("scenario replayed",
			zap.String("scenario", sc.Name),
			zap.Int("steps", len(report.Steps)),
			zap.String("state_hash", report.StateHash))

		if hashOnly, _ := flags.GetBool("hash-only"); hashOnly {
			fmt.Fprintln(cmd.OutOrStdout(), report.StateHash)
		} else {
			out, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		}
		if report.Failed() {
			return errors.New("scenario ended with unexpected step outcomes")
		}
		return nil
	},
}
