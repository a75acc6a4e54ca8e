package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pouw.net/chaincore/config"
	"pouw.net/core/logging"
)

func init() {
	rootCmd.PersistentFlags().String("config", "", "node configuration file (pouw.yaml)")
	rootCmd.PersistentFlags().String("sc-config", "", "smart contract configuration file (sc.yaml)")
	rootCmd.PersistentFlags().String("log-mode", "production", "logging mode, production or development")
	rootCmd.AddCommand(runCmd, configCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay mining contract scenarios",
	Long: `Replay executes scenario files against the mining smart contract with
fixed timestamps and seeded randomness, and prints the resulting state hash.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		nodeFile, _ := flags.GetString("config")
		if err := config.ReadNodeConfig(nodeFile); err != nil {
			return err
		}
		scFile, _ := flags.GetString("sc-config")
		if err := config.ReadSmartContractConfig(scFile); err != nil {
			return err
		}
		mode, _ := flags.GetString("log-mode")
		logging.InitLogging(mode, viper.GetString("logging.dir"))
		return nil
	},
}
