package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"pouw.net/chaincore/config"
	"pouw.net/smartcontract/miningsc"
)

type effectiveConfig struct {
	CoolDownPeriod         uint64                  `yaml:"cool_down_period"`
	ExpectedHeartbeatCount uint32                  `yaml:"expected_heartbeat_count"`
	SecsPerTick            uint32                  `yaml:"secs_per_tick"`
	Owner                  string                  `yaml:"owner"`
	PoolAccount            string                  `yaml:"pool_account"`
	SubsidyAccount         string                  `yaml:"subsidy_account"`
	CheckInvariants        bool                    `yaml:"check_invariants"`
	Tokenomic              *miningsc.TokenomicView `yaml:"tokenomic"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective genesis configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v := config.SmartContractConfig
		gc, err := miningsc.ReadGenesisConfig(v)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(effectiveConfig{
			CoolDownPeriod:         gc.CoolDownPeriod,
			ExpectedHeartbeatCount: gc.ExpectedHeartbeatCount,
			SecsPerTick:            v.GetUint32("smart_contracts.miningsc.secs_per_tick"),
			Owner:                  v.GetString("smart_contracts.miningsc.owner"),
			PoolAccount:            v.GetString("smart_contracts.miningsc.pool_account"),
			SubsidyAccount:         v.GetString("smart_contracts.miningsc.subsidy_account"),
			CheckInvariants:        config.DevConfiguration.CheckInvariants,
			Tokenomic:              miningsc.NewTokenomicView(gc.Tokenomic),
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}
