package config

import "github.com/spf13/viper"

/*DevConfig - these are to control features in development*/
type DevConfig struct {
	// CheckInvariants runs the full state consistency check after every
	// replayed step.
	CheckInvariants bool
}

//DevConfiguration - for configuration of features in development
var DevConfiguration DevConfig

func setupDevConfig() {
	DevConfiguration.CheckInvariants = viper.GetBool("development.check_invariants")
}
