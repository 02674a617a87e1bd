package config

import (
	"github.com/brocaar/lorawan/band"
)

// Version defines the sx130x-freq version.
var Version string

// Config defines the configuration structure.
type Config struct {
	General struct {
		LogLevel    int  `mapstructure:"log_level"`
		LogToSyslog bool `mapstructure:"log_to_syslog"`
	} `mapstructure:"general"`

	Input struct {
		File string `mapstructure:"file"`
	} `mapstructure:"input"`

	Band struct {
		Name                 band.Name `mapstructure:"name"`
		RepeaterCompatible   bool      `mapstructure:"repeater_compatible"`
		UplinkDwellTime400ms bool      `mapstructure:"uplink_dwell_time_400ms"`
	} `mapstructure:"band"`

	Metrics struct {
		Prometheus struct {
			TextfilePath string `mapstructure:"textfile_path"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"metrics"`
}

// C holds the global configuration.
var C Config
