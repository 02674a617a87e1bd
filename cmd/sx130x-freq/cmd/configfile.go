package cmd

import (
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/brocaar/sx130x-freq/internal/config"
)

// when updating this template, don't forget to update the defaults in root.go!
const configTemplate = `[general]
# Log level
#
# debug=5, info=4, warning=3, error=2, fatal=1, panic=0
log_level={{ .General.LogLevel }}

# Log to syslog.
#
# When set to true, log messages are being written to syslog.
log_to_syslog={{ .General.LogToSyslog }}


# Input settings.
[input]
# Packet-forwarder configuration file.
#
# When left blank, the configuration is read from stdin.
file="{{ .Input.File }}"


# LoRaWAN regional band configuration.
#
# This is only used by the check command, which validates the calculated
# channels against the default channels and data-rates of the band.
[band]
# LoRaWAN band to use.
#
# Valid values are:
# * AS923
# * AS923_2
# * AS923_3
# * AS923_4
# * AU915
# * CN470
# * CN779
# * EU433
# * EU868
# * IN865
# * ISM2400
# * KR920
# * RU864
# * US915
name="{{ .Band.Name }}"

# Enforce repeater compatibility.
repeater_compatible={{ .Band.RepeaterCompatible }}

# Enforce 400ms dwell time.
uplink_dwell_time_400ms={{ .Band.UplinkDwellTime400ms }}


# Metrics configuration.
[metrics]

  # Prometheus metrics settings.
  [metrics.prometheus]
  # Textfile path.
  #
  # When set, the radio and channel frequencies are written to this file in
  # the Prometheus text format (e.g. for the node_exporter textfile collector).
  textfile_path="{{ .Metrics.Prometheus.TextfilePath }}"
`

var configCmd = &cobra.Command{
	Use:   "configfile",
	Short: "Print the sx130x-freq configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := template.Must(template.New("config").Parse(configTemplate))
		err := t.Execute(cmd.OutOrStdout(), &config.C)
		if err != nil {
			return errors.Wrap(err, "execute config template error")
		}
		return nil
	},
}
