package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brocaar/sx130x-freq/internal/band"
	"github.com/brocaar/sx130x-freq/internal/config"
	"github.com/brocaar/sx130x-freq/internal/frequency"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the enabled channels against a LoRaWAN band",
	Long: `Check the enabled channels against the default uplink channels and
data-rates of the LoRaWAN band given by --band (or band.name).

	cat global_conf.json | sx130x-freq check --band EU868`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	r := newRunner(cmd)

	tasks := []func() error{
		setLogLevel,
		setSyslog,
		r.loadConfiguration,
		r.calculateFrequencies,
		r.writeCheck,
	}

	return runTasks(tasks)
}

func (r *runner) writeCheck() error {
	b, err := band.New(config.C)
	if err != nil {
		return errors.Wrap(err, "setup band error")
	}

	results := band.Check(b, r.report)

	log.WithFields(log.Fields{
		"band":     b.Name(),
		"channels": len(results),
	}).Info("channels checked")

	w := tabwriter.NewWriter(r.out, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "band: %s\n", config.C.Band.Name)
	fmt.Fprintln(w, "CHANNEL\tFREQUENCY\tBAND CHANNEL\tCHANNEL DATA-RATES\tDATA-RATE")
	for _, res := range results {
		channel := "-"
		channelDRs := "-"
		if res.ChannelIndex != -1 {
			channel = fmt.Sprintf("%d", res.ChannelIndex)
			channelDRs = fmt.Sprintf("DR%d-DR%d", res.MinDR, res.MaxDR)
		}

		dr := "-"
		if res.DataRateIndex != -1 {
			dr = fmt.Sprintf("DR%d", res.DataRateIndex)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", res.Name, frequency.FormatMHz(res.Frequency), channel, channelDRs, dr)
	}

	return errors.Wrap(w.Flush(), "write check error")
}
