package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brocaar/sx130x-freq/internal/config"
	"github.com/brocaar/sx130x-freq/internal/frequency"
	"github.com/brocaar/sx130x-freq/internal/metrics"
	"github.com/brocaar/sx130x-freq/internal/sx130x"
)

// runner holds the state shared by the tasks of a single invocation.
type runner struct {
	in     io.Reader
	out    io.Writer
	conf   sx130x.Config
	report frequency.Report
}

func newRunner(cmd *cobra.Command) *runner {
	return &runner{
		in:  cmd.InOrStdin(),
		out: cmd.OutOrStdout(),
	}
}

func run(cmd *cobra.Command, args []string) error {
	r := newRunner(cmd)

	tasks := []func() error{
		setLogLevel,
		setSyslog,
		r.loadConfiguration,
		r.calculateFrequencies,
		r.writeMetrics,
		r.writeReport,
	}

	return runTasks(tasks)
}

func runTasks(tasks []func() error) error {
	for _, t := range tasks {
		if err := t(); err != nil {
			return err
		}
	}
	return nil
}

func setLogLevel() error {
	log.SetLevel(log.Level(uint8(config.C.General.LogLevel)))
	return nil
}

func (r *runner) loadConfiguration() error {
	in := r.in

	if config.C.Input.File != "" {
		f, err := os.Open(config.C.Input.File)
		if err != nil {
			return errors.Wrap(err, "open input file error")
		}
		defer f.Close()
		in = f
	}

	conf, err := sx130x.Load(in)
	if err != nil {
		return errors.Wrap(err, "load concentrator configuration error")
	}
	r.conf = conf

	return nil
}

func (r *runner) calculateFrequencies() error {
	report, err := frequency.Calculate(r.conf)
	if err != nil {
		return errors.Wrap(err, "calculate frequencies error")
	}
	r.report = report

	log.WithFields(log.Fields{
		"multi_sf_channels": len(report.MultiSF),
		"lora_std":          report.LoRaStd != nil,
		"fsk":               report.FSK != nil,
	}).Info("frequencies calculated")

	return nil
}

func (r *runner) writeMetrics() error {
	if config.C.Metrics.Prometheus.TextfilePath == "" {
		return nil
	}

	if err := metrics.Write(config.C.Metrics.Prometheus.TextfilePath, r.conf, r.report); err != nil {
		return errors.Wrap(err, "write metrics error")
	}

	return nil
}

func (r *runner) writeReport() error {
	_, err := r.report.WriteTo(r.out)
	return err
}
