package metrics

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/sx130x-freq/internal/frequency"
	"github.com/brocaar/sx130x-freq/internal/sx130x"
)

const (
	radioLabel   = "radio"
	channelLabel = "channel"
)

// Registry returns a new registry holding the radio and channel metrics of
// the given configuration and report.
func Registry(c sx130x.Config, r frequency.Report) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	rf := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sx130x_radio_frequency_hz",
		Help: "The center frequency of the radio (per radio).",
	}, []string{radioLabel})
	cf := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sx130x_channel_frequency_hz",
		Help: "The center frequency of the enabled channel (per channel).",
	}, []string{channelLabel})
	ce := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sx130x_channel_enabled",
		Help: "Set to 1 when the channel is enabled (per channel).",
	}, []string{channelLabel})

	for i, radio := range c.Radios {
		rf.With(prometheus.Labels{radioLabel: strconv.Itoa(i)}).Set(float64(radio.Freq))
	}

	blocks := append(c.MultiSF[:], c.LoRaStd, c.FSK)
	for _, block := range blocks {
		var enabled float64
		if block.Enable {
			enabled = 1
		}
		ce.With(prometheus.Labels{channelLabel: block.Name}).Set(enabled)
	}

	channels := append([]frequency.Channel{}, r.MultiSF...)
	for _, ch := range []*frequency.Channel{r.LoRaStd, r.FSK} {
		if ch != nil {
			channels = append(channels, *ch)
		}
	}
	for _, ch := range channels {
		cf.With(prometheus.Labels{channelLabel: ch.Name}).Set(float64(ch.Frequency))
	}

	return reg
}

// Write writes the metrics to the given file in the Prometheus text format,
// e.g. for the node_exporter textfile collector.
func Write(path string, c sx130x.Config, r frequency.Report) error {
	log.WithFields(log.Fields{
		"path": path,
	}).Debug("metrics: writing prometheus textfile")

	if err := prometheus.WriteToTextfile(path, Registry(c, r)); err != nil {
		return errors.Wrap(err, "write prometheus textfile error")
	}

	return nil
}
