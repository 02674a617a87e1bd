package metrics

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/brocaar/sx130x-freq/internal/frequency"
	"github.com/brocaar/sx130x-freq/internal/sx130x"
)

func testData() (sx130x.Config, frequency.Report) {
	c := sx130x.Config{
		Radios: [sx130x.RadioCount]sx130x.RadioConfig{
			{Freq: 867500000},
			{Freq: 868500000},
		},
		LoRaStd: sx130x.ChannelBlock{Name: sx130x.LoRaStdName},
		FSK:     sx130x.ChannelBlock{Name: sx130x.FSKName, Enable: true, Radio: 1, IF: 300000, Bandwidth: 125000, Datarate: 50000},
	}
	for i := range c.MultiSF {
		c.MultiSF[i].Name = sx130x.MultiSFName(i)
	}
	c.MultiSF[0] = sx130x.ChannelBlock{Name: "chan_multiSF_0", Enable: true, Radio: 1, IF: -400000}

	r := frequency.Report{
		MultiSF: []frequency.Channel{{Name: "chan_multiSF_0", Frequency: 868100000}},
		FSK:     &frequency.Channel{Name: "chan_FSK", Frequency: 868800000, Bandwidth: 125000, Datarate: 50000},
	}

	return c, r
}

// gauges returns the gauge values of the given metric family, by the value
// of the given label.
func gauges(families []*dto.MetricFamily, name, label string) map[string]float64 {
	out := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label {
					out[lp.GetValue()] = m.GetGauge().GetValue()
				}
			}
		}
	}
	return out
}

func TestRegistry(t *testing.T) {
	assert := require.New(t)

	families, err := Registry(testData()).Gather()
	assert.NoError(err)

	assert.Equal(map[string]float64{
		"0": 867500000,
		"1": 868500000,
	}, gauges(families, "sx130x_radio_frequency_hz", radioLabel))

	assert.Equal(map[string]float64{
		"chan_multiSF_0": 868100000,
		"chan_FSK":       868800000,
	}, gauges(families, "sx130x_channel_frequency_hz", channelLabel))

	enabled := gauges(families, "sx130x_channel_enabled", channelLabel)
	assert.Len(enabled, 10)
	assert.EqualValues(1, enabled["chan_multiSF_0"])
	assert.EqualValues(0, enabled["chan_multiSF_1"])
	assert.EqualValues(0, enabled["chan_Lora_std"])
	assert.EqualValues(1, enabled["chan_FSK"])
}

func TestWrite(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "sx130x.prom")
	c, r := testData()
	assert.NoError(Write(path, c, r))

	b, err := ioutil.ReadFile(path)
	assert.NoError(err)
	assert.Contains(string(b), "# TYPE sx130x_channel_frequency_hz gauge")
	assert.Contains(string(b), `sx130x_channel_enabled{channel="chan_Lora_std"} 0`)
	assert.Contains(string(b), `sx130x_radio_frequency_hz{radio="0"} 8.675e+08`)
}
