package band

import (
	"math"

	"github.com/pkg/errors"

	"github.com/brocaar/lorawan"
	loraband "github.com/brocaar/lorawan/band"

	"github.com/brocaar/sx130x-freq/internal/config"
	"github.com/brocaar/sx130x-freq/internal/frequency"
)

// ErrNoBand is returned when no band name has been configured.
var ErrNoBand = errors.New("no band configured")

// Result contains the band-plan check of a single channel.
// ChannelIndex is -1 when the frequency is not one of the default uplink
// channels of the band. DataRateIndex is only set for chan_Lora_std and
// chan_FSK and is -1 when the band has no matching uplink data-rate.
type Result struct {
	Name          string
	Frequency     int
	ChannelIndex  int
	MinDR         int
	MaxDR         int
	DataRateIndex int
}

// New returns the band for the given configuration.
func New(c config.Config) (loraband.Band, error) {
	if c.Band.Name == "" {
		return nil, ErrNoBand
	}

	dwellTime := lorawan.DwellTimeNoLimit
	if c.Band.UplinkDwellTime400ms {
		dwellTime = lorawan.DwellTime400ms
	}

	b, err := loraband.GetConfig(c.Band.Name, c.Band.RepeaterCompatible, dwellTime)
	if err != nil {
		return nil, errors.Wrap(err, "get band config error")
	}

	return b, nil
}

// Check checks the channels of the given report against the band.
func Check(b loraband.Band, r frequency.Report) []Result {
	var out []Result

	for _, ch := range r.MultiSF {
		out = append(out, checkChannel(b, ch))
	}

	if r.LoRaStd != nil {
		res := checkChannel(b, *r.LoRaStd)
		res.DataRateIndex = dataRateIndex(b, loraband.DataRate{
			Modulation:   loraband.LoRaModulation,
			SpreadFactor: r.LoRaStd.SpreadFactor,
			Bandwidth:    r.LoRaStd.Bandwidth / 1000,
		})
		out = append(out, res)
	}

	if r.FSK != nil {
		res := checkChannel(b, *r.FSK)
		res.DataRateIndex = dataRateIndex(b, loraband.DataRate{
			Modulation: loraband.FSKModulation,
			BitRate:    r.FSK.Datarate,
		})
		out = append(out, res)
	}

	return out
}

func checkChannel(b loraband.Band, ch frequency.Channel) Result {
	res := Result{
		Name:          ch.Name,
		Frequency:     ch.Frequency,
		ChannelIndex:  -1,
		DataRateIndex: -1,
	}

	if ch.Frequency < 0 || int64(ch.Frequency) > math.MaxUint32 {
		return res
	}

	i, err := b.GetUplinkChannelIndex(uint32(ch.Frequency), true)
	if err != nil {
		return res
	}

	c, err := b.GetUplinkChannel(i)
	if err != nil {
		return res
	}

	res.ChannelIndex = i
	res.MinDR = c.MinDR
	res.MaxDR = c.MaxDR

	return res
}

func dataRateIndex(b loraband.Band, dr loraband.DataRate) int {
	i, err := b.GetDataRateIndex(true, dr)
	if err != nil {
		return -1
	}
	return i
}
