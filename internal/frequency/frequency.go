// Package frequency calculates the channel frequencies of a concentrator
// configuration and formats them as a summary report.
package frequency

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/brocaar/sx130x-freq/internal/sx130x"
)

// None is printed for a disabled chan_Lora_std or chan_FSK channel.
const None = "None"

// Channel holds an enabled channel and its absolute frequency (Hz).
type Channel struct {
	Name         string
	Frequency    int
	Bandwidth    int
	SpreadFactor int
	Datarate     int
}

// Report contains the calculated channels. MultiSF only contains the
// enabled channels, sorted by frequency. LoRaStd and FSK are nil when
// disabled.
type Report struct {
	MultiSF []Channel
	LoRaStd *Channel
	FSK     *Channel
}

// Calculate calculates the frequencies of all enabled channels.
func Calculate(c sx130x.Config) (Report, error) {
	var r Report

	for _, block := range c.MultiSF {
		if !block.Enable {
			continue
		}

		ch, err := newChannel(c, block)
		if err != nil {
			return r, err
		}
		r.MultiSF = append(r.MultiSF, ch)
	}

	sort.SliceStable(r.MultiSF, func(i, j int) bool {
		return r.MultiSF[i].Frequency < r.MultiSF[j].Frequency
	})

	if c.LoRaStd.Enable {
		ch, err := newChannel(c, c.LoRaStd)
		if err != nil {
			return r, err
		}
		r.LoRaStd = &ch
	}

	if c.FSK.Enable {
		ch, err := newChannel(c, c.FSK)
		if err != nil {
			return r, err
		}
		r.FSK = &ch
	}

	return r, nil
}

func newChannel(c sx130x.Config, block sx130x.ChannelBlock) (Channel, error) {
	freq, err := c.Frequency(block)
	if err != nil {
		return Channel{}, errors.Wrap(err, "calculate frequency error")
	}

	return Channel{
		Name:         block.Name,
		Frequency:    freq,
		Bandwidth:    block.Bandwidth,
		SpreadFactor: block.SpreadFactor,
		Datarate:     block.Datarate,
	}, nil
}

// FormatMHz formats the given frequency (Hz) in MHz, using at most six
// significant digits and without trailing zeros (e.g. 868.1).
func FormatMHz(hz int) string {
	return strconv.FormatFloat(float64(hz)/1e6, 'g', 6, 64)
}

// LoRaStdLabel returns the summary label of the chan_Lora_std channel,
// e.g. "868.3 / SF7BW250".
func LoRaStdLabel(ch *Channel) string {
	if ch == nil {
		return None
	}
	return fmt.Sprintf("%s / SF%dBW%d", FormatMHz(ch.Frequency), ch.SpreadFactor, ch.Bandwidth/1000)
}

// FSKLabel returns the summary label of the chan_FSK channel,
// e.g. "868.8 / DR50BW125".
func FSKLabel(ch *Channel) string {
	if ch == nil {
		return None
	}
	return fmt.Sprintf("%s / DR%dBW%d", FormatMHz(ch.Frequency), ch.Datarate/1000, ch.Bandwidth/1000)
}

// WriteTo writes the report to w. It implements io.WriterTo.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	bw := bufio.NewWriter(cw)

	if len(r.MultiSF) == 0 {
		bw.WriteString("\n")
	}
	for _, ch := range r.MultiSF {
		bw.WriteString(FormatMHz(ch.Frequency) + "\n")
	}
	fmt.Fprintf(bw, "%s: %s\n", sx130x.LoRaStdName, LoRaStdLabel(r.LoRaStd))
	fmt.Fprintf(bw, "%-13s: %s\n", sx130x.FSKName, FSKLabel(r.FSK))

	if err := bw.Flush(); err != nil {
		return cw.n, errors.Wrap(err, "write report error")
	}
	return cw.n, nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
