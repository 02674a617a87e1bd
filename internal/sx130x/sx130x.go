// Package sx130x implements the loader for the SX130x_conf section of a LoRa
// packet-forwarder configuration file.
package sx130x

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/sx130x-freq/internal/jsonc"
)

// ConfKey holds the name of the concentrator section.
const ConfKey = "SX130x_conf"

// RadioCount defines the number of radio front-ends of the concentrator.
const RadioCount = 2

// MultiSFCount defines the number of multi spreading-factor channels.
const MultiSFCount = 8

// Channel block names.
const (
	LoRaStdName = "chan_Lora_std"
	FSKName     = "chan_FSK"
)

// errors
var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field value")
	ErrInvalidRadio = errors.New("invalid radio index")
)

// RadioConfig holds the configuration of a single radio front-end.
type RadioConfig struct {
	Freq int
}

// ChannelBlock holds the configuration of a single (logical) channel.
// Bandwidth, SpreadFactor and Datarate are only set for the chan_Lora_std
// and chan_FSK blocks.
type ChannelBlock struct {
	Name         string
	Enable       bool
	Radio        int
	IF           int
	Bandwidth    int
	SpreadFactor int
	Datarate     int
}

// Config holds the radio and channel configuration of the concentrator.
type Config struct {
	Radios  [RadioCount]RadioConfig
	MultiSF [MultiSFCount]ChannelBlock
	LoRaStd ChannelBlock
	FSK     ChannelBlock
}

// MultiSFName returns the block name of the given multi-SF channel slot.
func MultiSFName(i int) string {
	return fmt.Sprintf("chan_multiSF_%d", i)
}

// Frequency returns the absolute center frequency (Hz) of the given block,
// which is the base frequency of its radio plus the IF offset. A sum that
// does not fit an int is returned as ErrInvalidField.
func (c Config) Frequency(block ChannelBlock) (int, error) {
	if block.Radio < 0 || block.Radio >= RadioCount {
		return 0, errors.Wrapf(ErrInvalidRadio, "%s.radio: %d", block.Name, block.Radio)
	}

	base := c.Radios[block.Radio].Freq
	if (block.IF > 0 && base > math.MaxInt-block.IF) || (block.IF < 0 && base < math.MinInt-block.IF) {
		return 0, errors.Wrapf(ErrInvalidField, "%s.%s.if: radio_%d.freq %d + if %d overflows", ConfKey, block.Name, block.Radio, base, block.IF)
	}

	return base + block.IF, nil
}

// Load reads the configuration file from r.
func Load(r io.Reader) (Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "read input error")
	}
	return Parse(b)
}

// Parse parses the given configuration file content. Comments are stripped
// before the content is decoded.
func Parse(b []byte) (Config, error) {
	var c Config
	var doc map[string]interface{}

	dec := json.NewDecoder(bytes.NewReader(jsonc.Strip(b)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return c, errors.Wrap(err, "decode json error")
	}
	if _, err := dec.Token(); err != io.EOF {
		return c, errors.New("decode json error: unexpected data after top-level value")
	}

	root := object{fields: doc}
	conf, err := root.object(ConfKey)
	if err != nil {
		return c, err
	}

	for i := range c.Radios {
		radio, err := conf.object(fmt.Sprintf("radio_%d", i))
		if err != nil {
			return c, err
		}
		if c.Radios[i].Freq, err = radio.int("freq"); err != nil {
			return c, err
		}
	}

	for i := range c.MultiSF {
		if c.MultiSF[i], err = conf.channelBlock(MultiSFName(i)); err != nil {
			return c, err
		}
	}

	if c.LoRaStd, err = conf.channelBlock(LoRaStdName, "bandwidth", "spread_factor"); err != nil {
		return c, err
	}

	if c.FSK, err = conf.channelBlock(FSKName, "bandwidth", "datarate"); err != nil {
		return c, err
	}

	log.WithFields(log.Fields{
		"radio_0_freq": c.Radios[0].Freq,
		"radio_1_freq": c.Radios[1].Freq,
	}).Debug("sx130x: configuration loaded")

	return c, nil
}

// object wraps a decoded JSON object together with its dotted path, used
// for error reporting.
type object struct {
	path   string
	fields map[string]interface{}
}

func (o object) fieldPath(name string) string {
	if o.path == "" {
		return name
	}
	return o.path + "." + name
}

func (o object) get(name string) (interface{}, error) {
	v, ok := o.fields[name]
	if !ok {
		return nil, errors.Wrap(ErrMissingField, o.fieldPath(name))
	}
	return v, nil
}

func (o object) object(name string) (object, error) {
	v, err := o.get(name)
	if err != nil {
		return object{}, err
	}
	fields, ok := v.(map[string]interface{})
	if !ok {
		return object{}, errors.Wrapf(ErrInvalidField, "%s: expected object, got %v", o.fieldPath(name), v)
	}
	return object{path: o.fieldPath(name), fields: fields}, nil
}

func (o object) bool(name string) (bool, error) {
	v, err := o.get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Wrapf(ErrInvalidField, "%s: expected boolean, got %v", o.fieldPath(name), v)
	}
	return b, nil
}

// int returns the named field as integer. Besides JSON numbers (fractions
// are truncated toward zero) it accepts strings holding a base-10 integer.
func (o object) int(name string) (int, error) {
	v, err := o.get(name)
	if err != nil {
		return 0, err
	}

	switch v := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 0); err == nil {
			return int(i), nil
		}
		f, err := v.Float64()
		if err == nil && math.Abs(f) < 1<<53 {
			return int(math.Trunc(f)), nil
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 0); err == nil {
			return int(i), nil
		}
	}

	return 0, errors.Wrapf(ErrInvalidField, "%s: expected integer, got %v", o.fieldPath(name), v)
}

// channelBlock reads the named channel block. The radio and if fields and
// the given extra fields are only required when the block is enabled.
func (o object) channelBlock(name string, extra ...string) (ChannelBlock, error) {
	block := ChannelBlock{Name: name}

	obj, err := o.object(name)
	if err != nil {
		return block, err
	}

	if block.Enable, err = obj.bool("enable"); err != nil {
		return block, err
	}
	if !block.Enable {
		return block, nil
	}

	if block.Radio, err = obj.int("radio"); err != nil {
		return block, err
	}
	if block.Radio < 0 || block.Radio >= RadioCount {
		return block, errors.Wrapf(ErrInvalidRadio, "%s: %d", obj.fieldPath("radio"), block.Radio)
	}
	if block.IF, err = obj.int("if"); err != nil {
		return block, err
	}

	for _, f := range extra {
		var v int
		if v, err = obj.int(f); err != nil {
			return block, err
		}

		switch f {
		case "bandwidth":
			block.Bandwidth = v
		case "spread_factor":
			block.SpreadFactor = v
		case "datarate":
			block.Datarate = v
		}
	}

	return block, nil
}
