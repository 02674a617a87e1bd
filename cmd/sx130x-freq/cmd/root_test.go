package cmd

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/brocaar/sx130x-freq/internal/band"
	"github.com/brocaar/sx130x-freq/internal/sx130x"
)

const us915Report = `903.9
904.1
904.3
904.5
904.7
904.9
905.1
905.3
chan_Lora_std: 904.6 / SF8BW500
chan_FSK     : None
`

// execute runs the root command with the given stdin and arguments. Flags
// are reset to their defaults first, as they outlive a single execution.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func openTestdata(t *testing.T) *os.File {
	t.Helper()

	f, err := os.Open("testdata/global_conf_us915.json")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRoot(t *testing.T) {
	t.Run("Report from stdin", func(t *testing.T) {
		assert := require.New(t)

		out, err := execute(t, openTestdata(t))
		assert.NoError(err)
		assert.Equal(us915Report, out)
	})

	t.Run("Report from input file", func(t *testing.T) {
		assert := require.New(t)

		out, err := execute(t, strings.NewReader(""), "--input", "testdata/global_conf_us915.json")
		assert.NoError(err)
		assert.Equal(us915Report, out)
	})

	t.Run("Identical input gives identical output", func(t *testing.T) {
		assert := require.New(t)

		first, err := execute(t, openTestdata(t))
		assert.NoError(err)
		second, err := execute(t, openTestdata(t))
		assert.NoError(err)
		assert.Equal(first, second)
	})

	t.Run("Missing SX130x_conf", func(t *testing.T) {
		assert := require.New(t)

		out, err := execute(t, strings.NewReader(`{"SX1301_conf": {}}`))
		assert.Equal(sx130x.ErrMissingField, errors.Cause(err))
		assert.Empty(out)
	})

	t.Run("Malformed input", func(t *testing.T) {
		assert := require.New(t)

		out, err := execute(t, strings.NewReader(`{"SX130x_conf": `))
		assert.Error(err)
		assert.Contains(err.Error(), "decode json error")
		assert.Empty(out)
	})

	t.Run("Missing input file", func(t *testing.T) {
		assert := require.New(t)

		_, err := execute(t, strings.NewReader(""), "--input", "testdata/does-not-exist.json")
		assert.Error(err)
		assert.Contains(err.Error(), "open input file error")
	})

	t.Run("Prometheus textfile", func(t *testing.T) {
		assert := require.New(t)

		path := filepath.Join(t.TempDir(), "sx130x.prom")
		out, err := execute(t, openTestdata(t), "--metrics-textfile", path)
		assert.NoError(err)
		assert.Equal(us915Report, out)

		b, err := ioutil.ReadFile(path)
		assert.NoError(err)
		assert.Contains(string(b), `sx130x_channel_enabled{channel="chan_FSK"} 0`)
		assert.Contains(string(b), `sx130x_channel_frequency_hz{channel="chan_multiSF_0"} 9.039e+08`)
	})

	t.Run("Arguments are rejected", func(t *testing.T) {
		assert := require.New(t)

		_, err := execute(t, openTestdata(t), "global_conf.json")
		assert.Error(err)
	})
}

func TestCheck(t *testing.T) {
	t.Run("US915", func(t *testing.T) {
		assert := require.New(t)

		out, err := execute(t, openTestdata(t), "check", "--band", "us915")
		assert.NoError(err)

		var rows [][]string
		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			rows = append(rows, strings.Fields(line))
		}

		// band, header, 8 multi-SF channels and chan_Lora_std (chan_FSK is disabled)
		assert.Len(rows, 11)
		assert.Equal([]string{"band:", "US915"}, rows[0])
		assert.Equal([]string{"chan_multiSF_0", "903.9", "8", "DR0-DR3", "-"}, rows[2])
		assert.Equal([]string{"chan_multiSF_7", "905.3", "15", "DR0-DR3", "-"}, rows[9])
		assert.Equal([]string{"chan_Lora_std", "904.6", "65", "DR4-DR6", "DR4"}, rows[10])
	})

	t.Run("No band", func(t *testing.T) {
		assert := require.New(t)

		out, err := execute(t, openTestdata(t), "check")
		assert.Equal(band.ErrNoBand, errors.Cause(err))
		assert.Empty(out)
	})
}

func TestConfigFile(t *testing.T) {
	assert := require.New(t)

	out, err := execute(t, strings.NewReader(""), "configfile", "--band", "EU868")
	assert.NoError(err)
	assert.Contains(out, "[general]\n")
	assert.Contains(out, "log_level=3\n")
	assert.Contains(out, `name="EU868"`)
	assert.Contains(out, "[metrics.prometheus]")
}
