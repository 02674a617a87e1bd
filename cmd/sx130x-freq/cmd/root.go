package cmd

import (
	"bytes"
	"io/ioutil"
	"reflect"
	"strings"

	loraband "github.com/brocaar/lorawan/band"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brocaar/sx130x-freq/internal/config"
)

var (
	cfgFile string
	version string
)

var rootCmd = &cobra.Command{
	Use:   "sx130x-freq",
	Short: "Print the channel frequencies of a LoRa concentrator configuration",
	Long: `sx130x-freq reads a packet-forwarder configuration (global_conf.json) from stdin
and prints the center frequency of every enabled channel of the SX130x_conf section.

	cat global_conf.json | sx130x-freq`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.PersistentFlags().Int("log-level", 3, "debug=5, info=4, warning=3, error=2, fatal=1, panic=0")
	rootCmd.PersistentFlags().StringP("input", "i", "", "read the packet-forwarder configuration from this file instead of stdin")
	rootCmd.PersistentFlags().StringP("band", "b", "", "LoRaWAN band used by the check command (e.g. EU868)")
	rootCmd.PersistentFlags().String("metrics-textfile", "", "write prometheus metrics to this file (optional)")

	viper.BindPFlag("general.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("input.file", rootCmd.PersistentFlags().Lookup("input"))
	viper.BindPFlag("band.name", rootCmd.PersistentFlags().Lookup("band"))
	viper.BindPFlag("metrics.prometheus.textfile_path", rootCmd.PersistentFlags().Lookup("metrics-textfile"))

	// default values
	viper.SetDefault("general.log_level", 3)
	viper.SetDefault("general.log_to_syslog", false)
	viper.SetDefault("band.repeater_compatible", false)
	viper.SetDefault("band.uplink_dwell_time_400ms", false)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute executes the root command.
func Execute(v string) {
	version = v

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func initConfig() {
	config.Version = version

	if cfgFile != "" {
		b, err := ioutil.ReadFile(cfgFile)
		if err != nil {
			log.WithError(err).WithField("config", cfgFile).Fatal("error loading config file")
		}
		viper.SetConfigType("toml")
		if err := viper.ReadConfig(bytes.NewBuffer(b)); err != nil {
			log.WithError(err).WithField("config", cfgFile).Fatal("error loading config file")
		}
	} else {
		viper.SetConfigName("sx130x-freq")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/sx130x-freq")
		viper.AddConfigPath("/etc/sx130x-freq")
		if err := viper.ReadInConfig(); err != nil {
			switch err.(type) {
			case viper.ConfigFileNotFoundError:
				log.Debug("no configuration file found, using defaults")
			default:
				log.WithError(err).Fatal("read configuration file error")
			}
		}
	}

	viperBindEnvs(config.C)

	viperHooks := mapstructure.ComposeDecodeHookFunc(
		viperDecodeBandName,
	)

	if err := viper.Unmarshal(&config.C, viper.DecodeHook(viperHooks)); err != nil {
		log.WithError(err).Fatal("unmarshal config error")
	}
}

func viperBindEnvs(iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = strings.ToLower(t.Name)
		}
		if tv == "-" {
			continue
		}

		switch v.Kind() {
		case reflect.Struct:
			viperBindEnvs(v.Interface(), append(parts, tv)...)
		default:
			// Bash doesn't allow env variable names with a dot so
			// bind the double underscore version.
			keyDot := strings.Join(append(parts, tv), ".")
			keyUnderscore := strings.Join(append(parts, tv), "__")
			viper.BindEnv(keyDot, strings.ToUpper(keyUnderscore))
		}
	}
}

// viperDecodeBandName normalizes band names, so that e.g. eu868 can be used
// as band.name.
func viperDecodeBandName(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(loraband.Name("")) {
		return data, nil
	}

	return strings.ToUpper(strings.TrimSpace(reflect.ValueOf(data).String())), nil
}
