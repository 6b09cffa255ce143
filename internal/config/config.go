// Package config merges file, default and flag configuration into the
// resolved RunConfig the engine consumes. Precedence: flags over file over
// defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/rftools/ctx/internal/core/domain"
)

// DefaultConfigFile is where the INI configuration is looked up unless
// overridden with --config.
const DefaultConfigFile = "/etc/ctx/config.ini"

const (
	maxPayloadSize = 4096
	minPayloadSize = 1
)

// Config is the mutable pre-validation form. The engine only ever sees the
// immutable domain.RunConfig produced by Resolve.
type Config struct {
	Interface    string
	Channel      int
	Frequency    int
	TxInterval   float64 // seconds
	PayloadMin   int
	PayloadMax   int
	SkipPrepare  bool
	SeqIncrement bool
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Interface:  "wlan0",
		Channel:    36,
		TxInterval: 0.001,
		PayloadMin: 64,
		PayloadMax: 512,
	}
}

// Load reads the INI file at path over the defaults. A missing file is not
// an error, the defaults stand; a corrupt file is.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err != nil {
		logrus.Warnf("config file not found at %s, using defaults", path)
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if v.IsSet("general.interface") {
		cfg.Interface = v.GetString("general.interface")
	}
	if v.IsSet("general.channel") {
		cfg.Channel = v.GetInt("general.channel")
	}
	if v.IsSet("general.frequency") {
		cfg.Frequency = v.GetInt("general.frequency")
		// Frequency in the file takes over from the default channel.
		if !v.IsSet("general.channel") {
			cfg.Channel = 0
		}
	}
	if v.IsSet("general.tx_interval") {
		cfg.TxInterval = v.GetFloat64("general.tx_interval")
	}
	if v.IsSet("general.tx_payload_min") {
		cfg.PayloadMin = v.GetInt("general.tx_payload_min")
	}
	if v.IsSet("general.tx_payload_max") {
		cfg.PayloadMax = v.GetInt("general.tx_payload_max")
	}
	return cfg, nil
}

// SetChannel applies a channel given on the command line, displacing any
// frequency from the file.
func (c *Config) SetChannel(ch int) {
	c.Channel = ch
	c.Frequency = 0
}

// SetFrequency applies a frequency given on the command line, displacing any
// channel from the file or defaults.
func (c *Config) SetFrequency(freq int) {
	c.Frequency = freq
	c.Channel = 0
}

// Validate checks every precondition that must fail before the engine is
// ever constructed.
func (c *Config) Validate() error {
	if c.Interface == "" {
		return fmt.Errorf("no interface configured")
	}
	if c.Channel != 0 && c.Frequency != 0 {
		return fmt.Errorf("channel and frequency are mutually exclusive")
	}
	if c.Channel == 0 && c.Frequency == 0 {
		return fmt.Errorf("either a channel or a frequency is required")
	}
	if c.Channel != 0 && !domain.ValidChannel(c.Channel) {
		return fmt.Errorf("%d is not a valid channel", c.Channel)
	}
	if c.Frequency != 0 && !domain.ValidFrequency(c.Frequency) {
		return fmt.Errorf("%d MHz is not within the supported frequency ranges", c.Frequency)
	}
	if c.TxInterval <= 0 {
		return fmt.Errorf("tx interval must be positive, got %v", c.TxInterval)
	}
	if c.PayloadMin < minPayloadSize || c.PayloadMin > maxPayloadSize ||
		c.PayloadMax < minPayloadSize || c.PayloadMax > maxPayloadSize {
		return fmt.Errorf("payload sizes must be between %d and %d", minPayloadSize, maxPayloadSize)
	}
	if c.PayloadMin > c.PayloadMax {
		return &domain.InvalidRangeError{Min: c.PayloadMin, Max: c.PayloadMax}
	}
	return nil
}

// Resolve validates and produces the immutable run configuration, with
// channel and frequency both populated.
func (c *Config) Resolve() (domain.RunConfig, error) {
	if err := c.Validate(); err != nil {
		return domain.RunConfig{}, err
	}

	ch, freq := c.Channel, c.Frequency
	var err error
	if freq == 0 {
		freq, err = domain.FrequencyForChannel(ch)
	} else {
		ch, err = domain.ChannelForFrequency(freq)
	}
	if err != nil {
		return domain.RunConfig{}, err
	}

	return domain.RunConfig{
		Interface:    c.Interface,
		Channel:      ch,
		FrequencyMHz: freq,
		TxInterval:   time.Duration(c.TxInterval * float64(time.Second)),
		PayloadMin:   c.PayloadMin,
		PayloadMax:   c.PayloadMax,
		SkipPrepare:  c.SkipPrepare,
		SeqIncrement: c.SeqIncrement,
	}, nil
}
