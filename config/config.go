// Package config loads the controller configuration from JSON and maps it
// onto core options. Anything omitted falls back to the reference crossing.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"crosslight/core"
)

// Config is the on-disk controller configuration. Durations are integral
// milliseconds to keep the JSON free of unit strings.
type Config struct {
	StartMode string `json:"start_mode"`

	// TickHz is the output masker tick rate. One cycle lasts one
	// second, so this is also the ticks-per-cycle value and must be an
	// even multiple of 10.
	TickHz uint32 `json:"tick_hz"`

	DwellMS        DwellConfig `json:"dwell_ms"`
	LockoutPollMS  int         `json:"lockout_poll_ms"`
	ModeSampleMS   int         `json:"mode_sample_ms"`
	ModeSettleMS   int         `json:"mode_settle_ms"`
	CallDebounceMS int         `json:"call_debounce_ms"`

	// ActiveLow lists lamp names that are wired active-low.
	ActiveLow []string `json:"active_low"`

	// Pins maps lamp names to hardware GPIO numbers for targets that
	// drive lamps pin-per-pin.
	Pins map[string]uint32 `json:"pins"`
}

// DwellConfig carries the per-phase dwell times.
type DwellConfig struct {
	Attention     int `json:"attention"`
	Go            int `json:"go"`
	Yield         int `json:"yield"`
	ClearCrossing int `json:"clear_crossing"`
	FlashOn       int `json:"flash_on"`
	FlashOff      int `json:"flash_off"`
}

// Load parses a JSON configuration, applies defaults and validates it.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the reference configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.StartMode == "" {
		cfg.StartMode = "normal"
	}
	if cfg.TickHz == 0 {
		cfg.TickHz = 100
	}
	if cfg.DwellMS.Attention == 0 {
		cfg.DwellMS.Attention = 1500
	}
	if cfg.DwellMS.Go == 0 {
		cfg.DwellMS.Go = 4000
	}
	if cfg.DwellMS.Yield == 0 {
		cfg.DwellMS.Yield = 3000
	}
	if cfg.DwellMS.ClearCrossing == 0 {
		cfg.DwellMS.ClearCrossing = 2000
	}
	if cfg.DwellMS.FlashOn == 0 {
		cfg.DwellMS.FlashOn = 1000
	}
	if cfg.DwellMS.FlashOff == 0 {
		cfg.DwellMS.FlashOff = 1000
	}
	if cfg.LockoutPollMS == 0 {
		cfg.LockoutPollMS = 500
	}
	if cfg.ModeSampleMS == 0 {
		cfg.ModeSampleMS = 200
	}
	if cfg.ModeSettleMS == 0 {
		cfg.ModeSettleMS = 1000
	}
	if cfg.CallDebounceMS == 0 {
		cfg.CallDebounceMS = 200
	}
}

// Validate rejects configurations the masker or supervisor cannot honour.
func (c *Config) Validate() error {
	if _, ok := core.ModeByName(c.StartMode); !ok {
		return fmt.Errorf("config: unknown start mode %q", c.StartMode)
	}
	if c.TickHz%10 != 0 || c.TickHz%2 != 0 {
		return fmt.Errorf("config: tick_hz %d must be an even multiple of 10", c.TickHz)
	}
	for _, name := range c.ActiveLow {
		if _, ok := core.PinByName(name); !ok {
			return fmt.Errorf("config: unknown active_low lamp %q", name)
		}
	}
	for name := range c.Pins {
		if _, ok := core.PinByName(name); !ok {
			return fmt.Errorf("config: unknown lamp %q in pin map", name)
		}
	}
	return nil
}

// Timing converts the dwell table to core timing.
func (c *Config) Timing() core.Timing {
	ms := time.Millisecond
	return core.Timing{
		Attention:     time.Duration(c.DwellMS.Attention) * ms,
		Go:            time.Duration(c.DwellMS.Go) * ms,
		Yield:         time.Duration(c.DwellMS.Yield) * ms,
		ClearCrossing: time.Duration(c.DwellMS.ClearCrossing) * ms,
		FlashOn:       time.Duration(c.DwellMS.FlashOn) * ms,
		FlashOff:      time.Duration(c.DwellMS.FlashOff) * ms,
		LockoutPoll:   time.Duration(c.LockoutPollMS) * ms,
		ModeSample:    time.Duration(c.ModeSampleMS) * ms,
		ModeSettle:    time.Duration(c.ModeSettleMS) * ms,
	}
}

// ActiveLowTable expands the active-low name list into the masker's table.
func (c *Config) ActiveLowTable() [core.PinCount]bool {
	var table [core.PinCount]bool
	for _, name := range c.ActiveLow {
		if p, ok := core.PinByName(name); ok {
			table[p] = true
		}
	}
	return table
}

// PinMap resolves the lamp-to-GPIO map. Lamps missing from the config map
// to hardware pin 0; targets validate their own completeness requirements.
func (c *Config) PinMap() core.PinMap {
	var pm core.PinMap
	for name, hw := range c.Pins {
		if p, ok := core.PinByName(name); ok {
			pm[p] = core.GPIOPin(hw)
		}
	}
	return pm
}

// Options assembles the core controller options. The mode input is left
// nil; platforms wire their own reader.
func (c *Config) Options() core.Options {
	start, _ := core.ModeByName(c.StartMode)
	return core.Options{
		StartMode:     start,
		Timing:        c.Timing(),
		ActiveLow:     c.ActiveLowTable(),
		TicksPerCycle: c.TickHz,
	}
}
