package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosslight/core"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "normal", cfg.StartMode)
	assert.Equal(t, uint32(100), cfg.TickHz)
	assert.Equal(t, 1500, cfg.DwellMS.Attention)
	assert.Equal(t, 4000, cfg.DwellMS.Go)
	assert.Equal(t, 3000, cfg.DwellMS.Yield)
	assert.Equal(t, 2000, cfg.DwellMS.ClearCrossing)
	assert.Equal(t, 500, cfg.LockoutPollMS)
	assert.Equal(t, 1000, cfg.ModeSettleMS)

	timing := cfg.Timing()
	assert.Equal(t, 10500*time.Millisecond,
		timing.Attention+timing.Go+timing.Yield+timing.ClearCrossing)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load([]byte(`{
		"start_mode": "flash",
		"tick_hz": 50,
		"dwell_ms": {"go": 6000},
		"active_low": ["a_red", "onboard_power"],
		"pins": {"a_red": 17, "b_red": 6}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "flash", cfg.StartMode)
	assert.Equal(t, uint32(50), cfg.TickHz)
	assert.Equal(t, 6000, cfg.DwellMS.Go)
	// Untouched dwells still default.
	assert.Equal(t, 3000, cfg.DwellMS.Yield)

	table := cfg.ActiveLowTable()
	assert.True(t, table[core.PinARed])
	assert.True(t, table[core.PinOnBoardPower])
	assert.False(t, table[core.PinBRed])

	pm := cfg.PinMap()
	assert.Equal(t, core.GPIOPin(17), pm[core.PinARed])
	assert.Equal(t, core.GPIOPin(6), pm[core.PinBRed])

	opts := cfg.Options()
	assert.Equal(t, core.ModeFlash, opts.StartMode)
	assert.Equal(t, uint32(50), opts.TicksPerCycle)
}

func TestValidateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"unknown mode", `{"start_mode": "party"}`},
		{"odd tick rate", `{"tick_hz": 55}`},
		{"tick rate not multiple of ten", `{"tick_hz": 24}`},
		{"unknown active_low lamp", `{"active_low": ["left_blinker"]}`},
		{"unknown pin-map lamp", `{"pins": {"warp_core": 3}}`},
		{"malformed json", `{"tick_hz": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.json))
			assert.Error(t, err)
		})
	}
}
