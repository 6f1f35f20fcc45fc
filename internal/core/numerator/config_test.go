package numerator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFormat(t *testing.T) {
	tests := []struct {
		cfg  Config
		num  int64
		want string
	}{
		{Config{Prefix: "QUO", PadWidth: 5}, 7, "QUO00007"},
		{Config{Prefix: "PROFORMA", PadWidth: 4}, 3, "PROFORMA0003"},
		{Config{Prefix: "INV", PadWidth: 3}, 8, "INV008"},
		// The suffix widens instead of truncating once the pad is exhausted.
		{Config{Prefix: "INV", PadWidth: 3}, 12345, "INV12345"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.Format(tt.num))
	}
}

func TestConfigParseNumber(t *testing.T) {
	cfg := Config{Prefix: "QUO", PadWidth: 5}

	num, ok := cfg.ParseNumber("QUO00042")
	assert.True(t, ok)
	assert.EqualValues(t, 42, num)

	for _, malformed := range []string{"QUOxx", "QUO", "INV001", "", "QUO-1"} {
		_, ok := cfg.ParseNumber(malformed)
		assert.False(t, ok, "expected %q to be unparsable", malformed)
	}
}

func TestConfigMaxNumberSkipsMalformed(t *testing.T) {
	cfg := Config{Prefix: "QUO", PadWidth: 5}

	// A malformed suffix is skipped, not fatal: the next reference after
	// this set must be QUO00004.
	max := cfg.MaxNumber([]string{"QUO00001", "QUOxx", "QUO00003"})
	assert.EqualValues(t, 3, max)
	assert.Equal(t, "QUO00004", cfg.Format(max+1))

	assert.EqualValues(t, 0, cfg.MaxNumber(nil))
	assert.EqualValues(t, 0, cfg.MaxNumber([]string{"garbage", "INV001"}))
}
