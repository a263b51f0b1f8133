package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moveConfig struct {
	Speed    float64 `mapstructure:"speed"`
	Retries  int     `mapstructure:"retries"`
	Reversed bool    `mapstructure:"reversed"`
	Target   string  `mapstructure:"target"`
}

func TestDecode_WeakTyping(t *testing.T) {
	var cfg moveConfig
	err := Decode(map[string]string{
		"speed":    "0.2",
		"retries":  "3",
		"reversed": "true",
		"target":   "dock",
	}, &cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Speed)
	assert.Equal(t, 3, cfg.Retries)
	assert.True(t, cfg.Reversed)
	assert.Equal(t, "dock", cfg.Target)
}

func TestDecode_MissingKeysKeepDefaults(t *testing.T) {
	cfg := moveConfig{Speed: 1.0}
	require.NoError(t, Decode(map[string]string{"target": "dock"}, &cfg))
	assert.Equal(t, 1.0, cfg.Speed)
	assert.Equal(t, "dock", cfg.Target)
}

func TestDecode_UnknownKeyFails(t *testing.T) {
	var cfg moveConfig
	err := Decode(map[string]string{"sped": "0.2"}, &cfg)
	require.Error(t, err, "typos in definitions must surface")
	assert.Contains(t, err.Error(), "sped")
}

func TestDecode_BadValueFails(t *testing.T) {
	var cfg moveConfig
	err := Decode(map[string]string{"speed": "fast"}, &cfg)
	require.Error(t, err)
}

func TestDecode_EmptyMap(t *testing.T) {
	var cfg moveConfig
	require.NoError(t, Decode(map[string]string{}, &cfg))
	require.NoError(t, Decode(nil, &cfg))
}
