package config

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStoreDirPrefersXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "oxidoc"), defaultStoreDir())
}

func TestDefaultStoreDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t,
		filepath.Join("/home/tester", ".local", "share", "oxidoc"),
		defaultStoreDir())
}

func TestExpandHomeHook(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	var cfg StoreConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: expandHomeHookFunc(),
		Result:     &cfg,
		TagName:    "mapstructure",
	})
	require.NoError(t, err)

	require.NoError(t, decoder.Decode(map[string]any{"dir": "~/docs"}))
	assert.Equal(t, filepath.Join("/home/tester", "docs"), cfg.Dir)
}

func TestExpandHomeHookLeavesPlainStrings(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	var cfg PagerConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: expandHomeHookFunc(),
		Result:     &cfg,
		TagName:    "mapstructure",
	})
	require.NoError(t, err)

	require.NoError(t, decoder.Decode(map[string]any{"command": "less -R"}))
	assert.Equal(t, "less -R", cfg.Command)
}
