package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/sergev/diskcopy/dc42"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diskcopy.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestEmbeddedDefault(t *testing.T) {
	conf := Default()
	_, err := toml.Decode(string(defaultConfigData), conf)
	require.NoError(t, err)
	require.NoError(t, conf.validate())
	assert.Equal(t, Default(), conf)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
ignore_data_checksum = true
verify_after_create = false

[[disk_format]]
value = 4
name = "HD20"

[[format_byte]]
value = 0x96
name = "GCR zero fill"
`)
	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, conf.Level())
	assert.True(t, conf.IgnoreDataChecksum)
	assert.False(t, conf.VerifyAfterCreate)

	codes := conf.Codes()
	name, err := codes.FormatByteName(0x96)
	require.NoError(t, err)
	assert.Equal(t, "GCR zero fill", name)
	name, err = codes.DiskFormatName(4)
	require.NoError(t, err)
	assert.Equal(t, "HD20", name)
	name, err = codes.FormatByteName(0x22)
	require.NoError(t, err)
	assert.Equal(t, ">400k", name)
}

func TestLoadDefaultsForMissingKeys(t *testing.T) {
	conf, err := Load(writeConfig(t, `ignore_data_checksum = true`))
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, conf.Level())
	assert.True(t, conf.VerifyAfterCreate)

	_, err = conf.Codes().FormatByteName(0x96)
	assert.ErrorIs(t, err, dc42.ErrUnrecognizedFormatByte)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"Syntax", `log_level = `},
		{"LogLevel", `log_level = "loud"`},
		{"ValueTooLarge", "[[format_byte]]\nvalue = 256\nname = \"big\""},
		{"NegativeValue", "[[disk_format]]\nvalue = -1\nname = \"neg\""},
		{"EmptyName", "[[format_byte]]\nvalue = 1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.text))
			assert.Error(t, err)
		})
	}
}

func TestInitializeCreatesDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)

	conf, err := Initialize("")
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)

	path, err := Path()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigData, data)
}

func TestInitializeExplicitPathMustExist(t *testing.T) {
	_, err := Initialize(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
