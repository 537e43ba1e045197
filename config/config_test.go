package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sajmani/smartfarm/smartfarm"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_KEY", " abc%2Bdef ")
	for _, k := range []string{
		"SMARTFARM_BASE_URL", "SMARTFARM_FARMS_FILE", "SMARTFARM_CROPPING_CSV",
		"SMARTFARM_CROPPING_JSON", "SMARTFARM_CROPPING_XLSX",
		"SMARTFARM_CROPPING_INSECURE_TLS", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		ServiceKey:          "abc%2Bdef",
		BaseURL:             smartfarm.BaseURL,
		FarmsFile:           "smartfarm_data.json",
		CroppingCSV:         "cropping_info.csv",
		CroppingJSON:        "cropping_info.json",
		CroppingInsecureTLS: true,
		LogLevel:            "info",
	}, cfg)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVICE_KEY", "key")
	t.Setenv("SMARTFARM_BASE_URL", "https://example.test/api")
	t.Setenv("SMARTFARM_CROPPING_XLSX", "cropping_info.xlsx")
	t.Setenv("SMARTFARM_CROPPING_INSECURE_TLS", "off")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api", cfg.BaseURL)
	assert.Equal(t, "cropping_info.xlsx", cfg.CroppingXLSX)
	assert.False(t, cfg.CroppingInsecureTLS)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_NoServiceKey(t *testing.T) {
	t.Setenv("SERVICE_KEY", "  ")
	_, err := Load()
	assert.ErrorIs(t, err, ErrNoServiceKey)
}

func TestGetenvBool(t *testing.T) {
	testCases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"", false, false},
		{"TRUE", false, true},
		{"no", true, false},
		{"maybe", true, true},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("SMARTFARM_TEST_BOOL", tc.value)
			assert.Equal(t, tc.want, getenvBool("SMARTFARM_TEST_BOOL", tc.def))
		})
	}
}
