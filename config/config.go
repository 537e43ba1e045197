// Package config loads smartfarm settings from the environment
// and an optional .env file.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/Sajmani/smartfarm/smartfarm"
)

// ErrNoServiceKey is returned by Load when SERVICE_KEY is not set.
var ErrNoServiceKey = errors.New("SERVICE_KEY is not set; get a key from smartfarmkorea.net and set it in the environment or .env")

type Config struct {
	ServiceKey string
	BaseURL    string

	FarmsFile    string
	CroppingCSV  string
	CroppingJSON string
	// CroppingXLSX is empty unless a workbook export is wanted.
	CroppingXLSX string

	// CroppingInsecureTLS skips certificate verification on cropping
	// season requests only.
	CroppingInsecureTLS bool

	LogLevel string
}

// Load reads the configuration. Values already in the environment
// take precedence over .env.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ServiceKey:          strings.TrimSpace(getenv("SERVICE_KEY", "")),
		BaseURL:             getenv("SMARTFARM_BASE_URL", smartfarm.BaseURL),
		FarmsFile:           getenv("SMARTFARM_FARMS_FILE", "smartfarm_data.json"),
		CroppingCSV:         getenv("SMARTFARM_CROPPING_CSV", "cropping_info.csv"),
		CroppingJSON:        getenv("SMARTFARM_CROPPING_JSON", "cropping_info.json"),
		CroppingXLSX:        getenv("SMARTFARM_CROPPING_XLSX", ""),
		CroppingInsecureTLS: getenvBool("SMARTFARM_CROPPING_INSECURE_TLS", true),
		LogLevel:            getenv("LOG_LEVEL", "info"),
	}
	if cfg.ServiceKey == "" {
		return cfg, ErrNoServiceKey
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
