package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. BIBMETRICS_SOURCE_MODE.
	EnvPrefix = "BIBMETRICS_"
	// EnvConfigPath names an alternative config file.
	EnvConfigPath = EnvPrefix + "CONFIG"

	// Credential variables read by the original scripts, honored when the
	// prefixed form is not set.
	EnvLegacyADSToken = "ADS_API_KEY"
	EnvLegacyS2Key    = "S2_API_KEY"
)

// Load builds a Config by layering, from low to high precedence:
//  1. built-in defaults
//  2. the YAML file at path, else $BIBMETRICS_CONFIG, else the global
//     config file when it exists
//  3. BIBMETRICS_ environment variables, "__" separating nested keys
//     (BIBMETRICS_ADS__TOKEN sets ads.token)
//  4. ADS_API_KEY and S2_API_KEY for credentials still empty
//
// An explicitly named file must exist. Load does not validate.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		if p := os.Getenv(EnvConfigPath); p != "" {
			path, explicit = p, true
		} else {
			path = GlobalConfigPath()
		}
	}
	if path != "" {
		path = ExpandPath(path)
		_, statErr := os.Stat(path)
		if explicit || !errors.Is(statErr, fs.ErrNotExist) {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("%w: loading %s: %v", ErrConfiguration, path, err)
			}
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: reading environment: %v", ErrConfiguration, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if cfg.ADS.Token == "" {
		cfg.ADS.Token = os.Getenv(EnvLegacyADSToken)
	}
	if cfg.S2.APIKey == "" {
		cfg.S2.APIKey = os.Getenv(EnvLegacyS2Key)
	}
	cfg.File.General = ExpandPath(cfg.File.General)
	cfg.File.Lead = ExpandPath(cfg.File.Lead)
	cfg.Output.Template = ExpandPath(cfg.Output.Template)

	return cfg, nil
}

// envKey maps BIBMETRICS_ADS__BASE_URL to ads.base_url. The config-path
// variable itself maps to an unused key.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
