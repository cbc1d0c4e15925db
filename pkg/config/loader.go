package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads the YAML config at path, expands environment variables in its
// values, applies defaults, and validates the result. An empty path (or a
// path that does not exist) yields the default configuration.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	expanded, ok := expandEnvVarsInData(k.Raw()).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected config structure after env expansion")
	}

	k = koanf.New(".")
	if err := k.Load(confmap.Provider(expanded, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load expanded config: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnvFiles loads .env.local and .env from the working directory when
// present, so ${VAR} references in the config file resolve locally.
func LoadEnvFiles() error {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}
