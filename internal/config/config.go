package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// Storage backends understood by the store package.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

type Config struct {
	UseSingleColor bool     `json:"useSingleColor"`
	CustomColors   []string `json:"customColors"`
	Storage        string   `json:"storage"`
}

var defaultConfig = Config{
	UseSingleColor: false,
	CustomColors:   nil,
	Storage:        StorageJSON,
}

// Default returns the configuration used when the client sends none.
func Default() Config {
	return defaultConfig
}

// Load overlays the client supplied settings on the defaults. Settings may be
// sent either flat or nested under a "hilite" key.
func Load(v any) (Config, error) {
	cfg := defaultConfig
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	var nested struct {
		Hilite json.RawMessage `json:"hilite"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && len(nested.Hilite) > 0 {
		data = nested.Hilite
	}

	// only fields present in src will overwrite.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg, cfg.Validate()
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageJSON, StorageSQLite:
		return nil
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
}
