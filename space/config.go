package space

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Tunables holds the §6 configuration table. Defaults are embedded at
// build time and merged with an optional override file, following
// pthm-soup/config's Load pattern.
type Tunables struct {
	SplitSize      int     `yaml:"split_size"`
	SplitRatio     float64 `yaml:"split_ratio"`
	SubSize        int     `yaml:"sub_size"`
	Stretch        float64 `yaml:"stretch"`
	CellAllocChunk int     `yaml:"cell_alloc_chunk"`
	Periodic       bool    `yaml:"periodic"` // not read by Init, which takes periodicity as its own argument
	Workers        int     `yaml:"workers"`
}

// LoadTunables loads Tunables from the embedded defaults, optionally
// overridden by a user-supplied YAML file at path (empty means defaults
// only), and validates the merged result.
func LoadTunables(path string) (Tunables, error) {
	var t Tunables
	if err := yaml.Unmarshal(defaultsYAML, &t); err != nil {
		return Tunables{}, ConfigError.Wrap(err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Tunables{}, ConfigError.Wrap(err)
		}
		if err := yaml.Unmarshal(data, &t); err != nil {
			return Tunables{}, ConfigError.Wrap(err)
		}
	}

	if err := t.validate(); err != nil {
		return Tunables{}, err
	}
	return t, nil
}

func (t Tunables) validate() error {
	switch {
	case t.SplitSize <= 0:
		return ConfigError.New("split_size must be positive, got %d", t.SplitSize)
	case t.SplitRatio <= 0 || t.SplitRatio > 1:
		return ConfigError.New("split_ratio must be in (0,1], got %f", t.SplitRatio)
	case t.SubSize <= 0:
		return ConfigError.New("sub_size must be positive, got %d", t.SubSize)
	case t.Stretch < 1:
		return ConfigError.New("stretch must be >= 1, got %f", t.Stretch)
	case t.CellAllocChunk <= 0:
		return ConfigError.New("cell_alloc_chunk must be positive, got %d", t.CellAllocChunk)
	case t.Workers <= 0:
		return ConfigError.New("workers must be positive, got %d", t.Workers)
	}
	return nil
}
