// Package config reads conversion options from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bwanab/music-build/constants"
)

type Config struct {
	// ChordTolerance in ticks. Onsets within this window become one chord.
	ChordTolerance int64 `yaml:"chord_tolerance"`
	// Percussion forces the pitch-keyed split for every track.
	Percussion bool `yaml:"percussion"`
	// TPQN used when the input carries no metric time format.
	TPQN uint32 `yaml:"ticks_per_quarter"`
	// BPM used when the input carries no tempo event.
	BPM float64 `yaml:"bpm"`
	// InstrumentCSV / PercussionCSV override the default lookup paths.
	InstrumentCSV string `yaml:"instrument_csv"`
	PercussionCSV string `yaml:"percussion_csv"`
}

// Default returns the built-in option set.
func Default() Config {
	return Config{
		ChordTolerance: constants.DefaultChordTolerance,
		TPQN:           constants.DefaultTPQN,
		BPM:            constants.DefaultBPM,
		InstrumentCSV:  constants.GetInstrumentCSV(),
		PercussionCSV:  constants.GetPercussionCSV(),
	}
}

// Load reads a config file over the defaults. A missing file is fine;
// a file that exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.TPQN == 0 {
		cfg.TPQN = constants.DefaultTPQN
	}
	if cfg.BPM == 0 {
		cfg.BPM = constants.DefaultBPM
	}
	return cfg, nil
}
