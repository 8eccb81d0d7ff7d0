package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"setmatch-server/internal/util"
	"setmatch-server/pkg/game"
)

// Config provides configuration for the Set match server
type Config struct {
	loaded bool
	Log    struct {
		Level string `yaml:"level" envconfig:"log_level"`
	}
	Game struct {
		DeckSize                 int            `yaml:"deckSize" envconfig:"deck_size"`
		TableSize                int            `yaml:"tableSize" envconfig:"table_size"`
		FeatureSize              int            `yaml:"featureSize" envconfig:"feature_size"`
		TurnTimeoutMillis        int            `yaml:"turnTimeoutMillis" envconfig:"turn_timeout_millis"`
		TurnTimeoutWarningMillis int            `yaml:"turnTimeoutWarningMillis" envconfig:"turn_timeout_warning_millis"`
		PointFreezeMillis        int            `yaml:"pointFreezeMillis" envconfig:"point_freeze_millis"`
		PenaltyFreezeMillis      int            `yaml:"penaltyFreezeMillis" envconfig:"penalty_freeze_millis"`
		Players                  []PlayerConfig `yaml:"players"`
	}
}

// PlayerConfig configures a single participant.
// A player without a name gets a random one at session start.
type PlayerConfig struct {
	Name  string `yaml:"name"`
	Human bool   `yaml:"human"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration.
// A missing config file is fine; the defaults describe the classic game.
func Load() error {
	config = Config{}
	defaults := game.DefaultOptions()
	config.Game.DeckSize = defaults.DeckSize
	config.Game.TableSize = defaults.TableSize
	config.Game.FeatureSize = defaults.FeatureSize
	config.Game.TurnTimeoutMillis = int(defaults.TurnTimeout.Milliseconds())
	config.Game.TurnTimeoutWarningMillis = int(defaults.TurnTimeoutWarning.Milliseconds())
	config.Game.PointFreezeMillis = int(defaults.PointFreeze.Milliseconds())
	config.Game.PenaltyFreezeMillis = int(defaults.PenaltyFreeze.Milliseconds())

	configFile := util.Getenv("SETMATCH_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("setmatch", &config); err != nil {
		return err
	}

	if len(config.Game.Players) == 0 {
		config.Game.Players = []PlayerConfig{
			{Human: true},
			{},
			{},
			{},
		}
	}

	config.loaded = true
	return nil
}

// Options converts the configuration into session options
func (c Config) Options() game.Options {
	opts := game.Options{
		DeckSize:           c.Game.DeckSize,
		TableSize:          c.Game.TableSize,
		FeatureSize:        c.Game.FeatureSize,
		TurnTimeout:        time.Duration(c.Game.TurnTimeoutMillis) * time.Millisecond,
		TurnTimeoutWarning: time.Duration(c.Game.TurnTimeoutWarningMillis) * time.Millisecond,
		PointFreeze:        time.Duration(c.Game.PointFreezeMillis) * time.Millisecond,
		PenaltyFreeze:      time.Duration(c.Game.PenaltyFreezeMillis) * time.Millisecond,
	}

	for _, p := range c.Game.Players {
		name := p.Name
		if name == "" {
			name = util.GetRandomName()
		}

		opts.Players = append(opts.Players, game.PlayerOptions{
			Name:  name,
			Human: p.Human,
		})
	}

	return opts
}
