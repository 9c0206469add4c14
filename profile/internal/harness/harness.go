// Package harness holds the setup shared by the profiling executables.
package harness

import (
	"os"
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/edwinsyarief/scenetree"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config is read from the environment.
type Config struct {
	Depth      int    `config:"SCENETREE_DEPTH"`
	Fanout     int    `config:"SCENETREE_FANOUT"`
	Components int    `config:"SCENETREE_COMPONENTS"`
	Rounds     int    `config:"SCENETREE_ROUNDS"`
	Profile    string `config:"SCENETREE_PROFILE"`
	LogLevel   string `config:"SCENETREE_LOG_LEVEL"`
}

// LoadConfig returns the defaults overridden by any SCENETREE_* variables.
func LoadConfig() (Config, error) {
	cfg := Config{
		Depth:      6,
		Fanout:     4,
		Components: 2,
		Rounds:     10000,
		Profile:    "cpu",
		LogLevel:   "info",
	}
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config from env")
	}
	if cfg.Depth < 0 || cfg.Fanout < 0 || cfg.Components < 0 || cfg.Rounds < 0 {
		return cfg, eris.Errorf("negative setting in %+v", cfg)
	}
	return cfg, nil
}

// NewLogger builds a console logger at the configured level and installs it
// as the scenetree package logger.
func NewLogger(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	scenetree.SetLogger(log)
	return log
}

// StartProfile starts the profiler selected by cfg.Profile. The returned
// value must be stopped to flush the profile.
func StartProfile(cfg Config) (interface{ Stop() }, error) {
	var mode func(*profile.Profile)
	switch cfg.Profile {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "allocs":
		mode = profile.MemProfileAllocs
	default:
		return nil, eris.Errorf("unknown profile mode %q", cfg.Profile)
	}
	return profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet), nil
}

// BuildTree builds a full tree of the configured depth and fanout and calls
// attach once per configured component on every entity.
//
// Returns:
//   - The root entity.
//   - The number of entities in the tree.
func BuildTree(cfg Config, attach func(e *scenetree.Entity)) (*scenetree.Entity, int) {
	root := scenetree.NewEntity()
	count := 0
	level := []*scenetree.Entity{root}
	for d := 0; d <= cfg.Depth; d++ {
		var next []*scenetree.Entity
		for _, e := range level {
			count++
			for range cfg.Components {
				attach(e)
			}
			if d == cfg.Depth {
				continue
			}
			for range cfg.Fanout {
				child := scenetree.NewEntity()
				e.AddChild(child)
				next = append(next, child)
			}
		}
		level = next
	}
	return root, count
}
