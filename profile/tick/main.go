// Profiling:
// go build ./profile/tick
// SCENETREE_PROFILE=cpu ./tick
// go tool pprof -http=":8000" -nodefraction=0.001 ./tick cpu.pprof

package main

import (
	"os"
	"time"

	"github.com/edwinsyarief/scenetree"
	"github.com/edwinsyarief/scenetree/profile/internal/harness"
)

type integrator struct {
	scenetree.Component
	pos, vel float64
}

func (i *integrator) OnTick(dt float64) {
	i.pos += i.vel * dt
}

func main() {
	cfg, err := harness.LoadConfig()
	if err != nil {
		panic(err)
	}
	log := harness.NewLogger(cfg)

	root, count := harness.BuildTree(cfg, func(e *scenetree.Entity) {
		scenetree.Attach(e, &integrator{vel: 1})
	})
	log.Info().Int("entities", count).Int("rounds", cfg.Rounds).Msg("tree built")

	p, err := harness.StartProfile(cfg)
	if err != nil {
		log.Error().Err(err).Msg("start profile")
		os.Exit(1)
	}
	start := time.Now()
	run(root, cfg.Rounds)
	elapsed := time.Since(start)
	p.Stop()

	log.Info().
		Dur("elapsed", elapsed).
		Dur("per_tick", elapsed/time.Duration(max(cfg.Rounds, 1))).
		Msg("done")
}

func run(root *scenetree.Entity, rounds int) {
	const dt = 1.0 / 60
	for range rounds {
		root.Tick(dt)
	}
}
