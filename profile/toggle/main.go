// Profiling:
// go build ./profile/toggle
// SCENETREE_PROFILE=allocs ./toggle
// go tool pprof -http=":8000" -nodefraction=0.001 ./toggle mem.pprof

package main

import (
	"os"

	"github.com/edwinsyarief/scenetree"
	"github.com/edwinsyarief/scenetree/profile/internal/harness"
)

type watcher struct {
	scenetree.Component
	flips int
}

func (w *watcher) OnEnabledChanged(bool) {
	w.flips++
}

func main() {
	cfg, err := harness.LoadConfig()
	if err != nil {
		panic(err)
	}
	log := harness.NewLogger(cfg)

	var watchers []*watcher
	root, count := harness.BuildTree(cfg, func(e *scenetree.Entity) {
		watchers = append(watchers, scenetree.Attach(e, &watcher{}))
	})
	leaves := collectLeaves(root)
	log.Info().Int("entities", count).Int("leaves", len(leaves)).Msg("tree built")

	p, err := harness.StartProfile(cfg)
	if err != nil {
		log.Error().Err(err).Msg("start profile")
		os.Exit(1)
	}
	reads := run(root, leaves, cfg.Rounds)
	p.Stop()

	total := 0
	for _, w := range watchers {
		total += w.flips
	}
	log.Info().Int("flips", total).Int("enabled_reads", reads).Msg("done")
}

func collectLeaves(root *scenetree.Entity) []*scenetree.Entity {
	var leaves []*scenetree.Entity
	for e := range root.TraverseChildren(nil) {
		if e.ChildCount() == 0 {
			leaves = append(leaves, e)
		}
	}
	return leaves
}

// run alternates toggling the root with reading every leaf, which exercises
// both the cascade and the cold cache path.
func run(root *scenetree.Entity, leaves []*scenetree.Entity, rounds int) int {
	reads := 0
	for range rounds {
		root.SetEnabled(!root.EnabledSelf())
		for _, leaf := range leaves {
			if leaf.Enabled() {
				reads++
			}
		}
	}
	return reads
}
