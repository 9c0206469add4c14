package scenetree_test

import (
	"github.com/edwinsyarief/scenetree"
)

// --- Test Components ---

// event is one hook invocation seen by a recorder.
type event struct {
	name    string
	tick    float64
	enabled bool
}

// recorder logs every hook call into a shared journal.
type recorder struct {
	scenetree.Component
	name    string
	journal *[]event
	ticks   []float64
	changes []bool
}

func (r *recorder) OnTick(dt float64) {
	r.ticks = append(r.ticks, dt)
	if r.journal != nil {
		*r.journal = append(*r.journal, event{name: r.name, tick: dt})
	}
}

func (r *recorder) OnEnabledChanged(enabled bool) {
	r.changes = append(r.changes, enabled)
	if r.journal != nil {
		*r.journal = append(*r.journal, event{name: r.name, enabled: enabled})
	}
}

// marker keeps the default no-op hooks.
type marker struct {
	scenetree.Component
	label string
}

// damageable is implemented by armor only.
type damageable interface {
	scenetree.Behavior
	Absorb(int) int
}

type armor struct {
	scenetree.Component
	rating int
}

func (a *armor) Absorb(dmg int) int {
	return max(dmg-a.rating, 0)
}

// selfDestructor destroys a target during its tick.
type selfDestructor struct {
	scenetree.Component
	target scenetree.Behavior
	ticked int
}

func (s *selfDestructor) OnTick(float64) {
	s.ticked++
	if s.target != nil {
		s.target.Destroy()
	}
}

// names extracts recorder names from a journal.
func names(journal []event) []string {
	out := make([]string, len(journal))
	for i, ev := range journal {
		out[i] = ev.name
	}
	return out
}

// ids collects entity IDs in order.
func ids(entities []*scenetree.Entity) []uint64 {
	out := make([]uint64, len(entities))
	for i, e := range entities {
		out[i] = e.ID()
	}
	return out
}
