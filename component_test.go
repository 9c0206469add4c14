package scenetree_test

import (
	"reflect"
	"testing"

	"github.com/edwinsyarief/scenetree"
	"gotest.tools/v3/assert"
)

// go test -run ^TestAttach$ . -count 1
func TestAttach(t *testing.T) {
	t.Run("AppendsInOrder", func(t *testing.T) {
		e := scenetree.NewEntity()
		a := scenetree.Attach(e, &marker{label: "a"})
		b := scenetree.Attach(e, &marker{label: "b"})

		assert.Equal(t, 2, e.ComponentCount())
		assert.Check(t, e.Components()[0] == scenetree.Behavior(a))
		assert.Check(t, e.Components()[1] == scenetree.Behavior(b))
		assert.Check(t, a.Entity() == e)
		assert.Check(t, a.EnabledSelf())
		assert.Check(t, a.Enabled())
	})

	t.Run("StartDisabled", func(t *testing.T) {
		e := scenetree.NewEntity()
		m := scenetree.Attach(e, &marker{}, scenetree.WithComponentEnabled(false))
		assert.Check(t, !m.EnabledSelf())
		assert.Check(t, !m.Enabled())
	})

	t.Run("DisabledEntity", func(t *testing.T) {
		e := scenetree.NewEntity(scenetree.WithEnabled(false))
		m := scenetree.Attach(e, &marker{})
		assert.Check(t, m.EnabledSelf())
		assert.Check(t, !m.Enabled())
	})
}

// go test -run ^TestDestroy$ . -count 1
func TestDestroy(t *testing.T) {
	t.Run("RemovesFromEntity", func(t *testing.T) {
		e := scenetree.NewEntity()
		a := scenetree.Attach(e, &marker{label: "a"})
		b := scenetree.Attach(e, &marker{label: "b"})

		a.Destroy()

		assert.Check(t, a.IsDestroyed())
		assert.Equal(t, 1, e.ComponentCount())
		first, ok := e.ComponentAt(0)
		assert.Check(t, ok)
		assert.Check(t, first == scenetree.Behavior(b))
	})

	t.Run("TwiceIsNoop", func(t *testing.T) {
		e := scenetree.NewEntity()
		a := scenetree.Attach(e, &marker{}, scenetree.WithPrecache())
		b := scenetree.Attach(e, &marker{})

		a.Destroy()
		found, ok := scenetree.ComponentOf[*marker](e)
		assert.Check(t, ok)
		assert.Check(t, found == b)

		a.Destroy()
		assert.Equal(t, 1, e.ComponentCount())
		again, ok := scenetree.ComponentOf[*marker](e)
		assert.Check(t, ok)
		assert.Check(t, again == b)
	})

	t.Run("UnattachedIsNoop", func(t *testing.T) {
		m := &marker{}
		m.Destroy()
		assert.Check(t, !m.IsDestroyed())
	})

	t.Run("NoTickAfterDestroy", func(t *testing.T) {
		e := scenetree.NewEntity()
		r := scenetree.Attach(e, &recorder{})
		e.Tick(1)
		r.Destroy()
		e.Tick(2)
		assert.DeepEqual(t, []float64{1}, r.ticks)
	})
}

// go test -run ^TestComponentByType$ . -count 1
func TestComponentByType(t *testing.T) {
	t.Run("FallbackScanIsStable", func(t *testing.T) {
		e := scenetree.NewEntity()
		scenetree.Attach(e, &armor{rating: 1})
		m := scenetree.Attach(e, &marker{label: "m"})

		for range 3 {
			found, ok := scenetree.ComponentOf[*marker](e)
			assert.Check(t, ok)
			assert.Check(t, found == m)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		e := scenetree.NewEntity()
		scenetree.Attach(e, &marker{})
		found, ok := scenetree.ComponentOf[*armor](e)
		assert.Check(t, !ok)
		assert.Check(t, found == nil)

		c, ok := e.ComponentByType(reflect.TypeFor[*recorder]())
		assert.Check(t, !ok)
		assert.Check(t, c == nil)

		c, ok = e.ComponentByType(nil)
		assert.Check(t, !ok)
		assert.Check(t, c == nil)
	})

	t.Run("EvictOnlyIndexedInstance", func(t *testing.T) {
		e := scenetree.NewEntity()
		first := scenetree.Attach(e, &marker{label: "first"})
		second := scenetree.Attach(e, &marker{label: "second"})
		third := scenetree.Attach(e, &marker{label: "third"})

		found, _ := scenetree.ComponentOf[*marker](e)
		assert.Check(t, found == first)

		// Destroying a non-indexed instance keeps the cached entry.
		second.Destroy()
		found, _ = scenetree.ComponentOf[*marker](e)
		assert.Check(t, found == first)

		first.Destroy()
		found, ok := scenetree.ComponentOf[*marker](e)
		assert.Check(t, ok)
		assert.Check(t, found == third)

		third.Destroy()
		_, ok = scenetree.ComponentOf[*marker](e)
		assert.Check(t, !ok)
	})

	t.Run("PrecacheKeepsFirstIndexed", func(t *testing.T) {
		e := scenetree.NewEntity()
		early := scenetree.Attach(e, &marker{label: "early"})
		found, _ := scenetree.ComponentOf[*marker](e)
		assert.Check(t, found == early)

		scenetree.Attach(e, &marker{label: "late"}, scenetree.WithPrecache())
		found, _ = scenetree.ComponentOf[*marker](e)
		assert.Check(t, found == early)
	})

	t.Run("PrecacheWinsBeforeAnyLookup", func(t *testing.T) {
		e := scenetree.NewEntity()
		scenetree.Attach(e, &marker{label: "plain"})
		pre := scenetree.Attach(e, &marker{label: "pre"}, scenetree.WithPrecache())
		found, _ := scenetree.ComponentOf[*marker](e)
		assert.Check(t, found == pre)
	})

	t.Run("InterfaceKind", func(t *testing.T) {
		e := scenetree.NewEntity()
		scenetree.Attach(e, &marker{})
		a := scenetree.Attach(e, &armor{rating: 3})

		d, ok := scenetree.ComponentOf[damageable](e)
		assert.Check(t, ok)
		assert.Equal(t, 2, d.Absorb(5))

		// The interface entry is evicted with the instance.
		a.Destroy()
		_, ok = scenetree.ComponentOf[damageable](e)
		assert.Check(t, !ok)
	})

	t.Run("ComponentsOf", func(t *testing.T) {
		e := scenetree.NewEntity()
		a := scenetree.Attach(e, &marker{label: "a"})
		scenetree.Attach(e, &armor{})
		b := scenetree.Attach(e, &marker{label: "b"})

		all := scenetree.ComponentsOf[*marker](e)
		assert.Equal(t, 2, len(all))
		assert.Check(t, all[0] == a)
		assert.Check(t, all[1] == b)
	})
}

// go test -run ^TestFindComponent$ . -count 1
func TestFindComponent(t *testing.T) {
	e := scenetree.NewEntity()
	scenetree.Attach(e, &marker{label: "a"})
	b := scenetree.Attach(e, &marker{label: "b"}, scenetree.WithComponentEnabled(false))
	c := scenetree.Attach(e, &marker{label: "c"}, scenetree.WithComponentEnabled(false))

	disabled := func(bh scenetree.Behavior) bool {
		m, ok := bh.(*marker)
		return ok && !m.EnabledSelf()
	}

	found, ok := e.FindComponent(disabled)
	assert.Check(t, ok)
	assert.Check(t, found == scenetree.Behavior(b))

	all := e.FindComponents(disabled)
	assert.Equal(t, 2, len(all))
	assert.Check(t, all[1] == scenetree.Behavior(c))

	_, ok = e.FindComponent(func(scenetree.Behavior) bool { return false })
	assert.Check(t, !ok)
	assert.Equal(t, 0, len(e.FindComponents(func(scenetree.Behavior) bool { return false })))
}
