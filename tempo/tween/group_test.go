package tween

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-tempo/tempo/bus"
)

func TestGroup_PrunesAfterCompletion(t *testing.T) {
	g := NewGroup()
	short := mustTween(t, 0, 1, 500)
	h1 := g.Add(short)
	g.Add(mustTween(t, 0, 1, 1000))
	g.Add(mustTween(t, 0, 1, 1500))
	require.Equal(t, 3, g.Len())

	stillMember := false
	short.OnComplete(func(bus.Event) error {
		_, stillMember = g.Get(h1)
		return nil
	})

	require.NoError(t, g.Update(500))
	assert.True(t, stillMember, "completion fires before removal")
	assert.Equal(t, 2, g.Len())

	_, ok := g.Get(h1)
	assert.False(t, ok)
}

func TestGroup_KeepsTweensAddedCompleted(t *testing.T) {
	g := NewGroup()
	removed := 0
	g.Bus().Subscribe(TopicRemoved, func(bus.Event) error {
		removed++
		return nil
	})

	finished := mustTween(t, 0, 1, 100)
	require.NoError(t, finished.Update(100))
	require.True(t, finished.IsCompleted())
	h := g.Add(finished)

	require.NoError(t, g.Update(100))
	assert.Equal(t, 1, g.Len(), "only completions seen in this pass are pruned")
	assert.Equal(t, 0, removed)

	finished.Restart()
	require.NoError(t, g.Update(100))
	_, ok := g.Get(h)
	assert.False(t, ok)
	assert.Equal(t, 1, removed)
}

func TestGroup_RestartedFromListenerStays(t *testing.T) {
	g := NewGroup()
	looping := mustTween(t, 0, 1, 100)
	looping.OnComplete(func(bus.Event) error {
		looping.Restart()
		return nil
	})
	g.Add(looping)

	require.NoError(t, g.Update(100))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, Running, looping.State())
}

func TestGroup_SameDeltaForAllMembers(t *testing.T) {
	g := NewGroup()
	var tweens []*Tween
	for i := 0; i < 4; i++ {
		tw := mustTween(t, 0, 100, 1000)
		tweens = append(tweens, tw)
		g.Add(tw)
	}

	require.NoError(t, g.Update(250))
	for _, tw := range tweens {
		assert.Equal(t, 25.0, tw.Value())
	}
}

func TestGroup_DeterministicOrder(t *testing.T) {
	shared := bus.New()
	g := NewGroup()
	var order []string
	for _, name := range []string{"c", "a", "b"} {
		g.Add(mustTween(t, 0, 1, 100, WithBus(shared), WithName(name)))
		shared.Subscribe(name+"/"+TopicUpdate, func(e bus.Event) error {
			order = append(order, e.Payload.(Event).Name)
			return nil
		})
	}

	require.NoError(t, g.Update(10))
	assert.Equal(t, []string{"c", "a", "b"}, order)
	assert.Equal(t, []Handle{1, 2, 3}, g.Handles())
}

func TestGroup_RemoveIsImmediate(t *testing.T) {
	g := NewGroup()
	tw := mustTween(t, 0, 100, 1000)
	h := g.Add(tw)

	g.Remove(h)
	assert.Equal(t, 0, g.Len())
	require.NoError(t, g.Update(500))
	assert.Equal(t, 0.0, tw.Value(), "removed tweens are not advanced")

	assert.NotPanics(t, func() {
		g.Remove(h)
		g.Remove(Handle(999))
	})
}

func TestGroup_RemoveFromListenerSkipsLaterMember(t *testing.T) {
	g := NewGroup()
	first := mustTween(t, 0, 100, 1000)
	second := mustTween(t, 0, 100, 1000)
	g.Add(first)
	h2 := g.Add(second)

	first.OnUpdate(func(bus.Event) error {
		g.Remove(h2)
		return nil
	})

	require.NoError(t, g.Update(100))
	assert.Equal(t, 10.0, first.Value())
	assert.Equal(t, 0.0, second.Value())
	assert.Equal(t, 1, g.Len())
}

func TestGroup_AddFromListenerWaitsForNextUpdate(t *testing.T) {
	g := NewGroup()
	spawned := mustTween(t, 0, 100, 1000)
	trigger := mustTween(t, 0, 1, 100)
	trigger.OnComplete(func(bus.Event) error {
		g.Add(spawned)
		return nil
	})
	g.Add(trigger)

	require.NoError(t, g.Update(100))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 0.0, spawned.Value())

	require.NoError(t, g.Update(100))
	assert.Equal(t, 10.0, spawned.Value())
}

func TestGroup_RemovedAndDrainedEvents(t *testing.T) {
	g := NewGroup()
	var removed []Handle
	drained := 0
	g.Bus().Subscribe(TopicRemoved, func(e bus.Event) error {
		removed = append(removed, e.Payload.(GroupEvent).Handle)
		return nil
	})
	g.Bus().Subscribe(TopicDrained, func(bus.Event) error {
		drained++
		return nil
	})

	h1 := g.Add(mustTween(t, 0, 1, 100))
	h2 := g.Add(mustTween(t, 0, 1, 200))

	require.NoError(t, g.Update(100))
	assert.Equal(t, []Handle{h1}, removed)
	assert.Equal(t, 0, drained)

	require.NoError(t, g.Update(100))
	assert.Equal(t, []Handle{h1, h2}, removed)
	assert.Equal(t, 1, drained)

	require.NoError(t, g.Update(100))
	assert.Equal(t, 1, drained, "empty groups do not drain again")
}

func TestGroup_PauseAll(t *testing.T) {
	g := NewGroup()
	a := mustTween(t, 0, 100, 1000)
	b := mustTween(t, 0, 100, 1000)
	g.Add(a)
	g.Add(b)

	g.PauseAll()
	require.NoError(t, g.Update(500))
	assert.Equal(t, 0.0, a.Value())
	assert.True(t, b.IsPaused())
	assert.Equal(t, 2, g.Len())

	g.UnpauseAll()
	require.NoError(t, g.Update(500))
	assert.Equal(t, 50.0, a.Value())
	assert.Equal(t, 50.0, b.Value())
}

func TestGroup_ClearAndNil(t *testing.T) {
	g := NewGroup(WithGroupBus(bus.New()))
	assert.Equal(t, Handle(0), g.Add(nil))
	g.Add(mustTween(t, 0, 1, 100))
	g.Add(mustTween(t, 0, 1, 100))

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Handles())

	count := 0
	g.Each(func(Handle, *Tween) { count++ })
	assert.Equal(t, 0, count)
}
