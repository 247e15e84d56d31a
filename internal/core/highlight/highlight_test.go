package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_SetAndClear(t *testing.T) {
	c := New()

	_, ok := c.Active()
	assert.False(t, ok)

	c.Set("w1")
	id, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "w1", id)
	assert.True(t, c.IsActive("w1"))
	assert.False(t, c.IsActive("w2"))
	assert.False(t, c.IsActive(""))

	c.Clear()
	_, ok = c.Active()
	assert.False(t, ok)
}

func TestCoordinator_SetEmptyClears(t *testing.T) {
	c := New()
	c.Set("w1")
	c.Set("")
	_, ok := c.Active()
	assert.False(t, ok)
}

func TestCoordinator_NotifiesOnlyOnChange(t *testing.T) {
	c := New()
	var got []Event
	c.Subscribe(func(e Event) { got = append(got, e) })

	c.Set("w1")
	c.Set("w1")
	c.Set("w2")
	c.Clear()
	c.Clear()

	assert.Equal(t, []Event{
		{ID: "w1"},
		{ID: "w2"},
		{},
	}, got)
}

func TestCoordinator_Unsubscribe(t *testing.T) {
	c := New()
	calls := 0
	unsub := c.Subscribe(func(Event) { calls++ })

	c.Set("w1")
	unsub()
	unsub()
	c.Set("w2")

	assert.Equal(t, 1, calls)
}

func TestCoordinator_SuppressLatch(t *testing.T) {
	c := New()
	var got []Event
	c.Subscribe(func(e Event) { got = append(got, e) })

	c.Set("w1")
	c.Suppress()

	_, ok := c.Active()
	assert.False(t, ok, "suppress clears the highlight")
	assert.True(t, c.Suppressed())

	for _, id := range []string{"w1", "w2", "w3"} {
		c.Set(id)
		_, ok := c.Active()
		assert.False(t, ok, "hover %s must not change state", id)
	}
	c.Clear()
	c.Suppress()

	assert.Equal(t, []Event{
		{ID: "w1"},
		{Suppressed: true},
	}, got, "suppress notifies once")
}
