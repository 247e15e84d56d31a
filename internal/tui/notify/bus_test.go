package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/khatt/internal/core/notify"
)

func collect(bus *Bus) *[]notify.Notification {
	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = append(received, n)
	})
	return &received
}

func TestBus_Publish_dispatches_to_subscribers(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(0))
	received := collect(bus)

	bus.Errorf("export failed: %d", 42)
	bus.Infof("exported")
	bus.Warnf("no image")

	require.Len(t, *received, 3)
	assert.Equal(t, notify.LevelError, (*received)[0].Level)
	assert.Equal(t, "export failed: 42", (*received)[0].Message)
	assert.Equal(t, notify.LevelInfo, (*received)[1].Level)
	assert.Equal(t, notify.LevelWarning, (*received)[2].Level)
}

func TestBus_Publish_assigns_id_and_time(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(0))
	received := collect(bus)

	bus.Infof("get id")

	require.Len(t, *received, 1)
	assert.Equal(t, int64(1), (*received)[0].ID)
	assert.False(t, (*received)[0].CreatedAt.IsZero())
}

func TestBus_Error(t *testing.T) {
	bus := NewBus(nil)
	received := collect(bus)

	bus.Error(errors.New("permission denied"), "write export")

	require.Len(t, *received, 1)
	assert.Equal(t, notify.LevelError, (*received)[0].Level)
	assert.Equal(t, "write export: permission denied", (*received)[0].Message)
}

func TestBus_History_and_Clear(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(10))

	bus.Infof("first")
	bus.Infof("second")

	history, err := bus.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Message)

	require.NoError(t, bus.Clear())
	history, err = bus.History()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBus_nil_store(t *testing.T) {
	bus := NewBus(nil)
	received := collect(bus)

	bus.Errorf("no store")
	assert.Len(t, *received, 1)

	history, err := bus.History()
	require.NoError(t, err)
	assert.Nil(t, history)
	assert.NoError(t, bus.Clear())
}
