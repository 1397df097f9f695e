package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcaster_NotifyReachesSubscribers(t *testing.T) {
	var b Broadcaster
	calls := 0

	unsubscribe := b.Subscribe(func() { calls++ })
	b.Notify()
	b.Notify()

	assert.Equal(t, 2, calls)

	unsubscribe()
	b.Notify()

	assert.Equal(t, 2, calls)
}

func TestBroadcaster_UnsubscribeTwice(t *testing.T) {
	var b Broadcaster
	calls := 0

	unsubscribe := b.Subscribe(func() { calls++ })
	unsubscribe()
	unsubscribe()
	b.Notify()

	assert.Equal(t, 0, calls)
}

func TestBroadcaster_MultipleListeners(t *testing.T) {
	var b Broadcaster
	first, second := 0, 0

	b.Subscribe(func() { first++ })
	stop := b.Subscribe(func() { second++ })
	b.Notify()
	stop()
	b.Notify()

	assert.Equal(t, 2, first)
	assert.Equal(t, 1, second)
}
