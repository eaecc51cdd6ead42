package SSE

import (
	"testing"
	"time"
)

func TestNotifyTargetsOnlyAddressee(t *testing.T) {
	broadcaster := NewNotificationBroadcaster()

	alice := make(chan string, 1)
	bob := make(chan string, 1)
	broadcaster.Register(1, alice)
	broadcaster.Register(2, bob)

	broadcaster.Notify(1, "hello alice")

	select {
	case got := <-alice:
		if got != "hello alice" {
			t.Errorf("alice received %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("alice received nothing")
	}

	select {
	case got := <-bob:
		t.Errorf("bob received %q, want nothing", got)
	default:
	}
}

func TestNotifyReachesAllConnectionsOfAddressee(t *testing.T) {
	broadcaster := NewNotificationBroadcaster()

	first := make(chan string, 1)
	second := make(chan string, 1)
	broadcaster.Register(7, first)
	broadcaster.Register(7, second)

	broadcaster.Notify(7, "event")

	for i, client := range []chan string{first, second} {
		select {
		case got := <-client:
			if got != "event" {
				t.Errorf("connection %d received %q", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("connection %d received nothing", i)
		}
	}
}

func TestNotifyDropsUnresponsiveClientWithoutClosing(t *testing.T) {
	broadcaster := NewNotificationBroadcaster()

	stuck := make(chan string)
	broadcaster.Register(5, stuck)

	done := make(chan struct{})
	go func() {
		broadcaster.Notify(5, "event")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Notify did not give up on an unresponsive client")
	}

	// The channel is dropped from delivery but left open: closing it here
	// would make the owning handler's receive loop spin on zero values.
	select {
	case _, open := <-stuck:
		if !open {
			t.Fatal("broadcaster closed a channel it does not own")
		}
		t.Fatal("unexpected delivery to a dropped client")
	default:
	}

	// The owning handler's deferred Unregister still closes it cleanly.
	broadcaster.Unregister(5, stuck)
	if _, open := <-stuck; open {
		t.Error("channel still open after unregister")
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	broadcaster := NewNotificationBroadcaster()

	client := make(chan string, 1)
	broadcaster.Register(3, client)
	broadcaster.Unregister(3, client)

	// The channel is closed and the profile entry is gone; Notify must not
	// panic or block.
	broadcaster.Notify(3, "late event")

	if _, open := <-client; open {
		t.Error("channel still open after unregister")
	}
}
