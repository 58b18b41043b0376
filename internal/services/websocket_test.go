package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.GetConnectedClients() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d registered clients, have %d", n, hub.GetConnectedClients())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubDeliversStatusToOwningUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	renter := &Client{ID: 1, UserType: "renter", Send: make(chan []byte, 4), Hub: hub}
	other := &Client{ID: 2, UserType: "renter", Send: make(chan []byte, 4), Hub: hub}
	hub.register <- renter
	hub.register <- other
	waitForClients(t, hub, 2)

	NotifyBookingStatus(hub, 1, 9, "ref-abc", "Confirmed")

	select {
	case msg := <-renter.Send:
		assert.Contains(t, string(msg), "booking_status")
		assert.Contains(t, string(msg), "ref-abc")
		assert.Contains(t, string(msg), "Confirmed")
	case <-time.After(time.Second):
		t.Fatal("no message delivered to owning renter")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("message leaked to wrong user: %s", msg)
	default:
	}
}

func TestHubDeliversCreatedToAdmins(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	admin := &Client{ID: 3, UserType: "admin", Send: make(chan []byte, 4), Hub: hub}
	renter := &Client{ID: 4, UserType: "renter", Send: make(chan []byte, 4), Hub: hub}
	hub.register <- admin
	hub.register <- renter
	waitForClients(t, hub, 2)

	NotifyBookingCreated(hub, 9, "ref-abc", "Toyota Vios", 7500)

	select {
	case msg := <-admin.Send:
		assert.Contains(t, string(msg), "booking_created")
		assert.Contains(t, string(msg), "Toyota Vios")
	case <-time.After(time.Second):
		t.Fatal("no message delivered to admin")
	}

	select {
	case msg := <-renter.Send:
		t.Fatalf("admin event leaked to renter: %s", msg)
	default:
	}
}

// Broadcasters evict clients whose send buffer is full, so concurrent
// notification fanout mutates the client set from several goroutines at
// once. Run under the race detector.
func TestHubConcurrentFanout(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	for i := 0; i < 8; i++ {
		userType := "renter"
		bufSize := 64
		if i%2 == 1 {
			// stalled clients with no buffer get evicted mid-broadcast
			userType = "admin"
			bufSize = 0
		}
		hub.register <- &Client{ID: uint(i), UserType: userType, Send: make(chan []byte, bufSize), Hub: hub}
	}
	waitForClients(t, hub, 8)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		id := uint(i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			NotifyBookingStatus(hub, id, id, "ref-abc", "Confirmed")
		}()
		go func() {
			defer wg.Done()
			NotifyBookingCreated(hub, id, "ref-abc", "Toyota Vios", 7500)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, hub.GetConnectedClients(), 8)
}
