package realtime

import (
	"testing"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	if b == nil {
		t.Fatal("NewBroadcaster returned nil")
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers %d, want 0", b.Subscribers())
	}
}

func TestBroadcaster_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Name: "game_state", Data: []byte(`{"round":1}`)})
	got := <-ch
	if got.Name != "game_state" {
		t.Errorf("got event %q, want game_state", got.Name)
	}
	if string(got.Data) != `{"round":1}` {
		t.Errorf("got data %s", got.Data)
	}
}

func TestBroadcaster_PublishDeliversToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish(Event{Name: "round_result"})
	if got := <-ch1; got.Name != "round_result" {
		t.Errorf("ch1 got %q, want round_result", got.Name)
	}
	if got := <-ch2; got.Name != "round_result" {
		t.Errorf("ch2 got %q, want round_result", got.Name)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	_, open := <-ch
	if open {
		t.Error("channel should be closed after Unsubscribe")
	}
	// Second unsubscribe is a no-op.
	b.Unsubscribe(ch)
}

func TestBroadcaster_PublishDropsForLaggingSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)
	for i := 0; i < cap(ch)+5; i++ {
		b.Publish(Event{Name: "vote_update"})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d, want %d", len(ch), cap(ch))
	}
}
