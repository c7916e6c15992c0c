package services

import (
	"context"
	"testing"
	"time"

	"faculty-management-api/models"
)

func TestEventHubFansOutToSubscribers(t *testing.T) {
	hub := NewEventHub(4)
	a, unsubA := hub.Subscribe()
	b, unsubB := hub.Subscribe()
	defer unsubB()

	hub.Publish(context.Background(), Event{Type: EventRequestCreated, RequestID: "r1"})

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case evt := <-ch:
			if evt.RequestID != "r1" || evt.OccurredAt.IsZero() {
				t.Fatalf("subscriber %s got %+v", name, evt)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s received nothing", name)
		}
	}

	unsubA()
	unsubA()
	if _, ok := <-a; ok {
		t.Fatalf("unsubscribed channel must be closed")
	}
	if n := hub.Subscribers(); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}
}

func TestEventHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewEventHub(1)
	ch, unsub := hub.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Publish(context.Background(), Event{Type: EventRequestReviewed, Kind: models.KindLeave})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}
	if got := len(ch); got != 1 {
		t.Fatalf("expected one buffered event, got %d", got)
	}
}
