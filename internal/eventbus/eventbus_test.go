package eventbus

import (
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Publish("hello")
	select {
	case e := <-sub:
		if e != "hello" {
			t.Fatalf("unexpected event %v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	b.Unsubscribe(sub)
	b.Publish("ignored")
}

func TestBusNonBlocking(t *testing.T) {
	b := New()
	_ = b.Subscribe()
	// Fill far past the buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}

func TestBusClose(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	if _, ok := <-sub; ok {
		t.Fatal("channel should be closed")
	}
	b.Publish("after close") // must not panic
}
