package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsubscribe")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "draft.changed", Data: map[string]string{"name": "温度传感器"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: draft.changed\n") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"name":"温度传感器"`) {
			t.Errorf("missing data in %q", s)
		}
		if !strings.HasPrefix(s, "id: 1\n") {
			t.Errorf("missing event id in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishComponentThrottlesAggregate(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishComponent(ComponentCreated, "1")
	b.PublishComponent(ComponentDeleted, "1")

	time.Sleep(50 * time.Millisecond)
	aggregate, single := 0, 0
	for _, s := range drain(ch) {
		switch {
		case strings.Contains(s, "event: "+ComponentsChanged):
			aggregate++
		case strings.Contains(s, "event: component."):
			single++
		}
	}

	if single != 2 {
		t.Errorf("component events = %d, want 2", single)
	}
	if aggregate != 1 {
		t.Errorf("aggregate events = %d, want 1", aggregate)
	}
}

func TestComponentEventNames(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishComponent(ComponentUpdated, "abc")
	time.Sleep(50 * time.Millisecond)

	msgs := drain(ch)
	if len(msgs) == 0 {
		t.Fatal("no events delivered")
	}
	if !strings.Contains(msgs[0], "event: component.updated\ndata: {\"id\":\"abc\"}") {
		t.Errorf("unexpected first event %q", msgs[0])
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Publish(Event{Type: "session.closed", Data: map[string]string{"state": "closed"}})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content type = %q", got)
	}
	if body := w.Body.String(); !strings.Contains(body, "event: session.closed") {
		t.Errorf("handler output missing event: %q", body)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Capacity is 64; overflowing must not block the publisher.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "draft.changed", Data: i})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}
	b.Publish(Event{Type: "draft.changed"})
	b.PublishComponent(ComponentUpdated, "x")
}

func TestFrame(t *testing.T) {
	raw, err := frame(7, Event{Type: "draft.changed", Data: map[string]string{"name": "地区"}})
	if err != nil {
		t.Fatal(err)
	}
	want := "id: 7\nevent: draft.changed\ndata: {\"name\":\"地区\"}\n\n"
	if string(raw) != want {
		t.Errorf("frame = %q, want %q", raw, want)
	}

	if _, err := frame(8, Event{Type: "bad", Data: make(chan int)}); err == nil {
		t.Error("expected encode error for unencodable data")
	}
}

func TestUnencodableEventDoesNotAdvanceSequence(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()

	b.Publish(Event{Type: "bad", Data: make(chan int)})
	b.Publish(Event{Type: "ok", Data: 1})

	select {
	case msg := <-ch:
		if !strings.HasPrefix(string(msg), "id: 1\nevent: ok") {
			t.Errorf("first frame = %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
	}
}
