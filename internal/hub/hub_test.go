package hub

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"weekplan/internal/models"
)

func newTestHub() *Hub {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func receive(t *testing.T, sub *Subscriber) Event {
	t.Helper()
	select {
	case event := <-sub.C:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishDelivers(t *testing.T) {
	h := newTestHub()
	sub := h.Subscribe(TopicTasks)
	defer h.Unsubscribe(sub)

	task := models.Task{ID: "t1", Title: "Write spec", Day: "monday", Priority: 1}
	h.Publish(TopicTasks, TaskCreated(task))

	event := receive(t, sub)
	if event.Type != EventTaskCreated {
		t.Fatalf("event type = %q, want %q", event.Type, EventTaskCreated)
	}
	if event.Task == nil || event.Task.ID != "t1" {
		t.Fatalf("unexpected payload: %#v", event)
	}
}

func TestTopicIsolation(t *testing.T) {
	h := newTestHub()
	tasksSub := h.Subscribe(TopicTasks)
	pomodoroSub := h.Subscribe(TopicPomodoro)
	defer h.Unsubscribe(tasksSub)
	defer h.Unsubscribe(pomodoroSub)

	h.Publish(TopicTasks, TaskDeleted("t1"))

	receive(t, tasksSub)
	select {
	case event := <-pomodoroSub.C:
		t.Fatalf("pomodoro subscriber received tasks event: %#v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFIFOPerSubscriber(t *testing.T) {
	h := newTestHub()
	sub := h.Subscribe(TopicTasks)
	defer h.Unsubscribe(sub)

	const n = 10
	for i := 0; i < n; i++ {
		h.Publish(TopicTasks, TaskDeleted(fmt.Sprintf("task-%d", i)))
	}
	for i := 0; i < n; i++ {
		event := receive(t, sub)
		if want := fmt.Sprintf("task-%d", i); event.ID != want {
			t.Fatalf("event %d out of order: got %s, want %s", i, event.ID, want)
		}
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	h := newTestHub()
	slow := h.Subscribe(TopicTasks)
	fast := h.Subscribe(TopicTasks)
	defer h.Unsubscribe(slow)
	defer h.Unsubscribe(fast)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Overflow the slow subscriber's queue while nobody drains it.
		// The fast subscriber is drained inline, so it must see everything.
		for i := 0; i < subscriberBuffer*2; i++ {
			h.Publish(TopicTasks, TaskDeleted(fmt.Sprintf("task-%d", i)))
			<-fast.C
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked behind slow subscriber")
	}

	// The slow subscriber keeps the oldest events and loses the overflow.
	first := receive(t, slow)
	if first.ID != "task-0" {
		t.Fatalf("slow subscriber lost head of queue: %s", first.ID)
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	h := newTestHub()
	sub := h.Subscribe(TopicTasks, TopicPomodoro)

	if got := h.SubscriberCount(); got != 1 {
		t.Fatalf("subscriber count = %d, want 1", got)
	}

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)
	h.Unsubscribe(nil)

	if got := h.SubscriberCount(); got != 0 {
		t.Fatalf("subscriber count after unsubscribe = %d, want 0", got)
	}

	if _, ok := <-sub.C; ok {
		t.Fatal("channel not closed after unsubscribe")
	}

	// Publishing with no subscribers is a no-op.
	h.Publish(TopicTasks, TaskDeleted("t1"))
}
