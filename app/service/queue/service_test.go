package queue

import "testing"

func TestAddAndReceive(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Add(Message{UserID: "1", Text: "hello"})

	select {
	case msg := <-s.Channel():
		if msg.Text != "hello" {
			t.Errorf("text = %q", msg.Text)
		}
	default:
		t.Fatal("expected a queued message")
	}
}

func TestAddDropsOnOverflow(t *testing.T) {
	s, _ := New(nil)

	for i := 0; i < bufferSize+10; i++ {
		s.Add(Message{UserID: "1"})
	}

	if got := len(s.queue); got != bufferSize {
		t.Errorf("queue length = %d, want %d", got, bufferSize)
	}
}

func TestAddAfterShutdownDoesNotPanic(t *testing.T) {
	s, _ := New(nil)

	if err := s.Shutdown(); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	s.Add(Message{UserID: "1"})
}
