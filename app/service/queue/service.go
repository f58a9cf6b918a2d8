package queue

import (
	"log/slog"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	queue chan Message
}

// Message is one inbound chat message awaiting processing.
type Message struct {
	UserID   string
	ChatID   int64
	Username string
	Text     string
	// VoiceFileID is set for voice notes; the engine transcribes them first.
	VoiceFileID string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Message, bufferSize),
	}, nil
}

// Add enqueues a message without blocking; overflow is dropped with a warning.
func (s *Service) Add(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			// send on closed channel during shutdown
		}
	}()

	select {
	case s.queue <- msg:
	default:
		slog.Warn("message queue is full", "user_id", msg.UserID)
	}
}

func (s *Service) Channel() <-chan Message {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
