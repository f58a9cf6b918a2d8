package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

// Service is the in-memory per-user conversation session store. A single
// coarse lock guards the map; every operation is a fast in-memory read or
// read-modify-write, so hold times are microseconds and nothing is awaited
// under the lock. Sessions are volatile: nothing survives a restart.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session

	done     chan struct{}
	stopOnce sync.Once
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}, nil
}

// HasSession reports whether the user has a live session. An expired session
// found here is deleted on the spot (lazy eviction).
func (s *Service) HasSession(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return false
	}
	if session.expired(time.Now()) {
		delete(s.sessions, userID)
		return false
	}
	return true
}

// GetContext returns the session summary for prompt injection. The second
// return is false when there is no live session or the summary is empty.
// Same lazy eviction as HasSession.
func (s *Service) GetContext(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return "", false
	}
	if session.expired(time.Now()) {
		delete(s.sessions, userID)
		return "", false
	}
	if session.Summary == "" {
		return "", false
	}
	return session.Summary, true
}

// RecordTurn is the sole mutator: it creates the session if absent, extends
// and compacts the summary, and refreshes activity. Fact extraction happens
// before the lock is taken.
func (s *Service) RecordTurn(userID, query, response string) {
	keyFacts := ExtractKeyFacts(response)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{}
		s.sessions[userID] = session
	}

	var newSummary string
	if session.Summary != "" {
		newSummary = session.Summary + summarySeparator + "Then: " + truncate(query, maxQueryInSummary) + " → " + keyFacts
	} else {
		newSummary = "Prior: " + truncate(query, maxQueryInSummary) + " → " + keyFacts
	}
	session.Summary = compact(newSummary)

	session.LastQuery = truncate(query, maxStoredQueryLen)
	session.LastResponseSnippet = truncate(response, maxSnippetLen)
	session.TurnCount++
	session.LastActivity = time.Now()
}

// compact drops the oldest " | "-separated segments until the summary fits
// the cap or a single segment remains. The newest segment is always kept,
// even if it alone exceeds the cap.
func compact(summary string) string {
	if len([]rune(summary)) <= maxSummaryLen {
		return summary
	}

	parts := strings.Split(summary, summarySeparator)
	for len(parts) > 1 && len([]rune(strings.Join(parts, summarySeparator))) > maxSummaryLen {
		parts = parts[1:]
	}
	return strings.Join(parts, summarySeparator)
}

// Reset removes any session for the user. Idempotent.
func (s *Service) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// ActiveSessionCount counts sessions inside the activity window, computed at
// call time. Reporting only; correctness never depends on it.
func (s *Service) ActiveSessionCount() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, session := range s.sessions {
		if !session.expired(now) {
			count++
		}
	}
	return count
}

// RunSweepLoop periodically removes sessions that expired without ever being
// read again. The sweep is a memory backstop; lazy eviction already enforces
// the timeout for active lookups. Returns when ctx is cancelled or Shutdown
// is called.
func (s *Service) RunSweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Session sweep panicked", "panic", r)
		}
	}()

	now := time.Now()

	s.mu.Lock()
	removed := 0
	for userID, session := range s.sessions {
		if session.expired(now) {
			delete(s.sessions, userID)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		slog.Debug("Swept expired conversation sessions", "removed", removed)
	}
}

// Shutdown stops the sweep loop. Safe to call repeatedly or before the loop
// was ever started.
func (s *Service) Shutdown() error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	return nil
}
