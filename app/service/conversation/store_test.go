package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Service {
	t.Helper()
	s, err := New(nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func TestUnknownUser(t *testing.T) {
	s := newTestStore(t)

	if s.HasSession("nobody") {
		t.Error("HasSession(nobody) = true")
	}
	if ctx, ok := s.GetContext("nobody"); ok || ctx != "" {
		t.Errorf("GetContext(nobody) = %q, %v, want empty", ctx, ok)
	}
	s.Reset("nobody") // must not panic
}

func TestRecordTurnCreatesSession(t *testing.T) {
	s := newTestStore(t)

	s.RecordTurn("u1", "Analyze Marina Gate Tower 1",
		"Marina Gate Tower 1 in Dubai Marina. AED 2,500,000. Score: 62/100. GOOD BUY. Empower chiller trap. 6.4% gross yield.")

	if !s.HasSession("u1") {
		t.Fatal("HasSession(u1) = false after RecordTurn")
	}

	ctx, ok := s.GetContext("u1")
	if !ok {
		t.Fatal("GetContext(u1) returned no context")
	}
	if !strings.HasPrefix(ctx, "Prior: Analyze Marina Gate Tower 1 → ") {
		t.Errorf("GetContext(u1) = %q, want Prior: prefix with query excerpt", ctx)
	}
	for _, want := range []string{"Marina", "62/100"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("GetContext(u1) = %q, missing %q", ctx, want)
		}
	}

	sess := s.sessions["u1"]
	if sess.TurnCount != 1 {
		t.Errorf("TurnCount = %d, want 1", sess.TurnCount)
	}
	if sess.LastQuery != "Analyze Marina Gate Tower 1" {
		t.Errorf("LastQuery = %q", sess.LastQuery)
	}
	if len([]rune(sess.LastResponseSnippet)) > maxSnippetLen {
		t.Errorf("LastResponseSnippet length = %d, want <= %d", len(sess.LastResponseSnippet), maxSnippetLen)
	}
}

func TestSubsequentTurnsUseThenPrefix(t *testing.T) {
	s := newTestStore(t)

	s.RecordTurn("u1", "Analyze Downtown", "Downtown area. AED 3,000,000. Score: 70/100.")
	s.RecordTurn("u1", "Find studios in Arjan under 600K", "Arjan studios. AED 550,000.")

	ctx, ok := s.GetContext("u1")
	if !ok {
		t.Fatal("GetContext(u1) returned no context")
	}
	if !strings.Contains(ctx, " | Then: Find studios in Arjan under 600K → ") {
		t.Errorf("GetContext(u1) = %q, want Then: segment", ctx)
	}
	if !strings.Contains(ctx, "Arjan") {
		t.Errorf("GetContext(u1) = %q, missing facts from second turn", ctx)
	}
}

func TestSummaryBoundAndEvictionOrder(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 8; i++ {
		query := fmt.Sprintf("Query number %d about some area with plenty of extra words to pad it out", i)
		response := fmt.Sprintf("Area %d in Dubai Marina. AED %d,000,000. Score: %d/100. GOOD BUY. Empower chiller. 6.%d%% gross yield.", i, i+1, 60+i, i)
		s.RecordTurn("u1", query, response)

		ctx, ok := s.GetContext("u1")
		if !ok {
			t.Fatalf("turn %d: no context", i)
		}
		if n := len([]rune(ctx)); n > maxSummaryLen {
			t.Fatalf("turn %d: summary length %d exceeds %d", i, n, maxSummaryLen)
		}
	}

	ctx, _ := s.GetContext("u1")
	if !strings.Contains(ctx, "Query number 7") {
		t.Errorf("newest turn missing from summary: %q", ctx)
	}
	if strings.Contains(ctx, "Query number 0") {
		t.Errorf("oldest turn should have been compacted away: %q", ctx)
	}
}

// The single newest segment survives compaction even when it alone exceeds
// the cap.
func TestCompactionKeepsNewestSegment(t *testing.T) {
	oversized := "Prior: q → " + strings.Repeat("x", 600)
	got := compact(oversized)
	if got != oversized {
		t.Errorf("compact() trimmed a lone segment: got %d chars", len(got))
	}

	two := "Prior: first → " + strings.Repeat("a", 300) + summarySeparator + "Then: second → " + strings.Repeat("b", 300)
	got = compact(two)
	if !strings.Contains(got, "Then: second") {
		t.Errorf("compact() dropped the newest segment: %q", got)
	}
	if strings.Contains(got, "Prior: first") {
		t.Errorf("compact() kept the oldest segment past the cap: %q", got)
	}
}

func TestTimeoutBoundary(t *testing.T) {
	s := newTestStore(t)
	s.RecordTurn("u1", "Analyze Marina", "Marina analysis. Score: 70/100.")

	s.mu.Lock()
	s.sessions["u1"].LastActivity = time.Now().Add(-29 * time.Minute)
	s.mu.Unlock()
	if !s.HasSession("u1") {
		t.Error("session at 29 min reported absent")
	}

	s.mu.Lock()
	s.sessions["u1"].LastActivity = time.Now().Add(-31 * time.Minute)
	s.mu.Unlock()
	if s.HasSession("u1") {
		t.Error("session at 31 min reported present")
	}
	// Lazy eviction removed it entirely.
	if _, ok := s.GetContext("u1"); ok {
		t.Error("GetContext returned context for an expired session")
	}
}

func TestGetContextEvictsExpired(t *testing.T) {
	s := newTestStore(t)
	s.RecordTurn("u1", "Analyze Marina", "Marina analysis.")

	s.mu.Lock()
	s.sessions["u1"].LastActivity = time.Now().Add(-31 * time.Minute)
	s.mu.Unlock()

	if _, ok := s.GetContext("u1"); ok {
		t.Error("GetContext returned context for an expired session")
	}
	s.mu.Lock()
	_, stillThere := s.sessions["u1"]
	s.mu.Unlock()
	if stillThere {
		t.Error("expired session not removed by GetContext")
	}
}

func TestResetIdempotent(t *testing.T) {
	s := newTestStore(t)
	s.RecordTurn("u1", "Analyze Marina", "Marina analysis.")

	s.Reset("u1")
	if s.HasSession("u1") {
		t.Error("HasSession(u1) = true after reset")
	}
	s.Reset("u1") // second reset must be a no-op
	if s.HasSession("u1") {
		t.Error("HasSession(u1) = true after double reset")
	}
}

func TestActiveSessionCount(t *testing.T) {
	s := newTestStore(t)

	if got := s.ActiveSessionCount(); got != 0 {
		t.Errorf("ActiveSessionCount() = %d, want 0", got)
	}

	s.RecordTurn("u1", "q1", "r1")
	s.RecordTurn("u2", "q2", "r2")
	s.RecordTurn("u3", "q3", "r3")

	s.mu.Lock()
	s.sessions["u3"].LastActivity = time.Now().Add(-45 * time.Minute)
	s.mu.Unlock()

	if got := s.ActiveSessionCount(); got != 2 {
		t.Errorf("ActiveSessionCount() = %d, want 2", got)
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	s := newTestStore(t)

	s.RecordTurn("stale", "q", "r")
	s.RecordTurn("fresh", "q", "r")

	s.mu.Lock()
	s.sessions["stale"].LastActivity = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	s.sweep()

	s.mu.Lock()
	_, staleThere := s.sessions["stale"]
	_, freshThere := s.sessions["fresh"]
	s.mu.Unlock()

	if staleThere {
		t.Error("sweep left an expired session behind")
	}
	if !freshThere {
		t.Error("sweep removed a live session")
	}
}

func TestShutdownStopsSweepLoop(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		s.RunSweepLoop(context.Background())
		close(stopped)
	}()

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("sweep loop did not stop after Shutdown")
	}

	// Repeated shutdown must be safe.
	if err := s.Shutdown(); err != nil {
		t.Fatalf("second Shutdown() error: %v", err)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown() without sweep loop error: %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", n%4)
			for j := 0; j < 50; j++ {
				s.RecordTurn(user, "Analyze Marina", "Marina. Score: 70/100.")
				s.HasSession(user)
				s.GetContext(user)
				s.ActiveSessionCount()
			}
		}(i)
	}
	wg.Wait()

	if got := s.ActiveSessionCount(); got != 4 {
		t.Errorf("ActiveSessionCount() = %d, want 4", got)
	}
}
