package conversation

import "time"

const (
	// Sessions expire after 30 minutes of inactivity.
	sessionTimeout = 30 * time.Minute
	// The background sweep wakes up every 5 minutes.
	sweepInterval = 5 * time.Minute

	maxSummaryLen     = 500
	maxQueryInSummary = 80
	maxStoredQueryLen = 2000
	maxSnippetLen     = 300
	maxFactsLen       = 250

	summarySeparator = " | "
)

// Session is the per-user conversational state record. A Session is created
// lazily on the first recorded turn and mutated only by RecordTurn.
type Session struct {
	// Summary is the rolling compacted context, segments joined by " | ".
	Summary string
	// LastQuery is the most recent raw query, capped at maxStoredQueryLen.
	LastQuery string
	// LastResponseSnippet is the first 300 chars of the most recent response.
	LastResponseSnippet string
	TurnCount           int
	LastActivity        time.Time
}

func (s *Session) expired(now time.Time) bool {
	return now.Sub(s.LastActivity) > sessionTimeout
}
