package whatsapp

import (
	"fmt"
	"sync"
	"time"
)

// DefaultSeenCap bounds the processed-message set. The set is cleared
// wholesale when it grows past the cap, trading perfect historical dedup for
// bounded memory.
const DefaultSeenCap = 1000

// imageSuppressionWindow is the coarse bucket applied to per-sender image
// keys, absorbing near-simultaneous redeliveries of the same screenshot that
// arrive under different message identifiers.
const imageSuppressionWindow = 10 * time.Second

// ProcessedSet records message identifiers already handled so redeliveries
// are suppressed. Safe for concurrent use; the check-then-add step is a
// single critical section so two simultaneous deliveries of the same
// identifier cannot both pass.
type ProcessedSet struct {
	mu   sync.Mutex
	cap  int
	seen map[string]struct{}
}

// NewProcessedSet creates a set cleared wholesale once its size exceeds cap.
func NewProcessedSet(cap int) *ProcessedSet {
	if cap <= 0 {
		cap = DefaultSeenCap
	}
	return &ProcessedSet{cap: cap, seen: make(map[string]struct{})}
}

// MarkIfNew records the key and reports whether it was unseen. Keys are
// recorded before the caller processes the message, so a redelivery arriving
// mid-processing is still suppressed.
func (s *ProcessedSet) MarkIfNew(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return false
	}
	if len(s.seen) >= s.cap {
		s.seen = make(map[string]struct{})
	}
	s.seen[key] = struct{}{}
	return true
}

// Len returns the current number of recorded keys.
func (s *ProcessedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// imageSuppressionKey buckets image messages from one sender into coarse
// time windows, distinct from the message-identifier keys.
func imageSuppressionKey(sender string, now time.Time) string {
	bucket := now.UnixMilli() / imageSuppressionWindow.Milliseconds()
	return fmt.Sprintf("%s-image-%d", sender, bucket)
}
