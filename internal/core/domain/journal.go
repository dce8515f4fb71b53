package domain

import "time"

// JournalEntry records one submitted group update.
type JournalEntry struct {
	ID        int64
	Group     string
	GroupID   string
	Classes   string // submitted classes, JSON
	Rule      string // submitted rule, JSON
	Verified  bool
	Error     string
	CreatedAt time.Time
}
