package storage

import "time"

// StoredSession is the persisted form of one parsed diagnostic session.
// CapturedAt is zero when the session directory name carried no parseable
// timestamp. Detail holds the full session record as JSON.
type StoredSession struct {
	Session     string
	CapturedAt  time.Time
	FilesParsed int
	Categories  []string
	Detail      string
	CreatedAt   time.Time
}

// Stats holds aggregate statistics about the devicepulse database.
type Stats struct {
	TotalSessions  int64
	WithTimestamp  int64
	OldestCapture  time.Time
	NewestCapture  time.Time
	CategoryCounts []CategoryCount
}

// CategoryCount pairs a category name with the number of stored sessions
// that carry it.
type CategoryCount struct {
	Category string
	Count    int64
}
