package store

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out timestamp-derived ids (Unix milliseconds as a string).
// Ids never repeat within a process: a second call in the same millisecond
// gets the next integer instead of a duplicate.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

var defaultIDs = NewIDGenerator(nil)
