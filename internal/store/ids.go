package store

import (
	"strconv"
	"sync"
	"time"
)

// idGenerator hands out Unix-millisecond IDs that strictly increase, so two
// records created in the same millisecond still get distinct IDs.
type idGenerator struct {
	mu       sync.Mutex
	now      func() time.Time
	lastID   int64
	lastTime time.Time
}

func newIDGenerator(now func() time.Time) *idGenerator {
	if now == nil {
		now = time.Now
	}
	return &idGenerator{now: now}
}

// next returns a fresh ID and a creation time that never goes backwards.
func (g *idGenerator) next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().UTC()
	if t.Before(g.lastTime) {
		t = g.lastTime
	}
	g.lastTime = t

	id := t.UnixMilli()
	if id <= g.lastID {
		id = g.lastID + 1
	}
	g.lastID = id

	return strconv.FormatInt(id, 10), t
}

// observe moves the generator past an ID already present on disk.
func (g *idGenerator) observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	if n > g.lastID {
		g.lastID = n
	}
	g.mu.Unlock()
}
