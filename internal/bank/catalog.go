package bank

import (
	"sync"
	"time"

	"github.com/rahulpattadi/toppers/internal/domain"
)

// Snapshot is one loaded question set.
type Snapshot struct {
	Questions []domain.Question
	Origin    domain.LoadOrigin
	Source    string
	// Err is the load error recovered by falling back, if any.
	Err      error
	LoadedAt time.Time
	Version  uint64
}

// Catalog holds the current question set. It is safe for concurrent use.
// Readers wait on Ready until the first set has been stored.
type Catalog struct {
	mu        sync.RWMutex
	snap      Snapshot
	version   uint64
	ready     chan struct{}
	readyOnce sync.Once
}

// NewCatalog creates an empty catalog that is not yet ready.
func NewCatalog() *Catalog {
	return &Catalog{ready: make(chan struct{})}
}

// Replace stores a newly loaded set and marks the catalog ready. The
// stored snapshot, with its version assigned, is returned.
func (c *Catalog) Replace(s Snapshot) Snapshot {
	if s.Questions == nil {
		s.Questions = []domain.Question{}
	}
	if s.LoadedAt.IsZero() {
		s.LoadedAt = time.Now()
	}

	c.mu.Lock()
	c.version++
	s.Version = c.version
	c.snap = s
	c.mu.Unlock()

	c.readyOnce.Do(func() { close(c.ready) })
	return s
}

// Ready is closed once the first set has been stored.
func (c *Catalog) Ready() <-chan struct{} {
	return c.ready
}

// IsReady reports whether a set has been stored.
func (c *Catalog) IsReady() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// Snapshot returns the current set. ok is false while loading.
func (c *Catalog) Snapshot() (Snapshot, bool) {
	if !c.IsReady() {
		return Snapshot{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, true
}

// Questions returns the current question set, or nil while loading.
func (c *Catalog) Questions() []domain.Question {
	s, _ := c.Snapshot()
	return s.Questions
}

// Question looks up a question by id in the current set.
func (c *Catalog) Question(id int) (domain.Question, bool) {
	for _, q := range c.Questions() {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}
