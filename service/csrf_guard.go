package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultCSRFTTL is how long an issued anti-forgery token stays valid.
	DefaultCSRFTTL = 30 * time.Minute

	// DefaultCSRFSweepInterval is how often stale records are swept.
	DefaultCSRFSweepInterval = 5 * time.Minute
)

type csrfRecord struct {
	token    string
	issuedAt time.Time
}

// CSRFGuard issues and validates one-time anti-forgery tokens keyed by a
// caller's session key. It owns an in-process store: at most one live record
// per session key, newer issuance overwriting older. The guard does not
// schedule its own sweeps; the caller runs Run or invokes Sweep directly.
type CSRFGuard struct {
	mu      sync.Mutex
	records map[string]csrfRecord

	ttl        time.Duration
	sweepEvery time.Duration

	now      func() time.Time
	newToken func() string
}

// NewCSRFGuard creates a guard with the given token lifetime and sweep
// interval. Non-positive values fall back to the defaults.
func NewCSRFGuard(ttl, sweepEvery time.Duration) *CSRFGuard {
	if ttl <= 0 {
		ttl = DefaultCSRFTTL
	}
	if sweepEvery <= 0 {
		sweepEvery = DefaultCSRFSweepInterval
	}
	return &CSRFGuard{
		records:    make(map[string]csrfRecord),
		ttl:        ttl,
		sweepEvery: sweepEvery,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
}

// Issue generates a fresh token for the session key, replacing any prior
// record, and returns it.
func (g *CSRFGuard) Issue(sessionKey string) string {
	token := g.newToken()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.records[sessionKey] = csrfRecord{
		token:    token,
		issuedAt: g.now(),
	}
	return token
}

// Validate reports whether the submitted token matches the live record for
// the session key. Expired records are evicted on sight. A successful match
// does not consume the record; callers invoke Remove after the guarded
// mutation succeeds.
func (g *CSRFGuard) Validate(sessionKey, submittedToken string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	record, ok := g.records[sessionKey]
	if !ok {
		return false
	}

	if g.now().Sub(record.issuedAt) > g.ttl {
		delete(g.records, sessionKey)
		return false
	}

	return record.token == submittedToken
}

// Remove drops the record for the session key.
func (g *CSRFGuard) Remove(sessionKey string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.records, sessionKey)
}

// Sweep removes all records older than the token lifetime and returns how
// many were dropped.
func (g *CSRFGuard) Sweep(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	dropped := 0
	for key, record := range g.records {
		if now.Sub(record.issuedAt) > g.ttl {
			delete(g.records, key)
			dropped++
		}
	}
	return dropped
}

// Run sweeps on a fixed interval until the context ends.
func (g *CSRFGuard) Run(ctx context.Context) {
	ticker := time.NewTicker(g.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Sweep(g.now())
		}
	}
}
