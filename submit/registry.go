package submit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps one Desk per admin page session, keyed by an id stored in
// the session cookie
type Registry struct {
	creator Creator
	opts    Options

	mu    sync.Mutex
	desks map[string]*Desk
}

func NewRegistry(creator Creator, opts Options) *Registry {
	return &Registry{
		creator: creator,
		opts:    opts,
		desks:   map[string]*Desk{},
	}
}

func (r *Registry) NewID() string {
	return uuid.NewString()
}

// Desk returns the desk for id, creating it if needed
func (r *Registry) Desk(id string) *Desk {
	r.mu.Lock()
	defer r.mu.Unlock()
	desk, ok := r.desks[id]
	if !ok {
		desk = NewDesk(r.creator, r.opts)
		r.desks[id] = desk
	}
	desk.touch(time.Now())
	return desk
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.desks)
}

// Sweep drops desks not seen since before cutoff. A desk with a submission
// in flight is kept
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for id, desk := range r.desks {
		if desk.anyBusy() || !desk.idleSince().Before(cutoff) {
			continue
		}
		delete(r.desks, id)
		n++
	}
	return n
}

// RunJanitor sweeps idle desks every interval until ctx is done
func (r *Registry) RunJanitor(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := r.Sweep(now.Add(-ttl)); n > 0 {
				log.Printf("dropped %d idle submission desks", n)
			}
		}
	}
}
