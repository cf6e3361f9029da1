package signup

import (
	"sync"

	"github.com/rs/zerolog"
)

// Pool is the ordered list of names signed up for the next match. Names are
// unique; insertion order is preserved for display. Commands from the chat
// layer mutate it concurrently, so every method takes the lock, and match
// start works from a Snapshot so in-flight balancing never sees later
// mutations.
type Pool struct {
	mu     sync.Mutex
	names  []string
	logger zerolog.Logger
}

func NewPool(logger zerolog.Logger) *Pool {
	return &Pool{logger: logger}
}

// Add appends a name to the pool. Reports false if the name is already
// signed up.
func (p *Pool) Add(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, n := range p.names {
		if n == name {
			return false
		}
	}
	p.names = append(p.names, name)
	p.logger.Debug().Str("name", name).Int("count", len(p.names)).Msg("signup added")
	return true
}

// Remove drops a name from the pool. Reports false if the name was not
// signed up.
func (p *Pool) Remove(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, n := range p.names {
		if n == name {
			p.names = append(p.names[:i], p.names[i+1:]...)
			p.logger.Debug().Str("name", name).Int("count", len(p.names)).Msg("signup removed")
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current pool in signup order.
func (p *Pool) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the current signup count.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.names)
}

// Clear empties the pool, returning how many signups were dropped.
func (p *Pool) Clear() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.names)
	p.names = nil
	if n > 0 {
		p.logger.Debug().Int("dropped", n).Msg("signup pool cleared")
	}
	return n
}
