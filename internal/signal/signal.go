// Package signal tracks the generation of ride data so cached results can
// tell when the rides underneath them changed.
package signal

import (
	"sync"
	"sync/atomic"
)

// Token identifies one generation. Its Done channel closes once a newer
// generation replaces it.
type Token struct {
	gen  uint64
	done chan struct{}
}

func newToken(gen uint64) *Token {
	return &Token{gen: gen, done: make(chan struct{})}
}

// Generation returns the generation this token was issued for.
func (t *Token) Generation() uint64 {
	return t.gen
}

// Done returns a channel that is closed when the token expires.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Expired reports whether a newer generation has been issued.
func (t *Token) Expired() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Signal issues tokens and expires them on Reset or Advance.
// Readers never block; writers are serialized.
type Signal struct {
	mu      sync.Mutex
	current atomic.Pointer[Token]
}

// New returns a signal at generation 0.
func New() *Signal {
	return NewAt(0)
}

// NewAt returns a signal starting at the given generation.
func NewAt(gen uint64) *Signal {
	s := &Signal{}
	s.current.Store(newToken(gen))
	return s
}

// Token returns the current token.
func (s *Signal) Token() *Token {
	return s.current.Load()
}

// Generation returns the current generation.
func (s *Signal) Generation() uint64 {
	return s.Token().gen
}

// Reset moves to the next generation and expires the previous token.
func (s *Signal) Reset() *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(s.current.Load().gen + 1)
}

// Advance jumps to gen when it is ahead of the current generation.
// It reports whether the generation changed.
func (s *Signal) Advance(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.current.Load().gen {
		return false
	}
	s.swap(gen)
	return true
}

// swap installs the new token before closing the old one, so a reader woken
// by the close always observes the newer generation. Callers hold mu.
func (s *Signal) swap(gen uint64) *Token {
	next := newToken(gen)
	prev := s.current.Swap(next)
	close(prev.done)
	return next
}
