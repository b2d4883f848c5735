package library

import (
	"context"
	"sync"
)

// Scanner runs library scans where only the most recent one matters. Starting
// a scan cancels the one still in flight, which then fails with ErrSuperseded.
type Scanner struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	opts   []Option
}

// NewScanner creates a scanner that applies opts to every scan.
func NewScanner(opts ...Option) *Scanner {
	return &Scanner{opts: opts}
}

// Scan builds the tree for dir, superseding any scan still running.
func (s *Scanner) Scan(ctx context.Context, dir string) (*Tree, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	t, err := BuildDir(ctx, dir, s.opts...)

	s.mu.Lock()
	current := gen == s.gen
	if current {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if !current {
		return nil, ErrSuperseded
	}
	return t, err
}

// Cancel aborts the scan in flight, if any.
func (s *Scanner) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
