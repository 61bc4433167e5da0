package dispatch

import "context"

// slots bounds how many jobs run at once in this process.
type slots struct {
	ch chan struct{}
}

func newSlots(n int) *slots {
	if n <= 0 {
		n = 1
	}
	return &slots{ch: make(chan struct{}, n)}
}

// take blocks until a slot is free and returns the func that gives it back.
func (s *slots) take(ctx context.Context) (func(), error) {
	select {
	case s.ch <- struct{}{}:
		return func() { <-s.ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// busy reports how many slots are taken.
func (s *slots) busy() int {
	return len(s.ch)
}

func (s *slots) size() int {
	return cap(s.ch)
}
