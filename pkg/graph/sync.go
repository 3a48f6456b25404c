package graph

import (
	"sync"
	"sync/atomic"
)

// rwLocker is the lock guarding a graph's registries. The single-threaded
// profile uses a no-op lock.
type rwLocker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type nopLocker struct{}

func (nopLocker) Lock()    {}
func (nopLocker) Unlock()  {}
func (nopLocker) RLock()   {}
func (nopLocker) RUnlock() {}

var (
	_ rwLocker = nopLocker{}
	_ rwLocker = (*sync.RWMutex)(nil)
)

// clock issues event ids. Ids start at 1.
type clock interface {
	next() uint64
	current() uint64
}

type seqClock struct{ n uint64 }

func (c *seqClock) next() uint64    { c.n++; return c.n }
func (c *seqClock) current() uint64 { return c.n }

type atomicClock struct{ n atomic.Uint64 }

func (c *atomicClock) next() uint64    { return c.n.Add(1) }
func (c *atomicClock) current() uint64 { return c.n.Load() }
