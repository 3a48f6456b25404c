package graph

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// fanout is the ordered set of listeners of one graph, split into the
// elements and attributes channels.
//
// Registrations are copy-on-write: dispatch iterates an immutable snapshot, so
// concurrent dispatchers never block registration. When guarded, registering
// or unregistering while a dispatch is in progress fails fast instead, and
// events raised by listeners are queued until the current event has reached
// every listener.
type fanout struct {
	mu       sync.Mutex
	elements atomic.Pointer[[]ElementListener]
	attrs    atomic.Pointer[[]AttributeListener]

	guarded bool
	depth   atomic.Int32
	queue   []Event // guarded only
}

func newFanout(guarded bool) *fanout {
	return &fanout{guarded: guarded}
}

func (f *fanout) checkDispatch() error {
	if f.guarded && f.depth.Load() > 0 {
		return errDispatch()
	}
	return nil
}

func (f *fanout) addElementListener(l ElementListener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkDispatch(); err != nil {
		return err
	}
	next := append(slices.Clone(f.elementSnapshot()), l)
	f.elements.Store(&next)
	return nil
}

func (f *fanout) addAttributeListener(l AttributeListener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkDispatch(); err != nil {
		return err
	}
	next := append(slices.Clone(f.attributeSnapshot()), l)
	f.attrs.Store(&next)
	return nil
}

// removeElementListener drops the first registration of l.
func (f *fanout) removeElementListener(l ElementListener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkDispatch(); err != nil {
		return err
	}
	cur := f.elementSnapshot()
	if i := slices.IndexFunc(cur, func(x ElementListener) bool { return sameListener(x, l) }); i >= 0 {
		next := slices.Delete(slices.Clone(cur), i, i+1)
		f.elements.Store(&next)
	}
	return nil
}

// removeAttributeListener drops the first registration of l.
func (f *fanout) removeAttributeListener(l AttributeListener) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkDispatch(); err != nil {
		return err
	}
	cur := f.attributeSnapshot()
	if i := slices.IndexFunc(cur, func(x AttributeListener) bool { return sameListener(x, l) }); i >= 0 {
		next := slices.Delete(slices.Clone(cur), i, i+1)
		f.attrs.Store(&next)
	}
	return nil
}

func (f *fanout) clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkDispatch(); err != nil {
		return err
	}
	f.elements.Store(nil)
	f.attrs.Store(nil)
	return nil
}

func (f *fanout) elementSnapshot() []ElementListener {
	if p := f.elements.Load(); p != nil {
		return *p
	}
	return nil
}

func (f *fanout) attributeSnapshot() []AttributeListener {
	if p := f.attrs.Load(); p != nil {
		return *p
	}
	return nil
}

// dispatch delivers events in order to every listener of the matching
// channel, listeners in registration order. A panicking listener aborts the
// remaining deliveries and drops queued events.
//
// On a guarded fanout, events dispatched from inside a listener are queued
// and delivered after the outer event, so every listener sees ids in
// increasing order. Unguarded fanouts deliver them immediately.
func (f *fanout) dispatch(events ...Event) {
	if len(events) == 0 {
		return
	}
	if f.guarded && f.depth.Load() > 0 {
		f.queue = append(f.queue, events...)
		return
	}
	f.depth.Add(1)
	defer func() {
		if f.guarded {
			f.queue = nil
		}
		f.depth.Add(-1)
	}()

	f.deliver(events)
	for f.guarded && len(f.queue) > 0 {
		next := f.queue
		f.queue = nil
		f.deliver(next)
	}
}

func (f *fanout) deliver(events []Event) {
	for _, e := range events {
		if e.Kind == AttributeChangedEvent {
			for _, l := range f.attributeSnapshot() {
				l.AttributeChanged(e.SourceID, e.EventID, e.ElementID, e.ElementType, e.Key, e.Change, e.OldValue, e.NewValue)
			}
			continue
		}
		for _, l := range f.elementSnapshot() {
			applyElement(l, e)
		}
	}
}

// sameListener compares registrations without panicking on uncomparable
// dynamic types such as EventFunc. Functions match by code pointer, so two
// closures of the same literal are the same listener.
func sameListener(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil {
		return false
	}
	if ta.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}
