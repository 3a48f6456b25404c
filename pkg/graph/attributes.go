package graph

import (
	"maps"
	"slices"
)

// ChangeKind classifies an attribute mutation.
type ChangeKind uint8

const (
	AttributeAdded ChangeKind = iota + 1
	AttributeChanged
	AttributeRemoved
)

func (c ChangeKind) String() string {
	switch c {
	case AttributeAdded:
		return "ADD"
	case AttributeChanged:
		return "CHANGE"
	case AttributeRemoved:
		return "REMOVE"
	}
	return "UNKNOWN"
}

// ChangeFunc observes attribute mutations on an [Attributes] store.
type ChangeFunc func(key string, kind ChangeKind, oldValue, newValue Value)

// Attributes is a key/value store of [Value]s that reports every mutation to
// an optional change hook. It is not safe for concurrent use; elements guard
// it with their graph's lock.
//
// The zero value is an empty store without a hook.
type Attributes struct {
	values map[string]Value
	hook   ChangeFunc
}

// NewAttributes returns an empty store reporting to hook, which may be nil.
func NewAttributes(hook ChangeFunc) *Attributes {
	return &Attributes{hook: hook}
}

// Set inserts or replaces key. Setting [None] removes the key.
// It returns the kind of change applied, or 0 when nothing changed.
func (a *Attributes) Set(key string, v Value) ChangeKind {
	if v.IsNone() {
		if _, ok := a.Remove(key); ok {
			return AttributeRemoved
		}
		return 0
	}
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	old, exists := a.values[key]
	a.values[key] = v
	kind := AttributeAdded
	if exists {
		kind = AttributeChanged
	}
	a.notify(key, kind, old, v)
	return kind
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Has reports whether key is present.
func (a *Attributes) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// Remove deletes key and returns its previous value.
func (a *Attributes) Remove(key string) (Value, bool) {
	old, ok := a.values[key]
	if !ok {
		return None, false
	}
	delete(a.values, key)
	a.notify(key, AttributeRemoved, old, None)
	return old, true
}

// Keys returns the attribute names in ascending order.
func (a *Attributes) Keys() []string {
	return slices.Sorted(maps.Keys(a.values))
}

// Len returns the number of attributes.
func (a *Attributes) Len() int { return len(a.values) }

// Clear removes every attribute, notifying the hook once per key in key order.
func (a *Attributes) Clear() {
	for _, k := range a.Keys() {
		a.Remove(k)
	}
}

// Snapshot returns a copy of the stored values.
func (a *Attributes) Snapshot() map[string]Value {
	return maps.Clone(a.values)
}

// reset drops every value without notifying.
func (a *Attributes) reset() { a.values = nil }

func (a *Attributes) notify(key string, kind ChangeKind, oldValue, newValue Value) {
	if a.hook != nil {
		a.hook(key, kind, oldValue, newValue)
	}
}
