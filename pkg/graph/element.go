package graph

import (
	"maps"
	"slices"
)

// Element is the behavior shared by graphs, nodes and edges: an immutable id
// and a set of attributes whose changes are reported to the graph listeners.
type Element interface {
	// ID returns the element identifier. It never changes.
	ID() string

	// Type reports whether this is the graph, a node or an edge.
	Type() ElementType

	Attribute(key string) (Value, bool)
	HasAttribute(key string) bool

	// SetAttribute stores v under key, emitting an ADD or CHANGE attribute
	// event. Storing [None] removes the key, unless the graph treats null
	// attributes as errors, in which case it fails with ErrIllegalAttribute.
	SetAttribute(key string, v Value) error

	// SetAttributes stores each entry converted with [ValueOf], in key order.
	SetAttributes(attrs map[string]any) error

	// RemoveAttribute deletes key and returns its previous value.
	RemoveAttribute(key string) (Value, bool)

	// ClearAttributes removes every attribute, one REMOVE event per key.
	ClearAttributes()

	AttributeKeys() []string
	AttributeCount() int

	// Attributes returns a copy of all attributes.
	Attributes() map[string]Value

	// Number returns a numeric attribute.
	Number(key string) (float64, bool)

	// Text returns a text attribute.
	Text(key string) (string, bool)

	// Label returns the "label" attribute formatted as text, or "".
	Label() string
}

// LabelKey is the conventional attribute holding an element's display label.
const LabelKey = "label"

// element implements Element for the graph, nodes and edges. The attribute
// store reports into pending; the owning graph stamps and dispatches those
// events once the mutation is complete.
type element struct {
	id  string
	typ ElementType
	g   *Graph

	attrs   Attributes
	pending []Event

	// attached is true while the element is registered; guarded by g.mu.
	attached bool
}

func (e *element) init(g *Graph, id string, typ ElementType) {
	e.id = id
	e.typ = typ
	e.g = g
	e.attrs.hook = e.recordChange
}

func (e *element) recordChange(key string, kind ChangeKind, oldValue, newValue Value) {
	e.pending = append(e.pending, Event{
		Kind:        AttributeChangedEvent,
		ElementType: e.typ,
		ElementID:   e.id,
		Key:         key,
		Change:      kind,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
}

func (e *element) ID() string        { return e.id }
func (e *element) Type() ElementType { return e.typ }

func (e *element) Attribute(key string) (Value, bool) {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.attrs.Get(key)
}

func (e *element) HasAttribute(key string) bool {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.attrs.Has(key)
}

func (e *element) SetAttribute(key string, v Value) error {
	return e.g.setAttribute(e, key, v, origin{})
}

func (e *element) SetAttributes(attrs map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		if err := e.SetAttribute(k, ValueOf(attrs[k])); err != nil {
			return err
		}
	}
	return nil
}

func (e *element) RemoveAttribute(key string) (Value, bool) {
	return e.g.removeAttribute(e, key, origin{})
}

func (e *element) ClearAttributes() {
	e.g.clearAttributes(e)
}

func (e *element) AttributeKeys() []string {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.attrs.Keys()
}

func (e *element) AttributeCount() int {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.attrs.Len()
}

func (e *element) Attributes() map[string]Value {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.attrs.Snapshot()
}

func (e *element) Number(key string) (float64, bool) {
	v, _ := e.Attribute(key)
	return v.Number()
}

func (e *element) Text(key string) (string, bool) {
	v, _ := e.Attribute(key)
	return v.Text()
}

func (e *element) Label() string {
	v, ok := e.Attribute(LabelKey)
	if !ok {
		return ""
	}
	return v.String()
}

// takePending hands the recorded attribute events to the caller, stamped with
// the origin, or drops them when the element is detached. Callers hold g.mu.
func (e *element) takePending(o origin) []Event {
	events := e.pending
	e.pending = nil
	if !e.attached {
		return nil
	}
	for i := range events {
		events[i].SourceID, events[i].EventID = e.g.stamp(o)
	}
	return events
}
