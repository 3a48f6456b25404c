package graph

import "fmt"

// ElementType identifies the element an event or attribute belongs to.
type ElementType uint8

const (
	ElementGraph ElementType = iota
	ElementNode
	ElementEdge
)

func (t ElementType) String() string {
	switch t {
	case ElementGraph:
		return "graph"
	case ElementNode:
		return "node"
	case ElementEdge:
		return "edge"
	}
	return "unknown"
}

// EventKind names the change an [Event] describes.
type EventKind uint8

const (
	NodeAdded EventKind = iota + 1
	NodeRemoved
	EdgeAdded
	EdgeRemoved
	AttributeChangedEvent
	StepBegun
	GraphCleared
)

var eventKindNames = map[EventKind]string{
	NodeAdded:             "NODE_ADDED",
	NodeRemoved:           "NODE_REMOVED",
	EdgeAdded:             "EDGE_ADDED",
	EdgeRemoved:           "EDGE_REMOVED",
	AttributeChangedEvent: "ATTRIBUTE_CHANGED",
	StepBegun:             "STEP",
	GraphCleared:          "GRAPH_CLEARED",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EVENT(%d)", uint8(k))
}

// ParseEventKind is the inverse of [EventKind.String].
func ParseEventKind(s string) (EventKind, bool) {
	for k, name := range eventKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Event is the value form of a listener callback. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind     EventKind
	SourceID string
	EventID  uint64

	// ElementType and ElementID identify the subject of node, edge and
	// attribute events.
	ElementType ElementType
	ElementID   string

	// From, To and Directed describe an added edge.
	From     string
	To       string
	Directed bool

	// Step is the time of a STEP event.
	Step float64

	// Key, Change, OldValue and NewValue describe an attribute change.
	Key      string
	Change   ChangeKind
	OldValue Value
	NewValue Value
}

func (e Event) String() string {
	switch e.Kind {
	case EdgeAdded:
		arrow := "--"
		if e.Directed {
			arrow = "->"
		}
		return fmt.Sprintf("%s#%d %s %s[%s%s%s]", e.SourceID, e.EventID, e.Kind, e.ElementID, e.From, arrow, e.To)
	case AttributeChangedEvent:
		return fmt.Sprintf("%s#%d %s %s %q %s %s", e.SourceID, e.EventID, e.Change, e.ElementType, e.ElementID, e.Key, e.NewValue)
	case StepBegun:
		return fmt.Sprintf("%s#%d %s %g", e.SourceID, e.EventID, e.Kind, e.Step)
	case GraphCleared:
		return fmt.Sprintf("%s#%d %s", e.SourceID, e.EventID, e.Kind)
	}
	return fmt.Sprintf("%s#%d %s %s", e.SourceID, e.EventID, e.Kind, e.ElementID)
}

// ElementListener receives structural changes and step markers.
type ElementListener interface {
	NodeAdded(sourceID string, eventID uint64, nodeID string)
	NodeRemoved(sourceID string, eventID uint64, nodeID string)
	EdgeAdded(sourceID string, eventID uint64, edgeID, fromID, toID string, directed bool)
	EdgeRemoved(sourceID string, eventID uint64, edgeID string)
	StepBegun(sourceID string, eventID uint64, step float64)
	GraphCleared(sourceID string, eventID uint64)
}

// AttributeListener receives attribute changes on the graph, its nodes and
// its edges.
type AttributeListener interface {
	AttributeChanged(sourceID string, eventID uint64, elementID string, elementType ElementType,
		key string, kind ChangeKind, oldValue, newValue Value)
}

// Listener receives every event a graph emits.
type Listener interface {
	ElementListener
	AttributeListener
}

// Apply delivers e to l through the matching callback.
func Apply(l Listener, e Event) {
	if e.Kind == AttributeChangedEvent {
		l.AttributeChanged(e.SourceID, e.EventID, e.ElementID, e.ElementType, e.Key, e.Change, e.OldValue, e.NewValue)
		return
	}
	applyElement(l, e)
}

func applyElement(l ElementListener, e Event) {
	switch e.Kind {
	case NodeAdded:
		l.NodeAdded(e.SourceID, e.EventID, e.ElementID)
	case NodeRemoved:
		l.NodeRemoved(e.SourceID, e.EventID, e.ElementID)
	case EdgeAdded:
		l.EdgeAdded(e.SourceID, e.EventID, e.ElementID, e.From, e.To, e.Directed)
	case EdgeRemoved:
		l.EdgeRemoved(e.SourceID, e.EventID, e.ElementID)
	case StepBegun:
		l.StepBegun(e.SourceID, e.EventID, e.Step)
	case GraphCleared:
		l.GraphCleared(e.SourceID, e.EventID)
	}
}

// EventFunc adapts a function to the [Listener] interface.
//
// Function listeners are matched by code pointer on removal: closures created
// from the same function literal cannot be told apart. Register a pointer
// type instead when several such listeners must be removed individually.
type EventFunc func(Event)

func (f EventFunc) NodeAdded(sourceID string, eventID uint64, nodeID string) {
	f(Event{Kind: NodeAdded, SourceID: sourceID, EventID: eventID, ElementType: ElementNode, ElementID: nodeID})
}

func (f EventFunc) NodeRemoved(sourceID string, eventID uint64, nodeID string) {
	f(Event{Kind: NodeRemoved, SourceID: sourceID, EventID: eventID, ElementType: ElementNode, ElementID: nodeID})
}

func (f EventFunc) EdgeAdded(sourceID string, eventID uint64, edgeID, fromID, toID string, directed bool) {
	f(Event{Kind: EdgeAdded, SourceID: sourceID, EventID: eventID, ElementType: ElementEdge, ElementID: edgeID,
		From: fromID, To: toID, Directed: directed})
}

func (f EventFunc) EdgeRemoved(sourceID string, eventID uint64, edgeID string) {
	f(Event{Kind: EdgeRemoved, SourceID: sourceID, EventID: eventID, ElementType: ElementEdge, ElementID: edgeID})
}

func (f EventFunc) StepBegun(sourceID string, eventID uint64, step float64) {
	f(Event{Kind: StepBegun, SourceID: sourceID, EventID: eventID, ElementType: ElementGraph, Step: step})
}

func (f EventFunc) GraphCleared(sourceID string, eventID uint64) {
	f(Event{Kind: GraphCleared, SourceID: sourceID, EventID: eventID, ElementType: ElementGraph})
}

func (f EventFunc) AttributeChanged(sourceID string, eventID uint64, elementID string, elementType ElementType,
	key string, kind ChangeKind, oldValue, newValue Value) {
	f(Event{Kind: AttributeChangedEvent, SourceID: sourceID, EventID: eventID, ElementType: elementType,
		ElementID: elementID, Key: key, Change: kind, OldValue: oldValue, NewValue: newValue})
}

// NopListener implements [Listener] with empty callbacks. Embed it to
// implement only the callbacks of interest.
type NopListener struct{}

func (NopListener) NodeAdded(string, uint64, string)                       {}
func (NopListener) NodeRemoved(string, uint64, string)                     {}
func (NopListener) EdgeAdded(string, uint64, string, string, string, bool) {}
func (NopListener) EdgeRemoved(string, uint64, string)                     {}
func (NopListener) StepBegun(string, uint64, float64)                      {}
func (NopListener) GraphCleared(string, uint64)                            {}
func (NopListener) AttributeChanged(string, uint64, string, ElementType, string, ChangeKind, Value, Value) {
}

var (
	_ Listener = EventFunc(nil)
	_ Listener = NopListener{}
)
