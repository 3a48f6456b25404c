// Package stream records graph events as a JSON Lines log and plays logs
// back into graphs.
//
// Each line of a log is one [Record]:
//
//	{"kind":"NODE_ADDED","source":"g","id":1,"type":"node","element":"A"}
//	{"kind":"EDGE_ADDED","source":"g","id":3,"type":"edge","element":"e","from":"A","to":"B","directed":true}
//	{"kind":"ATTRIBUTE_CHANGED","source":"g","id":4,"type":"node","element":"A","key":"x","change":"ADD","new":1}
//	{"kind":"STEP","source":"g","id":5,"step":1}
//
// A [Writer] is a graph listener appending every event it receives. A
// [Reader] decodes a log, [Replay] applies it to a graph through the public
// mutation API, and [SplitFrames] cuts it into the frames delimited by STEP
// events.
package stream

import (
	"fmt"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

// Record is the JSON form of one event.
type Record struct {
	Kind     string       `json:"kind"`
	Source   string       `json:"source"`
	ID       uint64       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Element  string       `json:"element,omitempty"`
	From     string       `json:"from,omitempty"`
	To       string       `json:"to,omitempty"`
	Directed bool         `json:"directed,omitempty"`
	Step     *float64     `json:"step,omitempty"`
	Key      string       `json:"key,omitempty"`
	Change   string       `json:"change,omitempty"`
	Old      *graph.Value `json:"old,omitempty"`
	New      *graph.Value `json:"new,omitempty"`
}

var elementTypes = map[string]graph.ElementType{
	graph.ElementGraph.String(): graph.ElementGraph,
	graph.ElementNode.String():  graph.ElementNode,
	graph.ElementEdge.String():  graph.ElementEdge,
}

var changeKinds = map[string]graph.ChangeKind{
	graph.AttributeAdded.String():   graph.AttributeAdded,
	graph.AttributeChanged.String(): graph.AttributeChanged,
	graph.AttributeRemoved.String(): graph.AttributeRemoved,
}

// FromEvent converts e to its record.
func FromEvent(e graph.Event) Record {
	r := Record{
		Kind:   e.Kind.String(),
		Source: e.SourceID,
		ID:     e.EventID,
	}
	switch e.Kind {
	case graph.NodeAdded, graph.NodeRemoved, graph.EdgeRemoved:
		r.Type, r.Element = e.ElementType.String(), e.ElementID
	case graph.EdgeAdded:
		r.Type, r.Element = e.ElementType.String(), e.ElementID
		r.From, r.To, r.Directed = e.From, e.To, e.Directed
	case graph.AttributeChangedEvent:
		r.Type, r.Element = e.ElementType.String(), e.ElementID
		r.Key, r.Change = e.Key, e.Change.String()
		r.Old, r.New = optional(e.OldValue), optional(e.NewValue)
	case graph.StepBegun:
		step := e.Step
		r.Step = &step
	}
	return r
}

// Event converts r back to an event.
func (r Record) Event() (graph.Event, error) {
	kind, ok := graph.ParseEventKind(r.Kind)
	if !ok {
		return graph.Event{}, gserrors.New(gserrors.ErrCodeInvalidFormat, "unknown event kind %q", r.Kind)
	}
	e := graph.Event{
		Kind:      kind,
		SourceID:  r.Source,
		EventID:   r.ID,
		ElementID: r.Element,
		From:      r.From,
		To:        r.To,
		Directed:  r.Directed,
		Key:       r.Key,
	}
	if r.Type != "" {
		t, ok := elementTypes[r.Type]
		if !ok {
			return graph.Event{}, gserrors.New(gserrors.ErrCodeInvalidFormat, "unknown element type %q", r.Type)
		}
		e.ElementType = t
	}
	if r.Step != nil {
		e.Step = *r.Step
	}
	if r.Old != nil {
		e.OldValue = *r.Old
	}
	if r.New != nil {
		e.NewValue = *r.New
	}

	switch kind {
	case graph.AttributeChangedEvent:
		c, ok := changeKinds[r.Change]
		if !ok {
			return graph.Event{}, gserrors.New(gserrors.ErrCodeInvalidFormat, "unknown attribute change %q", r.Change)
		}
		e.Change = c
		if err := gserrors.ValidateAttributeKey(r.Key); err != nil {
			return graph.Event{}, gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "%s", r.Kind)
		}
	case graph.NodeAdded, graph.NodeRemoved, graph.EdgeRemoved:
		if err := gserrors.ValidateID(r.Element); err != nil {
			return graph.Event{}, gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "%s element", r.Kind)
		}
	case graph.EdgeAdded:
		for _, id := range []string{r.Element, r.From, r.To} {
			if err := gserrors.ValidateID(id); err != nil {
				return graph.Event{}, gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "%s %q", r.Kind, r.Element)
			}
		}
	case graph.StepBegun:
		if r.Step == nil {
			return graph.Event{}, gserrors.New(gserrors.ErrCodeInvalidFormat, "STEP without step")
		}
	}
	return e, nil
}

func (r Record) String() string {
	return fmt.Sprintf("%s#%d %s", r.Source, r.ID, r.Kind)
}

func optional(v graph.Value) *graph.Value {
	if v.IsNone() {
		return nil
	}
	return &v
}
