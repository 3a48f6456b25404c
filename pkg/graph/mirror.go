package graph

import "sync"

// A Graph listening to another graph replays the events it receives, keeping
// the original source and event id so that chains and cycles of graphs stop
// propagating an event once every member has applied it. Events carrying the
// graph's own id, or an already applied (source, id) pair, are ignored.
//
// Failures while replaying never reach the sender; they are logged at debug
// level on the receiving graph's logger.

var _ Listener = (*Graph)(nil)

func (g *Graph) NodeAdded(sourceID string, eventID uint64, nodeID string) {
	o, ok := g.accept(sourceID, eventID)
	if !ok {
		return
	}
	if _, err := g.addNode(nodeID, o); err != nil {
		g.mirrorFailed("node added", nodeID, err)
	}
}

func (g *Graph) NodeRemoved(sourceID string, eventID uint64, nodeID string) {
	o, ok := g.accept(sourceID, eventID)
	if !ok {
		return
	}
	if _, err := g.removeNode(nodeID, o); err != nil {
		g.mirrorFailed("node removed", nodeID, err)
	}
}

func (g *Graph) EdgeAdded(sourceID string, eventID uint64, edgeID, fromID, toID string, directed bool) {
	o, ok := g.accept(sourceID, eventID)
	if !ok {
		return
	}
	if _, err := g.addEdge(edgeID, fromID, toID, directed, o); err != nil {
		g.mirrorFailed("edge added", edgeID, err)
	}
}

func (g *Graph) EdgeRemoved(sourceID string, eventID uint64, edgeID string) {
	o, ok := g.accept(sourceID, eventID)
	if !ok {
		return
	}
	if _, err := g.removeEdge(edgeID, o); err != nil {
		g.mirrorFailed("edge removed", edgeID, err)
	}
}

func (g *Graph) StepBegun(sourceID string, eventID uint64, step float64) {
	if o, ok := g.accept(sourceID, eventID); ok {
		g.stepBegins(step, o)
	}
}

func (g *Graph) GraphCleared(sourceID string, eventID uint64) {
	if o, ok := g.accept(sourceID, eventID); ok {
		g.clear(o)
	}
}

func (g *Graph) AttributeChanged(sourceID string, eventID uint64, elementID string, elementType ElementType,
	key string, kind ChangeKind, _, newValue Value) {
	o, ok := g.accept(sourceID, eventID)
	if !ok {
		return
	}
	e := g.lookup(elementType, elementID)
	if e == nil {
		g.mirrorFailed("attribute changed", elementID, errNotFound(elementType, elementID))
		return
	}
	if kind == AttributeRemoved {
		g.removeAttribute(e, key, o)
		return
	}
	if err := g.setAttribute(e, key, newValue, o); err != nil {
		g.mirrorFailed("attribute changed", elementID, err)
	}
}

// accept reports whether an incoming event should be replayed, and returns
// the origin to stamp it with.
func (g *Graph) accept(sourceID string, eventID uint64) (origin, bool) {
	if sourceID == "" || sourceID == g.id {
		return origin{}, false
	}
	if !g.seen.check(sourceID, eventID) {
		return origin{}, false
	}
	return origin{source: sourceID, id: eventID}, true
}

// lookup resolves the element an attribute event refers to.
func (g *Graph) lookup(t ElementType, id string) *element {
	g.mu.RLock()
	defer g.mu.RUnlock()
	switch t {
	case ElementGraph:
		return &g.element
	case ElementNode:
		if n, ok := g.nodes[id]; ok {
			return &n.nodeBase().element
		}
	case ElementEdge:
		if e, ok := g.edges[id]; ok {
			return &e.edgeBase().element
		}
	}
	return nil
}

func (g *Graph) mirrorFailed(what, id string, err error) {
	g.logger.Debug("mirror: "+what+" not applied", "graph", g.id, "element", id, "err", err)
}

// seenWindow bounds how far below the newest id of a source an event may
// arrive and still be recognized as new.
const seenWindow = 1024

// seenEvents remembers recently applied (source, event id) pairs. Each source
// keeps its newest id and the ids within seenWindow of it; anything older is
// treated as already applied.
type seenEvents struct {
	mu      sync.Mutex
	sources map[string]*sourceWindow
}

type sourceWindow struct {
	max uint64
	ids map[uint64]struct{}
}

func newSeenEvents() *seenEvents {
	return &seenEvents{sources: make(map[string]*sourceWindow)}
}

// check records (source, id) and reports whether it was new.
func (s *seenEvents) check(source string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.sources[source]
	if !ok {
		w = &sourceWindow{ids: make(map[uint64]struct{})}
		s.sources[source] = w
	}
	if w.max > seenWindow && id < w.max-seenWindow {
		return false
	}
	if _, dup := w.ids[id]; dup {
		return false
	}
	w.ids[id] = struct{}{}
	if id > w.max {
		w.max = id
	}
	if len(w.ids) > 2*seenWindow {
		for old := range w.ids {
			if w.max > seenWindow && old < w.max-seenWindow {
				delete(w.ids, old)
			}
		}
	}
	return true
}
