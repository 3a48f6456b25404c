package graph

func (g *Graph) setAttribute(e *element, key string, v Value, o origin) error {
	if v.IsNone() && g.nullErrors {
		return errIllegalAttribute(e.id, key)
	}
	g.mu.Lock()
	e.attrs.Set(key, v)
	events := e.takePending(o)
	g.mu.Unlock()

	g.listeners.dispatch(events...)
	return nil
}

func (g *Graph) removeAttribute(e *element, key string, o origin) (Value, bool) {
	g.mu.Lock()
	old, ok := e.attrs.Remove(key)
	events := e.takePending(o)
	g.mu.Unlock()

	g.listeners.dispatch(events...)
	return old, ok
}

func (g *Graph) clearAttributes(e *element) {
	g.mu.Lock()
	e.attrs.Clear()
	events := e.takePending(origin{})
	g.mu.Unlock()

	g.listeners.dispatch(events...)
}

// StepBegins emits a STEP event carrying step. It marks the start of a new
// frame of the dynamic graph and does not change the structure.
func (g *Graph) StepBegins(step float64) {
	g.stepBegins(step, origin{})
}

func (g *Graph) stepBegins(step float64, o origin) {
	g.mu.Lock()
	g.step = step
	ev := g.event(StepBegun, ElementGraph, "", o)
	ev.Step = step
	g.mu.Unlock()

	g.listeners.dispatch(ev)
}

// Clear removes every node, edge and graph attribute and emits a single
// GRAPH_CLEARED. No per-element events are emitted. Listener registrations
// and the event counter survive.
func (g *Graph) Clear() {
	g.clear(origin{})
}

func (g *Graph) clear(o origin) {
	g.mu.Lock()
	for _, n := range g.nodes {
		b := n.nodeBase()
		b.attached = false
		b.edges = nil
	}
	for _, e := range g.edges {
		e.edgeBase().attached = false
	}
	g.nodes = make(map[string]Node)
	g.edges = make(map[string]Edge)
	g.attrs.reset()
	ev := g.event(GraphCleared, ElementGraph, "", o)
	g.mu.Unlock()

	g.listeners.dispatch(ev)
}
