package graph

// AddNode creates and registers a node, then emits NODE_ADDED.
//
// If the id is taken, strict checking fails with ErrElementExists; otherwise
// the existing node is returned and no event is emitted. A misbehaving node
// factory fails with ErrClassMismatch regardless of policy.
func (g *Graph) AddNode(id string) (Node, error) {
	return g.addNode(id, origin{})
}

func (g *Graph) addNode(id string, o origin) (Node, error) {
	if n, err := g.existingNode(id); n != nil || err != nil {
		return n, err
	}

	n, err := g.newNode(id)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	if _, taken := g.nodes[id]; taken {
		// Lost a race with another writer; apply the duplicate policy.
		g.mu.Unlock()
		return g.existingNode(id)
	}
	b := n.nodeBase()
	if b.attached {
		g.mu.Unlock()
		return nil, errClassMismatch("node %q is already registered", id)
	}
	b.attached = true
	g.nodes[id] = n
	ev := g.event(NodeAdded, ElementNode, id, o)
	g.mu.Unlock()

	g.listeners.dispatch(ev)
	return n, nil
}

// existingNode applies the duplicate-id policy when id is present. It returns
// nil, nil when id is free.
func (g *Graph) existingNode(id string) (Node, error) {
	g.mu.RLock()
	n, ok := g.nodes[id]
	strict := g.strict
	g.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if strict {
		return nil, errExists(ElementNode, id)
	}
	g.logger.Debug("node already exists", "graph", g.id, "node", id)
	return n, nil
}

// RemoveNode removes a node and its incident edges. Each incident edge emits
// EDGE_REMOVED before the node's NODE_REMOVED.
//
// If the node is absent, strict checking fails with ErrElementNotFound;
// otherwise nil is returned and no event is emitted.
func (g *Graph) RemoveNode(id string) (Node, error) {
	return g.removeNode(id, origin{})
}

func (g *Graph) removeNode(id string, o origin) (Node, error) {
	var target *BaseNode
	var removed Node
	for {
		g.mu.Lock()
		n, ok := g.nodes[id]
		if !ok || (target != nil && n.nodeBase() != target) {
			strict := g.strict
			g.mu.Unlock()
			if removed != nil {
				// Removed by another writer while cascading.
				return removed, nil
			}
			if strict {
				return nil, errNotFound(ElementNode, id)
			}
			g.logger.Debug("node not found", "graph", g.id, "node", id)
			return nil, nil
		}
		removed, target = n, n.nodeBase()

		// The incidence list is re-read on every pass, so edges attached
		// concurrently are removed as well.
		if len(target.edges) > 0 {
			e, ok := g.edges[target.edges[0]]
			if !ok {
				target.edges = target.edges[1:]
				g.mu.Unlock()
				continue
			}
			ev := g.unlinkEdgeLocked(e, origin{})
			g.mu.Unlock()
			g.listeners.dispatch(ev)
			continue
		}

		target.attached = false
		delete(g.nodes, id)
		ev := g.event(NodeRemoved, ElementNode, id, o)
		g.mu.Unlock()

		g.listeners.dispatch(ev)
		return removed, nil
	}
}
