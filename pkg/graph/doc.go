// Package graph implements GraphStream's in-memory dynamic graph.
//
// A [Graph] owns a registry of [Node] and [Edge] elements, each carrying a set
// of typed attributes. Every mutation is stamped with a monotonically
// increasing event id and pushed, synchronously and in registration order, to
// the graph's listeners. Listeners are how algorithms, viewers, writers and
// other graphs observe a graph as it changes over time.
//
// # Profiles
//
// Two scheduling profiles share one implementation:
//
//	g := graph.New("g")            // single-threaded, no locking
//	c := graph.NewConcurrent("c")  // shared mutation, readers never see torn state
//
// The concurrent profile guards the registries and incidence lists with a
// read/write lock and issues event ids from an atomic counter. Listener
// callbacks always run outside the lock, so a listener may query the graph it
// is observing. On a concurrent graph listeners may be called from several
// goroutines at once and must be safe for that.
//
// # Policies
//
// Strict checking turns duplicate or missing ids into errors; without it the
// same conditions degrade to a nil result and no event, so bulk loaders can
// proceed past isolated bad input. Auto-creation lets [Graph.AddEdge] create
// missing endpoints. Multigraph mode permits parallel edges.
//
//	g := graph.New("g", graph.WithStrictChecking(false), graph.WithAutoCreate(true))
//	g.AddEdge("e1", "X", "Y", false) // NODE_ADDED X, NODE_ADDED Y, EDGE_ADDED e1
//
// # Events
//
// Listeners come in two channels: [ElementListener] receives structural and
// step events, [AttributeListener] receives attribute changes. [Listener] is
// both. [EventFunc] adapts a single function receiving [Event] values.
//
// Every callback carries the id of the graph that originated the change and
// its event id. A [Graph] is itself a [Listener]: registering one graph on
// another mirrors it, and the (source id, event id) pair lets chains of graphs
// drop changes they have already applied.
//
// # Conventions
//
//   - Event ids start at 1 and never repeat within a graph instance.
//   - A loop edge appears once in its node's incident set and counts once
//     toward [Node.Degree].
//   - Removing a node removes its incident edges first, one EDGE_REMOVED per
//     edge, before NODE_REMOVED.
//   - [Graph.Clear] emits a single GRAPH_CLEARED and no per-element events.
//   - Listeners are notified after the structure has changed.
package graph
