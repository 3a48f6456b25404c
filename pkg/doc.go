// Package pkg provides the core libraries for GraphStream dynamic graphs.
//
// # Overview
//
// GraphStream models graphs that change over time. Every mutation is an event
// with a source and an id, delivered synchronously to listeners, so a graph
// can be recorded, mirrored, replayed and rendered frame by frame. The pkg
// directory is organized into these areas:
//
//  1. [graph] - The dynamic graph: nodes, edges, attributes, listeners
//  2. [stream] - JSON Lines event logs, replay and STEP frames
//  3. [io] - Snapshots and position files
//  4. [render/nodelink] - DOT, SVG and PNG rendering with caching
//  5. [store] - Redis event mirror and MongoDB snapshot archive
//  6. [server] - Read-only HTTP API over a live graph
//  7. [cache], [config], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through GraphStream:
//
//	Event log (JSON Lines)
//	         ↓
//	    [stream] package (decode, replay, split into frames)
//	         ↓
//	    [graph] package (apply events, notify listeners)
//	         ↓                    ↘
//	    [io] snapshot        [store] mirror / archive
//	         ↓
//	    [render/nodelink] (DOT → SVG/PNG)
//
// # Quick Start
//
//	g := graph.New("roads")
//	g.AddListener(stream.NewWriter(os.Stdout))
//	g.AddNode("A")
//	g.AddNode("B")
//	g.AddEdge("AB", "A", "B", true)
//	g.StepBegins(1)
//
// For the command-line interface, see cmd/graphstream.
package pkg
