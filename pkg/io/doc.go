// Package io provides JSON snapshot import and export for graphs, and the
// position-file ingester.
//
// # Snapshot Format
//
// A snapshot captures the graph at one instant: its id, graph attributes,
// nodes and edges, each with their attributes:
//
//	{
//	  "id": "roads",
//	  "step": 3,
//	  "attributes": {"title": "France"},
//	  "nodes": [
//	    {"id": "Paris", "attributes": {"x": 2.35, "y": 48.85}},
//	    {"id": "Lyon"}
//	  ],
//	  "edges": [
//	    {"id": "A6", "from": "Paris", "to": "Lyon", "directed": false}
//	  ]
//	}
//
// Attribute values are plain JSON: numbers, strings, booleans, arrays and
// objects. Nodes and edges are written ordered by id, so exports of equal
// graphs are byte-identical.
//
// The same [Snapshot] struct carries bson tags and is stored as-is by the
// Mongo snapshot archive.
//
// # Import
//
// [ReadJSON] and [ImportJSON] build a new graph; [Snapshot.Restore] replays a
// snapshot into an existing graph through its public mutation API, so the
// target graph's listeners observe the load and its strict-checking policy
// decides how conflicts are handled.
//
// # Positions
//
// [ReadPositions] reads lines of the form
//
//	id: x y z
//	id x y
//
// and stores the coordinates as the "x", "y" and "z" attributes of existing
// nodes. Blank lines and lines starting with '#' are ignored.
package io
