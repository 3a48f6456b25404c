// Package nodelink renders graph snapshots as node-link diagrams.
//
// # Usage
//
// Capture the graph, convert the snapshot to DOT, then render:
//
//	dot := nodelink.ToDOT(io.Capture(g), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering a dynamic graph frame by frame means capturing a snapshot after
// each STEP; the DOT text is deterministic for equal snapshots, which lets
// callers cache rendered output by DOT hash.
//
// A [Renderer] wraps these steps and keeps SVG and PNG output in a cache
// keyed by the DOT hash and the options.
//
// # Options
//
//   - Detailed: list all attributes under the node label
//   - UsePositions: pin nodes at their x, y attributes (see io.ImportPositions)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and PNG
// rendering.
package nodelink
