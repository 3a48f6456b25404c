package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	gsio "github.com/matzehuels/graphstream/pkg/io"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed lists every attribute under the node label.
	// When false, only the label (or the id) is shown.
	Detailed bool

	// UsePositions pins nodes carrying numeric x and y attributes at those
	// coordinates and lays out with neato instead of dot.
	UsePositions bool
}

// ToDOT converts a graph snapshot to Graphviz DOT for node-link
// visualization. Directed edges are drawn with arrows, undirected edges
// without. A node's "label" attribute replaces its id as the displayed text.
func ToDOT(s *gsio.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.UsePositions {
		buf.WriteString("  layout=neato;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n.ID, n.Attributes, opts.Detailed))}
		if opts.UsePositions {
			if pos, ok := position(n.Attributes); ok {
				attrs = append(attrs, fmt.Sprintf("pos=%q", pos))
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		attrs := []string{fmt.Sprintf("id=%q", e.ID)}
		if !e.Directed {
			attrs = append(attrs, "dir=none")
		}
		if l, ok := e.Attributes["label"]; ok {
			attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprint(l)))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id string, attrs map[string]any, detailed bool) string {
	label := id
	if l, ok := attrs["label"]; ok {
		label = fmt.Sprint(l)
	}
	if !detailed || len(attrs) == 0 {
		return label
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		if k == "label" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, attrs[k]))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// position formats numeric x and y attributes as a pinned Graphviz position.
func position(attrs map[string]any) (string, bool) {
	x, okx := number(attrs[gsio.KeyX])
	y, oky := number(attrs[gsio.KeyY])
	if !okx || !oky {
		return "", false
	}
	return fmt.Sprintf("%s,%s!", strconv.FormatFloat(x, 'f', -1, 64), strconv.FormatFloat(y, 'f', -1, 64)), true
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
