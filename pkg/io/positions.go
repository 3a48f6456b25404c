package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

// Position attribute keys.
const (
	KeyX = "x"
	KeyY = "y"
	KeyZ = "z"
)

// PositionStats summarizes a position file load.
type PositionStats struct {
	// Mapped is the number of graph nodes that received coordinates.
	Mapped int
	// Unmapped is the number of graph nodes the file did not mention.
	Unmapped int
	// Unknown lists ids in the file that are not nodes of the graph.
	Unknown []string
}

// ReadPositions reads a position file from r and sets the x, y and, when
// present, z attributes of the nodes it names. Ids that are not in the graph
// are collected in [PositionStats.Unknown] rather than created.
func ReadPositions(r io.Reader, g *graph.Graph) (PositionStats, error) {
	var stats PositionStats
	mapped := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, coords, err := parsePosition(text)
		if err != nil {
			return stats, gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "line %d", line)
		}

		n := g.Node(id)
		if n == nil {
			stats.Unknown = append(stats.Unknown, id)
			continue
		}
		keys := []string{KeyX, KeyY, KeyZ}
		for i, c := range coords {
			if err := n.SetAttribute(keys[i], graph.Number(c)); err != nil {
				return stats, fmt.Errorf("node %s: %w", id, err)
			}
		}
		mapped[id] = true
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read positions: %w", err)
	}

	stats.Mapped = len(mapped)
	stats.Unmapped = g.NodeCount() - stats.Mapped
	if stats.Unmapped < 0 {
		stats.Unmapped = 0
	}
	return stats, nil
}

// ImportPositions reads the position file at path into g.
func ImportPositions(path string, g *graph.Graph) (PositionStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return PositionStats{}, gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadPositions(f, g)
}

// parsePosition splits "id: x y z" or "id x y [z]". The colon form applies
// only when the colon ends the id field, so ids may contain colons.
func parsePosition(line string) (string, []float64, error) {
	fields := strings.Fields(line)
	id, rest := fields[0], fields[1:]
	switch {
	case strings.HasSuffix(id, ":"):
		id = strings.TrimSuffix(id, ":")
	case len(rest) > 0 && rest[0] == ":":
		rest = rest[1:]
	case len(rest) > 0 && strings.HasPrefix(rest[0], ":"):
		rest = append([]string{strings.TrimPrefix(rest[0], ":")}, rest[1:]...)
	}
	if err := gserrors.ValidateID(id); err != nil {
		return "", nil, err
	}

	if len(rest) < 2 || len(rest) > 3 {
		return "", nil, fmt.Errorf("node %s: want 2 or 3 coordinates, got %d", id, len(rest))
	}
	coords := make([]float64, len(rest))
	for i, f := range rest {
		c, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", nil, fmt.Errorf("node %s: %w", id, err)
		}
		coords[i] = c
	}
	return id, coords, nil
}
