package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

// DecodeSnapshot reads one JSON snapshot from r. Numbers keep their exact
// textual form until they are converted to attribute values.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	return &s, nil
}

// ReadJSON decodes a JSON snapshot from r into a new graph built with opts.
//
// Errors are wrapped with context describing which node or edge caused the
// problem; graph errors such as [graph.ErrElementExists] remain reachable
// with errors.Is. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...graph.Option) (*graph.Graph, error) {
	s, err := DecodeSnapshot(r)
	if err != nil {
		return nil, err
	}
	return s.Build(opts...)
}

// ImportJSON reads a JSON snapshot file at path into a new graph.
func ImportJSON(path string, opts ...graph.Option) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, opts...)
}
