package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/observability"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// Load adds the mirrored state of graphID to g: graph attributes, then nodes,
// then edges, each in id order, and finally the last step if one was seen.
// It returns a NOT_FOUND error when nothing is mirrored under
// graphID.
func (s *Store) Load(ctx context.Context, graphID string, g *graph.Graph) (err error) {
	start := time.Now()
	defer func() {
		observability.Store().OnStoreOp(ctx, "redis", "load", time.Since(start), err)
	}()

	k := s.keys(graphID)
	n, err := s.client.Exists(ctx, k.events()).Result()
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeBackend, err, "load graph %s", graphID)
	}
	if n == 0 {
		return gserrors.New(gserrors.ErrCodeNotFound, "graph %s is not mirrored", graphID)
	}

	if err := s.loadAttributes(ctx, k.graphAttrs(), g); err != nil {
		return err
	}

	nodes, err := s.members(ctx, k.nodes())
	if err != nil {
		return err
	}
	for _, id := range nodes {
		node, err := g.AddNode(id)
		if err != nil {
			return err
		}
		if node == nil {
			continue
		}
		if err := s.loadAttributes(ctx, k.node(id), node); err != nil {
			return err
		}
	}

	edges, err := s.members(ctx, k.edges())
	if err != nil {
		return err
	}
	for _, id := range edges {
		fields, err := s.client.HGetAll(ctx, k.edge(id)).Result()
		if err != nil {
			return gserrors.Wrap(gserrors.ErrCodeBackend, err, "edge %s", id)
		}
		directed, _ := strconv.ParseBool(fields["directed"])
		edge, err := g.AddEdge(id, fields["from"], fields["to"], directed)
		if err != nil {
			return err
		}
		if edge == nil {
			continue
		}
		if err := s.loadAttributes(ctx, k.edgeAttrs(id), edge); err != nil {
			return err
		}
	}

	step, err := s.client.Get(ctx, k.step()).Float64()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return gserrors.Wrap(gserrors.ErrCodeBackend, err, "step of %s", graphID)
	default:
		g.StepBegins(step)
	}
	return nil
}

// Events returns the mirrored history of graphID in the order it was written.
func (s *Store) Events(ctx context.Context, graphID string) (events []graph.Event, err error) {
	start := time.Now()
	defer func() {
		observability.Store().OnStoreOp(ctx, "redis", "events", time.Since(start), err)
	}()

	raw, err := s.client.LRange(ctx, s.keys(graphID).events(), 0, -1).Result()
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, "events of %s", graphID)
	}
	events = make([]graph.Event, 0, len(raw))
	for i, line := range raw {
		var rec stream.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "event %d of %s", i, graphID)
		}
		e, err := rec.Event()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *Store) members(ctx context.Context, key string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, "read %s", key)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) loadAttributes(ctx context.Context, key string, el graph.Element) error {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeBackend, err, "read %s", key)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		v, err := decodeValue(fields[name])
		if err != nil {
			return gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "attribute %s of %s", name, key)
		}
		if err := el.SetAttribute(name, v); err != nil {
			return err
		}
	}
	return nil
}

func decodeValue(s string) (graph.Value, error) {
	var v graph.Value
	err := json.Unmarshal([]byte(s), &v)
	return v, err
}
