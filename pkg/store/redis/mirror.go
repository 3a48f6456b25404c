package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/observability"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// Mirror is a [graph.Listener] writing every event it receives to Redis.
// Each event is one MULTI/EXEC transaction.
//
// Listener callbacks cannot return errors, so the first failure is logged and
// kept for [Mirror.Err]; later events are dropped to keep the mirror from
// diverging silently.
type Mirror struct {
	graph.EventFunc

	store *Store
	keys  keyspace
	ctx   context.Context

	mu  sync.Mutex
	n   int
	err error
}

// Mirror returns a listener mirroring events under graphID. ctx bounds every
// Redis call the mirror makes.
func (s *Store) Mirror(ctx context.Context, graphID string) *Mirror {
	m := &Mirror{store: s, keys: s.keys(graphID), ctx: ctx}
	m.EventFunc = m.Write
	return m
}

// Write mirrors one event.
func (m *Mirror) Write(e graph.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return
	}

	start := time.Now()
	err := m.write(e)
	observability.Store().OnStoreOp(m.ctx, "redis", e.Kind.String(), time.Since(start), err)
	if err != nil {
		m.err = fmt.Errorf("mirror %s: %w", e, err)
		m.store.logger.Error("redis mirror stopped", "event", e.String(), "err", err)
		return
	}
	m.n++
}

func (m *Mirror) write(e graph.Event) error {
	rec, err := json.Marshal(stream.FromEvent(e))
	if err != nil {
		return err
	}

	var cleared []string
	if e.Kind == graph.GraphCleared {
		if cleared, err = m.store.stateKeys(m.ctx, m.keys); err != nil {
			return err
		}
	}

	k := m.keys
	_, err = m.store.client.TxPipelined(m.ctx, func(p redis.Pipeliner) error {
		ctx := m.ctx
		p.RPush(ctx, k.events(), rec)
		switch e.Kind {
		case graph.NodeAdded:
			p.SAdd(ctx, k.nodes(), e.ElementID)
		case graph.NodeRemoved:
			p.SRem(ctx, k.nodes(), e.ElementID)
			p.Del(ctx, k.node(e.ElementID))
		case graph.EdgeAdded:
			p.SAdd(ctx, k.edges(), e.ElementID)
			p.HSet(ctx, k.edge(e.ElementID),
				"from", e.From,
				"to", e.To,
				"directed", strconv.FormatBool(e.Directed))
		case graph.EdgeRemoved:
			p.SRem(ctx, k.edges(), e.ElementID)
			p.Del(ctx, k.edge(e.ElementID), k.edgeAttrs(e.ElementID))
		case graph.StepBegun:
			p.Set(ctx, k.step(), strconv.FormatFloat(e.Step, 'g', -1, 64), 0)
		case graph.GraphCleared:
			p.Del(ctx, cleared...)
		case graph.AttributeChangedEvent:
			key := k.attrs(e.ElementType, e.ElementID)
			if e.Change == graph.AttributeRemoved {
				p.HDel(ctx, key, e.Key)
				break
			}
			data, err := json.Marshal(e.NewValue)
			if err != nil {
				return err
			}
			p.HSet(ctx, key, e.Key, data)
		}
		return nil
	})
	return err
}

// Count returns the number of events mirrored.
func (m *Mirror) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

// Err returns the failure that stopped the mirror, if any.
func (m *Mirror) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

var _ graph.Listener = (*Mirror)(nil)
