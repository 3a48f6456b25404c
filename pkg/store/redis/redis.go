// Package redis mirrors graph events into Redis and rebuilds graphs from the
// mirror.
//
// A [Mirror] is a graph listener. Every event it receives is appended to an
// event list and applied to a set of state keys, so the mirror holds both the
// history and the current state of the graph:
//
//	{prefix}:{graph}:events          LIST of JSON event records
//	{prefix}:{graph}:nodes           SET of node ids
//	{prefix}:{graph}:edges           SET of edge ids
//	{prefix}:{graph}:node:{id}       HASH of node attributes
//	{prefix}:{graph}:edge:{id}       HASH with from, to and directed
//	{prefix}:{graph}:edge:{id}:attrs HASH of edge attributes
//	{prefix}:{graph}:attrs           HASH of graph attributes
//	{prefix}:{graph}:step            last STEP time
//
// Attribute values are stored as JSON. [Store.Load] rebuilds a graph from the
// state keys and [Store.Events] returns the history for replay.
package redis

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/graphstream/pkg/cache"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/observability"
)

// DefaultPrefix is the key prefix used unless [WithPrefix] is given.
const DefaultPrefix = "graphstream"

// Store gives access to the graphs mirrored in one Redis database.
type Store struct {
	client redis.UniversalClient
	prefix string
	logger *log.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for mirror failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps an existing client. Close closes the client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to addr, retrying the initial PING with backoff.
func Dial(ctx context.Context, addr, password string, db int, opts ...Option) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	err := cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, "connect to redis at %s", addr)
	}
	return New(client, opts...), nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Delete removes everything mirrored for graphID.
func (s *Store) Delete(ctx context.Context, graphID string) error {
	k := s.keys(graphID)
	start := time.Now()
	keys, err := s.stateKeys(ctx, k)
	if err == nil {
		keys = append(keys, k.events())
		err = s.client.Del(ctx, keys...).Err()
	}
	observability.Store().OnStoreOp(ctx, "redis", "delete", time.Since(start), err)
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeBackend, err, "delete graph %s", graphID)
	}
	return nil
}

// stateKeys lists every state key of k, excluding the event list.
func (s *Store) stateKeys(ctx context.Context, k keyspace) ([]string, error) {
	nodes, err := s.client.SMembers(ctx, k.nodes()).Result()
	if err != nil {
		return nil, err
	}
	edges, err := s.client.SMembers(ctx, k.edges()).Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(nodes)+2*len(edges)+4)
	keys = append(keys, k.nodes(), k.edges(), k.graphAttrs(), k.step())
	for _, id := range nodes {
		keys = append(keys, k.node(id))
	}
	for _, id := range edges {
		keys = append(keys, k.edge(id), k.edgeAttrs(id))
	}
	return keys, nil
}

func (s *Store) keys(graphID string) keyspace {
	return keyspace(s.prefix + ":" + graphID)
}
