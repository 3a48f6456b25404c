// Package mongo archives graph snapshots in MongoDB.
//
// Each document is one [gsio.Snapshot] keyed by graph id and step, so a
// dynamic graph can be archived once per STEP frame and any frame restored
// later without replaying the event log.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/graphstream/pkg/cache"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	gsio "github.com/matzehuels/graphstream/pkg/io"
	"github.com/matzehuels/graphstream/pkg/observability"
)

// DefaultCollection is the collection used by [Connect].
const DefaultCollection = "snapshots"

// Archive stores snapshots in one collection.
type Archive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// document is the stored form of a snapshot.
type document struct {
	gsio.Snapshot `bson:",inline"`

	EventID int64     `bson:"event_id"`
	SavedAt time.Time `bson:"saved_at"`
}

// Connect opens uri, verifies it with a ping and returns the archive in
// database. Embedded attribute documents decode as maps.
func Connect(ctx context.Context, uri, database string) (*Archive, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	var client *mongo.Client
	err := cache.RetryWithBackoff(ctx, func() error {
		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(ctx)
			return cache.Retryable(err)
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, "connect to mongo")
	}

	a := NewArchive(client.Database(database).Collection(DefaultCollection))
	a.client = client
	if err := a.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return a, nil
}

// NewArchive wraps an existing collection. Close is a no-op for archives
// created this way.
func NewArchive(coll *mongo.Collection) *Archive {
	return &Archive{coll: coll}
}

// EnsureIndexes creates the unique (graph_id, step) index.
func (a *Archive) EnsureIndexes(ctx context.Context) error {
	_, err := a.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "graph_id", Value: 1}, {Key: "step", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeBackend, err, "create snapshot index")
	}
	return nil
}

// Save stores s, replacing an earlier snapshot of the same graph and step.
// eventID is the graph's last event id when s was captured.
func (a *Archive) Save(ctx context.Context, s *gsio.Snapshot, eventID uint64) (err error) {
	defer track(ctx, "save", time.Now(), &err)

	doc := document{Snapshot: *s, EventID: int64(eventID), SavedAt: time.Now().UTC()}
	_, err = a.coll.ReplaceOne(ctx,
		bson.D{{Key: "graph_id", Value: s.ID}, {Key: "step", Value: s.Step}},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeBackend, err, "save snapshot %s@%g", s.ID, s.Step)
	}
	return nil
}

// Load returns the snapshot of graphID at step.
func (a *Archive) Load(ctx context.Context, graphID string, step float64) (s *gsio.Snapshot, err error) {
	defer track(ctx, "load", time.Now(), &err)
	return a.findOne(ctx,
		bson.D{{Key: "graph_id", Value: graphID}, {Key: "step", Value: step}},
		options.FindOne(),
		"snapshot %s@%g", graphID, step)
}

// Latest returns the snapshot of graphID with the highest step.
func (a *Archive) Latest(ctx context.Context, graphID string) (s *gsio.Snapshot, err error) {
	defer track(ctx, "latest", time.Now(), &err)
	return a.findOne(ctx,
		bson.D{{Key: "graph_id", Value: graphID}},
		options.FindOne().SetSort(bson.D{{Key: "step", Value: -1}}),
		"latest snapshot of %s", graphID)
}

func (a *Archive) findOne(ctx context.Context, filter bson.D, opts *options.FindOneOptions, format string, args ...any) (*gsio.Snapshot, error) {
	var doc document
	err := a.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, gserrors.New(gserrors.ErrCodeNotFound, format, args...)
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, format, args...)
	}
	return &doc.Snapshot, nil
}

// Steps lists the archived steps of graphID in ascending order.
func (a *Archive) Steps(ctx context.Context, graphID string) (steps []float64, err error) {
	defer track(ctx, "steps", time.Now(), &err)

	cur, err := a.coll.Find(ctx,
		bson.D{{Key: "graph_id", Value: graphID}},
		options.Find().
			SetSort(bson.D{{Key: "step", Value: 1}}).
			SetProjection(bson.D{{Key: "step", Value: 1}}))
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, "list steps of %s", graphID)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			Step float64 `bson:"step"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, "decode step")
		}
		steps = append(steps, row.Step)
	}
	if err := cur.Err(); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeBackend, err, "list steps of %s", graphID)
	}
	return steps, nil
}

// Delete removes every snapshot of graphID and returns how many were removed.
func (a *Archive) Delete(ctx context.Context, graphID string) (n int64, err error) {
	defer track(ctx, "delete", time.Now(), &err)

	res, err := a.coll.DeleteMany(ctx, bson.D{{Key: "graph_id", Value: graphID}})
	if err != nil {
		return 0, gserrors.Wrap(gserrors.ErrCodeBackend, err, "delete snapshots of %s", graphID)
	}
	return res.DeletedCount, nil
}

// Close disconnects a client opened by [Connect].
func (a *Archive) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func track(ctx context.Context, op string, start time.Time, err *error) {
	observability.Store().OnStoreOp(ctx, "mongo", op, time.Since(start), *err)
}
