// Package mongo implements store.Gateway on MongoDB.
//
// Layouts live in the venueLayouts collection and weddings in weddings.
// A wedding's seating is stored as a flat object keyed by seat id:
//
//	seatingAssignments: { "<seatId>": { guestId, guestName }, ... }
//
// so that a save is a single $set of the whole map.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/seating"
	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/venue"
)

// Collection names.
const (
	LayoutsCollection  = "venueLayouts"
	WeddingsCollection = "weddings"
)

// ConnectTimeout bounds Connect's dial and ping.
const ConnectTimeout = 10 * time.Second

// Store is a MongoDB-backed gateway.
type Store struct {
	client   *mongo.Client
	layouts  *mongo.Collection
	weddings *mongo.Collection
}

// Connect dials uri, verifies the connection and ensures indexes on db.
func Connect(ctx context.Context, uri, db string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Persistence(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Persistence(err, "ping mongo")
	}

	s := New(client, client.Database(db))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. client may be nil, in which case
// Close does not disconnect.
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		layouts:  db.Collection(LayoutsCollection),
		weddings: db.Collection(WeddingsCollection),
	}
}

// EnsureIndexes creates the indexes the list queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.layouts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return errors.Persistence(err, "create layout indexes")
	}
	_, err = s.weddings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "selectedVenueLayoutId", Value: 1}},
	})
	return errors.Persistence(err, "create wedding indexes")
}

// ---------- Layouts ----------

func (s *Store) CreateLayout(ctx context.Context, l *venue.Layout) error {
	_, err := s.layouts.InsertOne(ctx, l)
	if mongo.IsDuplicateKeyError(err) {
		return errors.New(errors.ErrCodeInvalidInput, "layout %s already exists", l.ID)
	}
	return errors.Persistence(err, "insert layout %s", l.ID)
}

func (s *Store) GetLayout(ctx context.Context, id string) (*venue.Layout, error) {
	var l venue.Layout
	err := s.layouts.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("layout %s not found", id)
	}
	if err != nil {
		return nil, errors.Persistence(err, "read layout %s", id)
	}
	return &l, nil
}

func (s *Store) ListLayoutsByOwner(ctx context.Context, ownerID string) ([]venue.Layout, error) {
	return s.findLayouts(ctx, bson.M{"owner_id": ownerID})
}

func (s *Store) ListPublicLayouts(ctx context.Context) ([]venue.Layout, error) {
	return s.findLayouts(ctx, bson.M{"is_public": true})
}

func (s *Store) findLayouts(ctx context.Context, filter bson.M) ([]venue.Layout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.layouts.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Persistence(err, "list layouts")
	}
	var out []venue.Layout
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Persistence(err, "decode layouts")
	}
	return out, nil
}

func (s *Store) UpdateLayoutFields(ctx context.Context, id string, p venue.Patch) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range p.Fields() {
		set[k] = v
	}
	res, err := s.layouts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errors.Persistence(err, "update layout %s", id)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("layout %s not found", id)
	}
	return nil
}

func (s *Store) ReplaceLayout(ctx context.Context, l *venue.Layout) error {
	var existing struct {
		CreatedAt time.Time `bson:"created_at"`
	}
	err := s.layouts.FindOne(ctx, bson.M{"_id": l.ID},
		options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return errors.NotFound("layout %s not found", l.ID)
	}
	if err != nil {
		return errors.Persistence(err, "read layout %s", l.ID)
	}

	doc := l.Clone()
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()
	res, err := s.layouts.ReplaceOne(ctx, bson.M{"_id": l.ID}, doc)
	if err != nil {
		return errors.Persistence(err, "replace layout %s", l.ID)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("layout %s not found", l.ID)
	}
	return nil
}

// DeleteLayout removes the layout, then clears the selection of every
// wedding that used it. The two writes are not transactional; a crash in
// between leaves weddings pointing at a missing layout, which readers
// already treat as "no layout selected".
func (s *Store) DeleteLayout(ctx context.Context, id string) error {
	res, err := s.layouts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Persistence(err, "delete layout %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.NotFound("layout %s not found", id)
	}
	_, err = s.weddings.UpdateMany(ctx,
		bson.M{"selectedVenueLayoutId": id},
		bson.M{"$set": bson.M{
			"selectedVenueLayoutId": "",
			"seatingAssignments":    seating.Map{},
			"updated_at":            time.Now().UTC(),
		}})
	return errors.Persistence(err, "clear weddings using layout %s", id)
}

// ---------- Weddings ----------

func (s *Store) GetWedding(ctx context.Context, id string) (*store.Wedding, error) {
	var w store.Wedding
	err := s.weddings.FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("wedding %s not found", id)
	}
	if err != nil {
		return nil, errors.Persistence(err, "read wedding %s", id)
	}
	if w.Assignments == nil {
		w.Assignments = seating.Map{}
	}
	return &w, nil
}

func (s *Store) SaveWedding(ctx context.Context, w *store.Wedding) error {
	doc := w.Clone()
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	_, err := s.weddings.ReplaceOne(ctx, bson.M{"_id": w.ID}, doc, options.Replace().SetUpsert(true))
	return errors.Persistence(err, "save wedding %s", w.ID)
}

func (s *Store) SelectLayout(ctx context.Context, weddingID, layoutID string) error {
	return s.setWedding(ctx, weddingID, bson.M{
		"selectedVenueLayoutId": layoutID,
		"seatingAssignments":    seating.Map{},
	})
}

func (s *Store) SaveAssignments(ctx context.Context, weddingID string, m seating.Map, rev int64) error {
	if m == nil {
		m = seating.Map{}
	}
	return s.setWedding(ctx, weddingID, bson.M{
		"seatingAssignments": m,
		"seatingRevision":    rev,
	})
}

func (s *Store) setWedding(ctx context.Context, id string, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.weddings.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errors.Persistence(err, "update wedding %s", id)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("wedding %s not found", id)
	}
	return nil
}

// Close disconnects the client, if this store owns one.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Persistence(s.client.Disconnect(ctx), "disconnect mongo")
}

var _ store.Gateway = (*Store)(nil)
