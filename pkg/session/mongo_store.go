package session

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultSessionCollection = "sessions"

// MongoStore implements Store on top of a MongoDB collection so that any
// number of application instances can share one session repository.
type MongoStore struct {
	coll        *mongo.Collection
	maxInactive time.Duration
}

// mongoSession is the persisted document shape. The inactivity timeout is
// stored in whole seconds; a negative value is the never-expire sentinel and
// such documents carry no expire_at field so the TTL index skips them.
type mongoSession struct {
	ID                 string         `bson:"_id"`
	Attributes         map[string]any `bson:"attributes"`
	CreatedAt          time.Time      `bson:"created_at"`
	LastAccessedAt     time.Time      `bson:"last_accessed_at"`
	MaxInactiveSeconds int64          `bson:"max_inactive_interval"`
	ExpiresAt          time.Time      `bson:"expire_at,omitempty"`
}

// NewMongoStore creates a MongoDB-backed session store using the "sessions"
// collection of the given database. New sessions get the given default
// inactivity timeout.
func NewMongoStore(db *mongo.Database, maxInactive time.Duration) *MongoStore {
	return &MongoStore{
		coll:        db.Collection(defaultSessionCollection),
		maxInactive: maxInactive,
	}
}

// EnsureIndexes creates the TTL index on expire_at. The index is the
// best-effort physical reaper; lazy expiry checks at read time remain the
// authoritative enforcement point.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expire_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Create allocates a new session and persists it immediately.
func (m *MongoStore) Create(ctx context.Context) (*Session, error) {
	sess := NewSession(m.maxInactive)

	if _, err := m.coll.InsertOne(ctx, toMongoSession(sess)); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	return sess, nil
}

// FindByID retrieves a live session by id. An expired document is reported
// as absent and deleted asynchronously.
func (m *MongoStore) FindByID(ctx context.Context, id string) (*Session, error) {
	var doc mongoSession
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}

	sess := fromMongoSession(doc)
	if sess.IsExpired() {
		// Lazy expiry: the record is observably absent already, physical
		// deletion happens off the request path.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, _ = m.coll.DeleteOne(ctx, bson.M{"_id": id})
		}()
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// Save upserts the full record by id, recomputing the expiry deadline first.
func (m *MongoStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidSession
	}

	sess.ExpiresAt = sess.expiryFrom(sess.LastAccessedAt)

	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": sess.ID},
		toMongoSession(sess),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// DeleteByID removes the record. Deleting an absent id is not an error.
func (m *MongoStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Touch updates the last accessed time and the derived expiry deadline in a
// single atomic pipeline update, so a concurrent delete of the document
// cannot slip between a read and a write.
func (m *MongoStore) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": id}, touchPipeline(at))
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// touchPipeline sets last_accessed_at unconditionally and recomputes
// expire_at from the stored inactivity interval server-side. Never-expire
// documents (negative interval) keep carrying no expire_at field.
func touchPipeline(at time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"last_accessed_at": at,
			"expire_at": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$max_inactive_interval", 0}},
				bson.M{"$add": bson.A{at, bson.M{"$multiply": bson.A{"$max_inactive_interval", 1000}}}},
				"$$REMOVE",
			}},
		}}},
	}
}

// DeleteExpired removes all documents whose expiry deadline has passed.
// It complements the TTL index for deployments where TTL monitor latency
// (up to a minute) matters.
func (m *MongoStore) DeleteExpired(ctx context.Context) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{
		"expire_at": bson.M{"$lte": time.Now(), "$exists": true},
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func toMongoSession(sess *Session) mongoSession {
	doc := mongoSession{
		ID:             sess.ID,
		Attributes:     sess.Attributes,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		ExpiresAt:      sess.ExpiresAt,
	}
	if sess.MaxInactiveInterval < 0 {
		doc.MaxInactiveSeconds = -1
		doc.ExpiresAt = time.Time{}
	} else {
		doc.MaxInactiveSeconds = int64(sess.MaxInactiveInterval / time.Second)
	}
	return doc
}

func fromMongoSession(doc mongoSession) *Session {
	maxInactive := time.Duration(doc.MaxInactiveSeconds) * time.Second
	if doc.MaxInactiveSeconds < 0 {
		maxInactive = -1
	}
	return &Session{
		ID:                  doc.ID,
		Attributes:          normalizeAttributes(doc.Attributes),
		CreatedAt:           doc.CreatedAt,
		LastAccessedAt:      doc.LastAccessedAt,
		MaxInactiveInterval: maxInactive,
		ExpiresAt:           doc.ExpiresAt,
	}
}

// normalizeAttributes strips BSON container types from decoded attribute
// values so storage internals never leak into the public record shape.
func normalizeAttributes(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalizeValue(e)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeValue(e)
		}
		return out
	case bson.DateTime:
		return val.Time()
	default:
		return v
	}
}
