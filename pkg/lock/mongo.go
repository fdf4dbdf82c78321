package lock

import (
	"context"
	"fmt"
	"time"

	"deskly/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// MongoLocker keeps one document per held key. The unique _id makes a
// second insert fail while the lock is held; a TTL index on expires_at
// eventually removes abandoned locks and expired ones are also taken over
// on contention.
type MongoLocker struct {
	collection *mongo.Collection
	opts       Options
	now        func() time.Time
}

func NewMongoLocker(db *mongo.Database, opts Options) *MongoLocker {
	return &MongoLocker{
		collection: db.Collection(LockCollectionName),
		opts:       opts,
		now:        time.Now,
	}
}

func (l *MongoLocker) Acquire(ctx context.Context, key string) (Release, error) {
	return acquire(ctx, "mongo", l.opts, func(ctx context.Context) (Release, error) {
		return l.tryAcquire(ctx, key)
	})
}

func (l *MongoLocker) tryAcquire(ctx context.Context, key string) (Release, error) {
	now := l.now().UTC()
	doc := model.BookingLock{
		ID:        key,
		Owner:     uuid.NewString(),
		ExpiresAt: now.Add(l.opts.TTL),
		CreatedAt: now,
	}

	_, err := l.collection.InsertOne(ctx, doc)
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("insert lock %s: %w", key, err)
		}
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": key, "expires_at": bson.M{"$lt": now}}); err != nil {
			return nil, fmt.Errorf("clear expired lock %s: %w", key, err)
		}
		return nil, ErrHeld
	}

	return func(ctx context.Context) error {
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": key, "owner": doc.Owner}); err != nil {
			return fmt.Errorf("delete lock %s: %w", key, err)
		}
		return nil
	}, nil
}
