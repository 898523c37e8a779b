package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/subscriber-service/internal/domain"
	"github.com/spec-kit/subscriber-service/internal/schema"
	"github.com/spec-kit/subscriber-service/pkg/util"
)

// PreferenceRepository defines persistence access for subscriber preference
// documents. The user key is the primary key; its uniqueness is enforced by
// the collection's unique index, not by pre-checks in this layer.
type PreferenceRepository interface {
	ListUsers(ctx context.Context) ([]string, error)
	Create(ctx context.Context, user string) error
	Get(ctx context.Context, user string) (map[string]any, error)
	Replace(ctx context.Context, user string, sub, notif []string) error
	Delete(ctx context.Context, user string) error
	Exists(ctx context.Context, user string) (bool, error)
	FindSubscribers(ctx context.Context, topic, category string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type preferenceRepository struct {
	coll *mongo.Collection
}

// NewPreferenceRepository returns a MongoDB-backed implementation.
func NewPreferenceRepository(coll *mongo.Collection) PreferenceRepository {
	return &preferenceRepository{coll: coll}
}

// ListUsers returns every known user identifier. Full scan, unpaginated.
func (r *preferenceRepository) ListUsers(ctx context.Context) ([]string, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return collectUsers(ctx, cursor)
}

func (r *preferenceRepository) Create(ctx context.Context, user string) error {
	_, err := r.coll.InsertOne(ctx, domain.NewPreferences(user))
	if mongo.IsDuplicateKeyError(err) {
		return util.NewConflict("user already exists", map[string]any{"user": user})
	}
	return err
}

// Get fetches the preference body for a user, stripping the storage id and
// the user key. A stored body that fails the write schema is reported as an
// internal consistency error rather than returned.
func (r *preferenceRepository) Get(ctx context.Context, user string) (map[string]any, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{"user": user}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("user", map[string]any{"user": user})
	}
	if err != nil {
		return nil, err
	}

	delete(doc, "_id")
	delete(doc, "user")

	if err := schema.Validate(doc); err != nil {
		return nil, util.NewInternalConsistency(err)
	}
	return doc, nil
}

// Replace sets the full preference body of an existing document in one
// atomic update. The match count is the existence oracle; replace never
// creates.
func (r *preferenceRepository) Replace(ctx context.Context, user string, sub, notif []string) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"user": user},
		bson.M{"$set": bson.M{"sub": sub, "notif": notif}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return util.NewNotFound("user", map[string]any{"user": user})
	}
	return nil
}

func (r *preferenceRepository) Delete(ctx context.Context, user string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"user": user})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return util.NewNotFound("user", map[string]any{"user": user})
	}
	return nil
}

func (r *preferenceRepository) Exists(ctx context.Context, user string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"user": user}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindSubscribers matches documents whose sub set contains topic and, when
// category is non-empty, whose notif set also contains category. Both are
// exact set-membership tests combined with AND; result order is store
// iteration order.
func (r *preferenceRepository) FindSubscribers(ctx context.Context, topic, category string) ([]string, error) {
	filter := bson.M{"sub": bson.M{"$all": bson.A{topic}}}
	if category != "" {
		filter["notif"] = bson.M{"$all": bson.A{category}}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return collectUsers(ctx, cursor)
}

func (r *preferenceRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.EstimatedDocumentCount(ctx)
}

func collectUsers(ctx context.Context, cursor *mongo.Cursor) ([]string, error) {
	defer cursor.Close(ctx)

	users := []string{}
	for cursor.Next(ctx) {
		var doc struct {
			User string `bson:"user"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, doc.User)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
