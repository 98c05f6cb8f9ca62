package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsersCollection = "users"

type userDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d userDocument) toUser() User {
	return User{ID: d.ID, Email: d.Email, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

// MongoRepo is the MongoDB user directory.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(coll *mongo.Collection) *MongoRepo {
	return &MongoRepo{coll: coll}
}

func (r *MongoRepo) EnsureUser(ctx context.Context, id, email string) error {
	if id == "" {
		return fmt.Errorf("user id required")
	}

	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	onInsert := bson.M{"createdAt": now}
	if email != "" {
		set["email"] = email
	} else {
		onInsert["email"] = ""
	}

	update := bson.M{"$set": set, "$setOnInsert": onInsert}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

func (r *MongoRepo) Get(ctx context.Context, id string) (*User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := doc.toUser()
	return &u, nil
}

func (r *MongoRepo) Emails(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"email": 1})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve emails: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("resolve emails: %w", err)
	}
	for _, d := range docs {
		out[d.ID] = d.Email
	}
	return out, nil
}

func (r *MongoRepo) ListExcept(ctx context.Context, id string) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$ne": id}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toUser())
	}
	return out, nil
}
