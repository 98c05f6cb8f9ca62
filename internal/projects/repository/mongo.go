package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
)

// ProjectsCollection is the collection name used by MongoProjectRepository.
const ProjectsCollection = "projects"

type projectDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Users     []string  `bson:"users"`
	FileTree  bson.M    `bson:"fileTree"`
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoProjectRepository stores each project as one document. Membership
// changes use $addToSet so concurrent adds never lose ids.
type MongoProjectRepository struct {
	coll *mongo.Collection
}

func NewMongoProjectRepository(coll *mongo.Collection) *MongoProjectRepository {
	return &MongoProjectRepository{coll: coll}
}

// EnsureIndexes creates the unique name index and the members index.
func (r *MongoProjectRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("projects_name_key"),
		},
		{
			Keys:    bson.D{{Key: "users", Value: 1}},
			Options: options.Index().SetName("projects_users_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("create project indexes: %w", err)
	}
	return nil
}

func (r *MongoProjectRepository) Create(ctx context.Context, name, ownerID string) (*domain.Project, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := projectDocument{
		ID:        uuid.NewString(),
		Name:      name,
		Users:     []string{ownerID},
		FileTree:  bson.M{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoProjectRepository) ListByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"users": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var docs []projectDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]domain.Project, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func (r *MongoProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	var doc projectDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoProjectRepository) AddMembers(ctx context.Context, id string, memberIDs []string) (*domain.Project, error) {
	update := bson.M{
		"$addToSet": bson.M{"users": bson.M{"$each": memberIDs}},
		"$inc":      bson.M{"version": 1},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	p, err := r.findAndUpdate(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}
	return p, nil
}

func (r *MongoProjectRepository) ReplaceFileTree(ctx context.Context, id string, tree domain.FileTree) (*domain.Project, error) {
	if tree == nil {
		tree = domain.FileTree{}
	}
	update := bson.M{
		"$set": bson.M{"fileTree": map[string]any(tree), "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	p, err := r.findAndUpdate(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("replace file tree: %w", err)
	}
	return p, nil
}

func (r *MongoProjectRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc projectDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (d *projectDocument) toDomain() *domain.Project {
	tree, _ := normalizeBSON(d.FileTree).(map[string]any)
	if tree == nil {
		tree = map[string]any{}
	}
	return &domain.Project{
		ID:        d.ID,
		Name:      d.Name,
		Users:     domain.MembersFromIDs(d.Users),
		FileTree:  domain.FileTree(tree),
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// normalizeBSON converts decoded BSON containers into plain maps and slices
// so the file tree serializes to the same JSON as the Postgres accessor.
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, normalizeBSON(val))
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, normalizeBSON(val))
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
