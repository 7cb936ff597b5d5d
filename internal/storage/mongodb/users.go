package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adanyl0v/go-todo-tasks/internal/models"
	"github.com/adanyl0v/go-todo-tasks/internal/storage"
)

const emailIndexName = "email_1"

type UserRepository struct {
	coll              *mongo.Collection
	optimisticLocking bool
}

var _ storage.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database, collection string, optimisticLocking bool) *UserRepository {
	return &UserRepository{
		coll:              db.Collection(collection),
		optimisticLocking: optimisticLocking,
	}
}

// EnsureIndexes creates the unique email index the repository relies on
// to reject duplicate users. It is a no-op if the index already exists.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (r *UserRepository) InsertUser(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
	}

	_, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %w", storage.ErrDuplicateKey, err)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) SaveUser(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
	}

	filter := bson.M{"_id": user.ID}
	if r.optimisticLocking {
		filter["version"] = user.Version
	}

	next := *user
	next.Version++

	res, err := r.coll.ReplaceOne(ctx, filter, &next)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %w", storage.ErrDuplicateKey, err)
		}
		return fmt.Errorf("failed to replace user: %w", err)
	}

	if res.MatchedCount == 0 {
		if !r.optimisticLocking {
			return storage.ErrNotFound
		}

		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": user.ID})
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return storage.ErrVersionConflict
	}

	user.Version = next.Version
	return nil
}

func (r *UserRepository) PushSubtask(
	ctx context.Context,
	email string,
	taskID primitive.ObjectID,
	subtask models.Subtask,
) (*models.User, error) {
	if err := subtask.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
	}

	return r.findOneAndUpdate(ctx,
		bson.M{"email": email, "tasks._id": taskID},
		bson.M{
			"$push": bson.M{"tasks.$.subtasks": subtask},
			"$inc":  bson.M{"version": 1},
		},
		options.FindOneAndUpdate(),
	)
}

func (r *UserRepository) MarkTaskDeleted(ctx context.Context, email string, taskID primitive.ObjectID) (*models.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"email": email, "tasks._id": taskID},
		bson.M{
			"$set": bson.M{"tasks.$.isDeleted": true},
			"$inc": bson.M{"version": 1},
		},
		options.FindOneAndUpdate(),
	)
}

func (r *UserRepository) MarkSubtaskDeleted(
	ctx context.Context,
	email string,
	taskID, subtaskID primitive.ObjectID,
) (*models.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{
			"email": email,
			"tasks": bson.M{"$elemMatch": bson.M{
				"_id":          taskID,
				"subtasks._id": subtaskID,
			}},
		},
		bson.M{
			"$set": bson.M{"tasks.$[task].subtasks.$[subtask].isDeleted": true},
			"$inc": bson.M{"version": 1},
		},
		options.FindOneAndUpdate().SetArrayFilters(options.ArrayFilters{
			Filters: []any{
				bson.M{"task._id": taskID},
				bson.M{"subtask._id": subtaskID},
			},
		}),
	)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *UserRepository) findOneAndUpdate(
	ctx context.Context,
	filter, update any,
	opts *options.FindOneAndUpdateOptions,
) (*models.User, error) {
	opts.SetReturnDocument(options.After)

	user := new(models.User)
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
