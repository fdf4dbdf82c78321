package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	workspaceserrors "deskly/internal/workspaces/errors"
	"deskly/pkg/config"
	mongotx "deskly/pkg/db/mongo"
	"deskly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Workspaces"
)

type WorkspaceFilter struct {
	OwnerID string
	City    string
}

type WorkspaceRepository interface {
	Create(ctx context.Context, ws *model.Workspace) error
	FindByID(ctx context.Context, id string) (*model.Workspace, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Workspace, error)
	FindAll(ctx context.Context, filter WorkspaceFilter, limit int, offset int64) ([]*model.Workspace, error)
	Count(ctx context.Context, filter WorkspaceFilter) (int64, error)
	Update(ctx context.Context, id string, ws *model.Workspace) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoWorkspaceRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoWorkspaceRepository(cfg *config.Config) WorkspaceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWorkspaceRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoWorkspaceRepository) Create(ctx context.Context, ws *model.Workspace) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	ws.CreatedAt = now
	ws.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, ws)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ws.ID = oid.Hex()
	}
	return nil
}

func (r *mongoWorkspaceRepository) FindByID(ctx context.Context, id string) (*model.Workspace, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", workspaceserrors.ErrInvalidID, id)
	}

	var ws model.Workspace
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&ws)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", workspaceserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return &ws, nil
}

func (r *mongoWorkspaceRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Workspace, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to find workspaces for owner [%s]: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var workspaces []*model.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}
	return workspaces, nil
}

func (r *mongoWorkspaceRepository) FindAll(ctx context.Context, filter WorkspaceFilter, limit int, offset int64) ([]*model.Workspace, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer cursor.Close(ctx)

	workspaces := []*model.Workspace{}
	if err = cursor.All(ctx, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}
	return workspaces, nil
}

func (r *mongoWorkspaceRepository) Count(ctx context.Context, filter WorkspaceFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count workspaces: %w", err)
	}
	return count, nil
}

func (r *mongoWorkspaceRepository) Update(ctx context.Context, id string, ws *model.Workspace) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", workspaceserrors.ErrInvalidID, id)
	}

	ws.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":            ws.Name,
			"description":     ws.Description,
			"city":            ws.City,
			"address":         ws.Address,
			"capacity":        ws.Capacity,
			"price_unit":      ws.PriceUnit,
			"price":           ws.Price,
			"instant_booking": ws.InstantBooking,
			"updated_at":      ws.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", workspaceserrors.ErrNotFound, id)
	}
	return nil
}

func buildFilter(f WorkspaceFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.City != "" {
		filter["city"] = f.City
	}
	return filter
}

func (r *mongoWorkspaceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
