package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/storage"
)

const tasksCollection = "tasks"

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Position    int                `bson:"position"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func newTaskDocument(task *models.Task) taskDocument {
	return taskDocument{
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Position:    task.Position,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}
}

func (d taskDocument) model() models.Task {
	return models.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Position:    d.Position,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type taskRepositoryImpl struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) storage.TaskRepository {
	return &taskRepositoryImpl{
		coll: db.Collection(tasksCollection),
	}
}

func (r *taskRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "position", Value: 1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := r.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return decodeTasks(ctx, cursor)
}

func (r *taskRepositoryImpl) FindByID(ctx context.Context, taskID string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	var doc taskDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	task := doc.model()
	return &task, nil
}

func (r *taskRepositoryImpl) FindByIDs(ctx context.Context, taskIDs []string) ([]models.Task, error) {
	oids := objectIDs(taskIDs)
	if len(oids) == 0 {
		return []models.Task{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return decodeTasks(ctx, cursor)
}

func (r *taskRepositoryImpl) MaxPosition(ctx context.Context, userID, status string) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "position", Value: -1}}).
		SetProjection(bson.D{{Key: "position", Value: 1}})

	var doc struct {
		Position int `bson:"position"`
	}
	err := r.coll.FindOne(ctx, bson.M{"user": userID, "status": status}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return -1, nil
		}
		return 0, fmt.Errorf("failed to find max position: %w", err)
	}
	return doc.Position, nil
}

func (r *taskRepositoryImpl) Insert(ctx context.Context, task *models.Task) error {
	res, err := r.coll.InsertOne(ctx, newTaskDocument(task))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	task.ID = oid.Hex()
	return nil
}

func (r *taskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user": task.UserID},
		bson.M{"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"position":    task.Position,
			"updated_at":  task.UpdatedAt.UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *taskRepositoryImpl) UpdatePlacements(ctx context.Context, userID string, placements []models.Placement, updatedAt time.Time) error {
	writes := make([]mongo.WriteModel, 0, len(placements))
	for _, p := range placements {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			continue
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid, "user": userID}).
			SetUpdate(bson.M{"$set": bson.M{
				"status":     p.Status,
				"position":   p.Position,
				"updated_at": updatedAt.UTC(),
			}}))
	}
	if len(writes) == 0 {
		return nil
	}

	_, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("failed to write task placements: %w", err)
	}
	return nil
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user": userID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func decodeTasks(ctx context.Context, cursor *mongo.Cursor) ([]models.Task, error) {
	var docs []taskDocument
	err := cursor.All(ctx, &docs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]models.Task, len(docs))
	for i, doc := range docs {
		tasks[i] = doc.model()
	}
	return tasks, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}
