package mongodb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/storage"
)

func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TASKBOARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TASKBOARD_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("taskboard_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return db
}

func TestTaskRepositoryRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	maxPosition, err := repo.MaxPosition(ctx, "alice", models.StatusTodo)
	if err != nil || maxPosition != -1 {
		t.Fatalf("empty group: got %d, %v", maxPosition, err)
	}

	now := time.Now().Truncate(time.Millisecond)
	var ids []string
	for i := 0; i < 3; i++ {
		task := &models.Task{
			UserID:    "alice",
			Title:     "task",
			Status:    models.StatusTodo,
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Insert(ctx, task); err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, task.ID)
	}

	maxPosition, err = repo.MaxPosition(ctx, "alice", models.StatusTodo)
	if err != nil || maxPosition != 2 {
		t.Fatalf("max position: got %d, %v", maxPosition, err)
	}

	err = repo.UpdatePlacements(ctx, "alice", []models.Placement{
		{ID: ids[0], Status: models.StatusTodo, Position: 2},
		{ID: ids[1], Status: models.StatusTodo, Position: 0},
		{ID: ids[2], Status: models.StatusTodo, Position: 1},
	}, now)
	if err != nil {
		t.Fatalf("update placements: %v", err)
	}

	tasks, err := repo.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 || tasks[0].ID != ids[1] || tasks[1].ID != ids[2] || tasks[2].ID != ids[0] {
		t.Fatalf("unexpected order: %#v", tasks)
	}

	if err := repo.Delete(ctx, "bob", ids[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting as another user, got %v", err)
	}
	if err := repo.Delete(ctx, "alice", ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, ids[0]); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "not-an-object-id"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	if err := repo.Insert(ctx, user); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, &models.User{Username: "alice2", Email: "alice@example.com"}); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	found, err := repo.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found.ID != user.ID {
		t.Fatalf("unexpected user %q", found.ID)
	}
}
