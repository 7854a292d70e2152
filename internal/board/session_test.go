package board

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type fakeSyncer struct {
	server     []models.Task
	listErr    error
	reorderErr error
	reorders   [][]models.Placement
	lists      int
}

func (f *fakeSyncer) ListTasks(context.Context) ([]models.Task, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return clone(f.server), nil
}

func (f *fakeSyncer) CreateTask(_ context.Context, draft models.TaskDraft) (*models.Task, error) {
	t := models.Task{ID: draft.Title, Title: draft.Title, Status: draft.Status, Position: len(Column(f.server, draft.Status))}
	f.server = append(f.server, t)
	return &t, nil
}

func (f *fakeSyncer) UpdateTask(_ context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	for i := range f.server {
		if f.server[i].ID == taskID {
			if patch.Status != nil {
				f.server[i].Status = *patch.Status
			}
			t := f.server[i]
			return &t, nil
		}
	}
	return nil, errors.New("task not found")
}

func (f *fakeSyncer) ReorderTasks(_ context.Context, placements []models.Placement) ([]models.Task, error) {
	f.reorders = append(f.reorders, placements)
	if f.reorderErr != nil {
		return nil, f.reorderErr
	}
	for _, p := range placements {
		for i := range f.server {
			if f.server[i].ID == p.ID {
				f.server[i].Status = p.Status
				f.server[i].Position = p.Position
			}
		}
	}
	return clone(f.server), nil
}

func (f *fakeSyncer) DeleteTask(_ context.Context, taskID string) error {
	for i := range f.server {
		if f.server[i].ID == taskID {
			f.server = append(f.server[:i], f.server[i+1:]...)
			return nil
		}
	}
	return errors.New("task not found")
}

func newTestSession(t *testing.T, api *fakeSyncer) *Session {
	t.Helper()
	s := NewSession(zerolog.Nop(), api)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return s
}

func TestSessionDragPersistsOnlyChanges(t *testing.T) {
	api := &fakeSyncer{server: []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
		task("c", models.StatusTodo, 2),
		task("x", models.StatusDone, 0),
	}}
	s := newTestSession(t, api)

	if err := s.Drag(context.Background(), Move{TaskID: "c", Target: OntoTask("b")}); err != nil {
		t.Fatalf("drag: %v", err)
	}

	if len(api.reorders) != 1 {
		t.Fatalf("expected one reorder call, got %d", len(api.reorders))
	}
	want := []models.Placement{
		{ID: "c", Status: models.StatusTodo, Position: 1},
		{ID: "b", Status: models.StatusTodo, Position: 2},
	}
	if !reflect.DeepEqual(api.reorders[0], want) {
		t.Fatalf("unexpected batch: %#v", api.reorders[0])
	}
	if got := ids(s.Column(models.StatusTodo)); !reflect.DeepEqual(got, []string{"a", "c", "b"}) {
		t.Fatalf("unexpected column: %v", got)
	}
}

func TestSessionDragOntoItselfMakesNoCall(t *testing.T) {
	api := &fakeSyncer{server: []models.Task{task("a", models.StatusTodo, 0)}}
	s := newTestSession(t, api)
	before := s.Tasks()

	if err := s.Drag(context.Background(), Move{TaskID: "a", Target: OntoTask("a")}); err != nil {
		t.Fatalf("drag: %v", err)
	}
	if len(api.reorders) != 0 {
		t.Fatalf("expected no reorder call, got %d", len(api.reorders))
	}
	if !reflect.DeepEqual(s.Tasks(), before) {
		t.Fatal("collection changed")
	}
}

func TestSessionDragFailureRefetches(t *testing.T) {
	api := &fakeSyncer{server: []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
	}}
	s := newTestSession(t, api)
	api.reorderErr = errors.New("boom")

	err := s.Drag(context.Background(), Move{TaskID: "a", Target: OntoColumn(models.StatusDone)})
	if !errors.Is(err, ErrReorderFailed) {
		t.Fatalf("expected ErrReorderFailed, got %v", err)
	}
	if api.lists != 2 {
		t.Fatalf("expected a re-fetch, got %d list calls", api.lists)
	}
	if !reflect.DeepEqual(s.Tasks(), api.server) {
		t.Fatalf("session not re-synced: %#v", s.Tasks())
	}
}

func TestSessionDragFailureRestoresWhenRefetchFails(t *testing.T) {
	api := &fakeSyncer{server: []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
	}}
	s := newTestSession(t, api)
	before := s.Tasks()
	api.reorderErr = errors.New("boom")
	api.listErr = errors.New("offline")

	err := s.Drag(context.Background(), Move{TaskID: "b", Target: OntoTask("a")})
	if !errors.Is(err, ErrReorderFailed) {
		t.Fatalf("expected ErrReorderFailed, got %v", err)
	}
	if !reflect.DeepEqual(s.Tasks(), before) {
		t.Fatalf("optimistic order not discarded: %#v", s.Tasks())
	}
}

func TestSessionCreateUpdateDelete(t *testing.T) {
	api := &fakeSyncer{server: []models.Task{task("a", models.StatusTodo, 0)}}
	s := newTestSession(t, api)
	ctx := context.Background()

	created, err := s.Create(ctx, models.TaskDraft{Title: "new", Status: models.StatusTodo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := ids(s.Tasks()); !reflect.DeepEqual(got, []string{created.ID, "a"}) {
		t.Fatalf("created task not prepended: %v", got)
	}

	if _, err := s.SetStatus(ctx, "a", models.StatusDone); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got := s.Count()[models.StatusDone]; got != 1 {
		t.Fatalf("expected one done task, got %d", got)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := ids(s.Tasks()); !reflect.DeepEqual(got, []string{created.ID}) {
		t.Fatalf("task not removed: %v", got)
	}

	if err := s.Delete(ctx, "a"); err == nil {
		t.Fatal("expected error deleting missing task")
	}
	if len(s.Tasks()) != 1 {
		t.Fatal("failed delete changed the collection")
	}
}
