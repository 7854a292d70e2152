package board

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

func task(id, status string, position int) models.Task {
	return models.Task{
		ID:        id,
		UserID:    "user-1",
		Title:     "task " + id,
		Status:    status,
		Position:  position,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertDense(t *testing.T, tasks []models.Task, status string) {
	t.Helper()
	for i, task := range Column(tasks, status) {
		if task.Position != i {
			t.Fatalf("column %s not dense: %s at position %d, want %d", status, task.ID, task.Position, i)
		}
	}
}

func TestApplyWithinColumnMovesFirstToLast(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
		task("c", models.StatusTodo, 2),
	}

	result, err := Apply(tasks, Move{TaskID: "a", Target: OntoTask("c")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := ids(Column(result.Tasks, models.StatusTodo))
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: %v, want %v", got, want)
	}
	wantChanges := []models.Placement{
		{ID: "b", Status: models.StatusTodo, Position: 0},
		{ID: "c", Status: models.StatusTodo, Position: 1},
		{ID: "a", Status: models.StatusTodo, Position: 2},
	}
	if !reflect.DeepEqual(result.Changes, wantChanges) {
		t.Fatalf("unexpected changes: %#v", result.Changes)
	}
	if tasks[0].Position != 0 {
		t.Fatal("input collection was modified")
	}
}

func TestApplyWithinColumnPreservesRelativeOrder(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
		task("c", models.StatusTodo, 2),
		task("d", models.StatusTodo, 3),
		task("e", models.StatusTodo, 4),
	}

	for _, tc := range []struct {
		moved, onto string
		want        []string
	}{
		{"e", "b", []string{"a", "e", "b", "c", "d"}},
		{"b", "d", []string{"a", "c", "d", "b", "e"}},
		{"c", "a", []string{"c", "a", "b", "d", "e"}},
	} {
		result, err := Apply(tasks, Move{TaskID: tc.moved, Target: OntoTask(tc.onto)})
		if err != nil {
			t.Fatalf("apply %s onto %s: %v", tc.moved, tc.onto, err)
		}
		got := ids(Column(result.Tasks, models.StatusTodo))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("move %s onto %s: got %v, want %v", tc.moved, tc.onto, got, tc.want)
		}
		assertDense(t, result.Tasks, models.StatusTodo)
	}
}

func TestApplyAcrossColumnsClosesGap(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
		task("c", models.StatusTodo, 2),
		task("x", models.StatusDone, 0),
		task("y", models.StatusDone, 1),
	}

	result, err := Apply(tasks, Move{TaskID: "b", Target: OntoTask("y")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got, want := ids(Column(result.Tasks, models.StatusDone)), []string{"x", "b", "y"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("done column: got %v, want %v", got, want)
	}
	if got, want := ids(Column(result.Tasks, models.StatusTodo)), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("todo column: got %v, want %v", got, want)
	}
	assertDense(t, result.Tasks, models.StatusDone)
	assertDense(t, result.Tasks, models.StatusTodo)

	wantChanges := []models.Placement{
		{ID: "b", Status: models.StatusDone, Position: 1},
		{ID: "y", Status: models.StatusDone, Position: 2},
		{ID: "c", Status: models.StatusTodo, Position: 1},
	}
	if !reflect.DeepEqual(result.Changes, wantChanges) {
		t.Fatalf("unexpected changes: %#v", result.Changes)
	}
}

func TestApplyOntoColumnAppends(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
		task("x", models.StatusInProgress, 0),
	}

	result, err := Apply(tasks, Move{TaskID: "a", Target: OntoColumn(models.StatusInProgress)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got, want := ids(Column(result.Tasks, models.StatusInProgress)), []string{"x", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("in-progress column: got %v, want %v", got, want)
	}
	assertDense(t, result.Tasks, models.StatusTodo)
}

func TestApplyOntoOwnColumnMovesToEnd(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
	}

	result, err := Apply(tasks, Move{TaskID: "a", Target: OntoColumn(models.StatusTodo)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got, want := ids(Column(result.Tasks, models.StatusTodo)), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("todo column: got %v, want %v", got, want)
	}
}

func TestApplyIntoEmptyColumn(t *testing.T) {
	tasks := []models.Task{task("a", models.StatusTodo, 0)}

	result, err := Apply(tasks, Move{TaskID: "a", Target: OntoColumn(models.StatusDone)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := []models.Placement{{ID: "a", Status: models.StatusDone, Position: 0}}
	if !reflect.DeepEqual(result.Changes, want) {
		t.Fatalf("unexpected changes: %#v", result.Changes)
	}
}

func TestApplyOntoItselfIsNoop(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusTodo, 1),
	}

	result, err := Apply(tasks, Move{TaskID: "b", Target: OntoTask("b")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !reflect.DeepEqual(result.Tasks, tasks) {
		t.Fatalf("collection changed: %#v", result.Tasks)
	}
	if len(result.Changes) != 0 {
		t.Fatalf("expected no changes, got %#v", result.Changes)
	}
}

func TestApplyRenumbersColumnWithGaps(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("c", models.StatusTodo, 2),
		task("d", models.StatusTodo, 3),
	}

	result, err := Apply(tasks, Move{TaskID: "d", Target: OntoTask("c")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got, want := ids(Column(result.Tasks, models.StatusTodo)), []string{"a", "d", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("todo column: got %v, want %v", got, want)
	}
	assertDense(t, result.Tasks, models.StatusTodo)
}

func TestApplyUnknownTaskAndColumn(t *testing.T) {
	tasks := []models.Task{task("a", models.StatusTodo, 0)}

	if _, err := Apply(tasks, Move{TaskID: "missing", Target: OntoColumn(models.StatusDone)}); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
	if _, err := Apply(tasks, Move{TaskID: "a", Target: OntoTask("missing")}); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask for target, got %v", err)
	}
	if _, err := Apply(tasks, Move{TaskID: "a", Target: OntoColumn("archived")}); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestColumnBreaksTiesByNewestFirst(t *testing.T) {
	older := task("older", models.StatusTodo, 0)
	newer := task("newer", models.StatusTodo, 0)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	got := ids(Column([]models.Task{older, newer}, models.StatusTodo))
	if want := []string{"newer", "older"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterAndCount(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo, 0),
		task("b", models.StatusDone, 0),
		task("c", models.StatusDone, 1),
	}

	if got := Filter(tasks, FilterAll); len(got) != 3 {
		t.Fatalf("all filter returned %d tasks", len(got))
	}
	if got := ids(Filter(tasks, models.StatusDone)); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("done filter returned %v", got)
	}

	want := map[string]int{
		FilterAll:               3,
		models.StatusTodo:       1,
		models.StatusInProgress: 0,
		models.StatusDone:       2,
	}
	if got := Count(tasks); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected counts: %v", got)
	}
}
