// Package board arranges a user's tasks into status columns and reconciles
// drag-and-drop gestures with the persisted (status, position) ordering.
package board

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

// FilterAll selects every column.
const FilterAll = "all"

var (
	ErrUnknownTask   = errors.New("unknown task")
	ErrUnknownColumn = errors.New("unknown column")
)

// Target is where a dragged task is dropped: onto another task, meaning
// "take that task's index", or onto a column, meaning "append".
type Target struct {
	taskID string
	column string
}

func OntoTask(taskID string) Target {
	return Target{taskID: taskID}
}

func OntoColumn(status string) Target {
	return Target{column: status}
}

func (t Target) String() string {
	if t.taskID != "" {
		return "task:" + t.taskID
	}
	return "column:" + t.column
}

type Move struct {
	TaskID string
	Target Target
}

type Result struct {
	// Tasks is a new collection; the input slice is never modified.
	Tasks []models.Task
	// Changes holds only the placements whose status or position changed,
	// destination column first.
	Changes []models.Placement
}

// Apply moves a task to the drop target and renumbers the affected columns
// to a dense 0..n-1 sequence.
func Apply(tasks []models.Task, move Move) (Result, error) {
	index := indexByID(tasks)

	movedIdx, ok := index[move.TaskID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTask, move.TaskID)
	}
	moved := tasks[movedIdx]
	source := moved.Status

	var (
		dest      string
		destOrder []models.Task
		insertAt  int
	)
	switch {
	case move.Target.taskID == move.TaskID:
		return Result{Tasks: clone(tasks)}, nil
	case move.Target.taskID != "":
		targetIdx, ok := index[move.Target.taskID]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownTask, move.Target.taskID)
		}
		dest = tasks[targetIdx].Status
		destOrder = Column(tasks, dest)
		insertAt = positionOf(destOrder, move.Target.taskID)
	default:
		if !models.IsValidStatus(move.Target.column) {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownColumn, move.Target.column)
		}
		dest = move.Target.column
		destOrder = Column(tasks, dest)
		insertAt = len(destOrder)
	}

	ids := make([]string, 0, len(destOrder)+1)
	for _, t := range destOrder {
		if t.ID != moved.ID {
			ids = append(ids, t.ID)
		}
	}
	insertAt = max(0, min(insertAt, len(ids)))
	ids = slices.Insert(ids, insertAt, moved.ID)

	placements := make([]models.Placement, 0, len(ids))
	for i, id := range ids {
		placements = append(placements, models.Placement{ID: id, Status: dest, Position: i})
	}
	if source != dest {
		i := 0
		for _, t := range Column(tasks, source) {
			if t.ID == moved.ID {
				continue
			}
			placements = append(placements, models.Placement{ID: t.ID, Status: source, Position: i})
			i++
		}
	}

	result := Result{Tasks: clone(tasks)}
	for _, p := range placements {
		t := &result.Tasks[index[p.ID]]
		if t.Status == p.Status && t.Position == p.Position {
			continue
		}
		t.Status = p.Status
		t.Position = p.Position
		result.Changes = append(result.Changes, p)
	}
	return result, nil
}

// Column returns the tasks with the given status ordered by position, newest
// first among equal positions.
func Column(tasks []models.Task, status string) []models.Task {
	column := make([]models.Task, 0)
	for _, t := range tasks {
		if t.Status == status {
			column = append(column, t)
		}
	}
	SortByPosition(column)
	return column
}

// SortByPosition orders tasks by position ascending, then creation time
// descending.
func SortByPosition(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// Filter returns the tasks visible under filter, which is FilterAll or a
// status.
func Filter(tasks []models.Task, filter string) []models.Task {
	if filter == FilterAll {
		return clone(tasks)
	}
	filtered := make([]models.Task, 0)
	for _, t := range tasks {
		if t.Status == filter {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Count returns the number of tasks per status plus the FilterAll total.
func Count(tasks []models.Task) map[string]int {
	counts := make(map[string]int, len(models.Statuses)+1)
	counts[FilterAll] = len(tasks)
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

func indexByID(tasks []models.Task) map[string]int {
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
	}
	return index
}

func positionOf(column []models.Task, id string) int {
	for i, t := range column {
		if t.ID == id {
			return i
		}
	}
	return len(column)
}

func clone(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
