package tasks

import "github.com/google/uuid"

// insertAt returns column with id inserted at pos, clamped to [0, len(column)].
// Any existing occurrence of id is removed first.
func insertAt(column []uuid.UUID, id uuid.UUID, pos int) []uuid.UUID {
	column = remove(column, id)

	if pos < 0 {
		pos = 0
	}
	if pos > len(column) {
		pos = len(column)
	}

	out := make([]uuid.UUID, 0, len(column)+1)
	out = append(out, column[:pos]...)
	out = append(out, id)
	out = append(out, column[pos:]...)
	return out
}

func remove(column []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(column))
	for _, c := range column {
		if c != id {
			out = append(out, c)
		}
	}
	return out
}

// movePlan is the outcome of moving a task: the new status and progress of
// the moved task and the column orderings to write back. Source is nil when
// the task stays in its column.
type movePlan struct {
	Status   string
	Progress int
	Source   []uuid.UUID
	Target   []uuid.UUID
}

// changesColumn reports whether the plan moves the task between columns.
func (p movePlan) changesColumn() bool {
	return p.Source != nil
}

// planMove places current at pos in the status column. source is the task's
// present column and target the destination column, both in position order;
// target is ignored for a same-column reorder. Moving into done forces
// progress to 100.
func planMove(current Task, source, target []uuid.UUID, status string, pos int) movePlan {
	if status == current.Status {
		return movePlan{
			Status:   current.Status,
			Progress: current.Progress,
			Target:   insertAt(source, current.ID, pos),
		}
	}

	progress := current.Progress
	if status == StatusDone {
		progress = 100
	}

	return movePlan{
		Status:   status,
		Progress: progress,
		Source:   remove(source, current.ID),
		Target:   insertAt(target, current.ID, pos),
	}
}

// createsCycle reports whether adding the edge task -> dependsOn to graph
// would close a cycle, i.e. whether task is already reachable from dependsOn.
// graph maps each task to the tasks it depends on.
func createsCycle(graph map[uuid.UUID][]uuid.UUID, task, dependsOn uuid.UUID) bool {
	if task == dependsOn {
		return true
	}

	visited := map[uuid.UUID]bool{dependsOn: true}
	stack := []uuid.UUID{dependsOn}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range graph[n] {
			if next == task {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}

	return false
}
