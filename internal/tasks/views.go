package tasks

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Column is one status lane of a Kanban board.
type Column struct {
	Status string `json:"status"`
	Tasks  []Task `json:"tasks"`
	Count  int    `json:"count"`
}

// Board is a project's tasks grouped into status columns.
type Board struct {
	ProjectID uuid.UUID `json:"project_id"`
	Columns   []Column  `json:"columns"`
}

// GanttItem is a scheduled task on a Gantt chart.
type GanttItem struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Status       string      `json:"status"`
	AssigneeID   *uuid.UUID  `json:"assignee_id"`
	Start        time.Time   `json:"start"`
	End          time.Time   `json:"end"`
	Progress     int         `json:"progress"`
	Dependencies []uuid.UUID `json:"dependencies"`
}

// Gantt is a project's scheduled tasks and their overall span.
type Gantt struct {
	ProjectID   uuid.UUID   `json:"project_id"`
	Start       *time.Time  `json:"start"`
	End         *time.Time  `json:"end"`
	Items       []GanttItem `json:"items"`
	Unscheduled int         `json:"unscheduled"`
}

// BuildBoard groups tasks into every status column, each ordered by position
// then creation time.
func BuildBoard(projectID uuid.UUID, tasks []Task) Board {
	byStatus := make(map[string][]Task, len(Statuses))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	board := Board{
		ProjectID: projectID,
		Columns:   make([]Column, 0, len(Statuses)),
	}

	for _, status := range Statuses {
		col := byStatus[status]
		if col == nil {
			col = []Task{}
		}
		sort.SliceStable(col, func(i, j int) bool {
			if col[i].Position != col[j].Position {
				return col[i].Position < col[j].Position
			}
			return col[i].CreatedAt.Before(col[j].CreatedAt)
		})
		board.Columns = append(board.Columns, Column{
			Status: status,
			Tasks:  col,
			Count:  len(col),
		})
	}

	return board
}

// BuildGantt places every dated task on the chart. A task with a single date
// spans that one day; undated tasks are counted as unscheduled. deps maps a
// task to the tasks it depends on.
func BuildGantt(projectID uuid.UUID, tasks []Task, deps map[uuid.UUID][]uuid.UUID) Gantt {
	g := Gantt{
		ProjectID: projectID,
		Items:     []GanttItem{},
	}

	for _, t := range tasks {
		start, end := t.StartDate, t.DueDate
		switch {
		case start == nil && end == nil:
			g.Unscheduled++
			continue
		case start == nil:
			start = end
		case end == nil:
			end = start
		}

		d := deps[t.ID]
		if d == nil {
			d = []uuid.UUID{}
		}

		g.Items = append(g.Items, GanttItem{
			ID:           t.ID,
			Title:        t.Title,
			Status:       t.Status,
			AssigneeID:   t.AssigneeID,
			Start:        *start,
			End:          *end,
			Progress:     t.Progress,
			Dependencies: d,
		})
	}

	sort.SliceStable(g.Items, func(i, j int) bool {
		if !g.Items[i].Start.Equal(g.Items[j].Start) {
			return g.Items[i].Start.Before(g.Items[j].Start)
		}
		return g.Items[i].Title < g.Items[j].Title
	})

	for i := range g.Items {
		it := &g.Items[i]
		if g.Start == nil || it.Start.Before(*g.Start) {
			s := it.Start
			g.Start = &s
		}
		if g.End == nil || it.End.After(*g.End) {
			e := it.End
			g.End = &e
		}
	}

	return g
}
