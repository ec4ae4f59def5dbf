package model

import "time"

// Task is an actionable item within a TodoList.
//
// SectionID is nil for tasks in the list's unsectioned bucket. Tasks order
// among siblings sharing the same (TodoListID, SectionID) pair by OrderIndex,
// with (CreatedAt, ID) as deterministic tie-breaks.
//
// IdeaID is a weak back-reference to the canvas idea the task was derived
// from — weak meaning there is no foreign key enforcing it, so an idea can
// disappear out from under a task (the repair procedure audits exactly that).
// Deleting either side of the link cascades to the other.
type Task struct {
	ID         string    `json:"id"         db:"id"`
	TodoListID string    `json:"todoListId" db:"todo_list_id"`
	SectionID  *string   `json:"sectionId"  db:"section_id"`
	IdeaID     *string   `json:"ideaId"     db:"idea_id"`
	Title      string    `json:"title"      db:"title"`
	Completed  bool      `json:"completed"  db:"completed"`
	OrderIndex float64   `json:"orderIndex" db:"order_index"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}
