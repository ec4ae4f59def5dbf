package model

import "time"

// TodoList is the task-list materialization of a Group.
//
// GroupID records which group the list was created from. It is nullable:
// deleting a group leaves its lists behind with their group_id intact, but a
// list may also be created without a group. Note there is deliberately no
// cascade from groups to todo_lists — a deleted group orphans the link on the
// idea side only, which is the drift the repair procedure corrects.
//
// Invariant: every task in this list that links back to an idea must have
// idea.GroupID == list.GroupID.
type TodoList struct {
	ID        string    `json:"id"        db:"id"`
	OwnerID   string    `json:"ownerId"   db:"owner_id"`
	GroupID   *string   `json:"groupId"   db:"group_id"`
	Name      string    `json:"name"      db:"name"`
	Archived  bool      `json:"archived"  db:"archived"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Section is an optional named subdivision of tasks within a TodoList.
// OrderIndex is a fractional sort key — see the order package.
type Section struct {
	ID         string  `json:"id"         db:"id"`
	TodoListID string  `json:"todoListId" db:"todo_list_id"`
	Name       string  `json:"name"       db:"name"`
	OrderIndex float64 `json:"orderIndex" db:"order_index"`
}
