package model

import "time"

// Idea is a canvas-positioned note — the atomic unit of brainstorming.
//
// GroupID is a *string rather than a string because "no group" is a distinct,
// meaningful state: ungrouped ideas float free on the canvas. A nil pointer
// maps to SQL NULL; deleting a group nulls this field on every member idea
// but never deletes the ideas themselves.
//
// PositionX/PositionY are the card's top-left corner in canvas coordinates.
// Both are kept non-negative — the canvas has no negative quadrant.
type Idea struct {
	ID          string    `json:"id"          db:"id"`
	OwnerID     string    `json:"ownerId"     db:"owner_id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Color       string    `json:"color"       db:"color"`
	GroupID     *string   `json:"groupId"     db:"group_id"`
	PositionX   float64   `json:"positionX"   db:"position_x"`
	PositionY   float64   `json:"positionY"   db:"position_y"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// Group is a named, colored label applied to ideas. When materialized into a
// TodoList it becomes the organizing unit that maps the canvas view onto the
// task view.
type Group struct {
	ID        string    `json:"id"        db:"id"`
	OwnerID   string    `json:"ownerId"   db:"owner_id"`
	Name      string    `json:"name"      db:"name"`
	Color     string    `json:"color"     db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
