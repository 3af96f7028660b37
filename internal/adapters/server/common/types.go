// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"
)

// MoveDirectionUp moves an item one step toward the top of its list.
const MoveDirectionUp = "up"

// MoveDirectionDown moves an item one step toward the bottom of its list.
const MoveDirectionDown = "down"

// supportedMoveDirections stores all transport-accepted direction values in canonical order.
var supportedMoveDirections = []string{
	MoveDirectionUp,
	MoveDirectionDown,
}

// SupportedMoveDirections returns all canonical direction values accepted by transport adapters.
func SupportedMoveDirections() []string {
	return append([]string(nil), supportedMoveDirections...)
}

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// List represents one checklist surfaced by transport adapters.
type List struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ItemCount int       `json:"item_count"`
	DoneCount int       `json:"done_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item represents one checklist item surfaced by transport adapters.
type Item struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	Text      string    `json:"text"`
	Checked   bool      `json:"checked"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateListRequest captures input for creating one list.
type CreateListRequest struct {
	Title string `json:"title"`
}

// RenameListRequest captures input for renaming one list.
type RenameListRequest struct {
	ID    int64  `json:"-"`
	Title string `json:"title"`
}

// AddItemRequest captures input for appending one item to a list.
type AddItemRequest struct {
	ListID int64  `json:"-"`
	Text   string `json:"text"`
}

// EditItemRequest captures input for replacing one item's text.
type EditItemRequest struct {
	ID   int64  `json:"-"`
	Text string `json:"text"`
}

// MoveItemRequest captures input for moving one item within its list.
type MoveItemRequest struct {
	ID        int64  `json:"-"`
	Direction string `json:"direction"`
}

// ChecklistService captures the list and item operations exposed to transport adapters.
type ChecklistService interface {
	ListLists(context.Context) ([]List, error)
	CreateList(context.Context, CreateListRequest) (List, error)
	RenameList(context.Context, RenameListRequest) (List, error)
	DeleteList(context.Context, int64) error
	ListItems(context.Context, int64) ([]Item, error)
	AddItem(context.Context, AddItemRequest) (Item, error)
	EditItem(context.Context, EditItemRequest) (Item, error)
	ToggleItem(context.Context, int64) (Item, error)
	DeleteItem(context.Context, int64) error
	MoveItem(context.Context, MoveItemRequest) (Item, error)
}
