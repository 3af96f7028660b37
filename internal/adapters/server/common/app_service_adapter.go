package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hylla/lyst/internal/app"
	"github.com/hylla/lyst/internal/domain"
)

// AppServiceAdapter maps transport contracts onto app.Service checklist APIs.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// ListLists returns all lists decorated with per-list item counts.
func (a *AppServiceAdapter) ListLists(ctx context.Context) ([]List, error) {
	if a == nil || a.service == nil {
		return nil, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	lists, err := a.service.ListLists(ctx)
	if err != nil {
		return nil, mapAppError("list lists", err)
	}
	out := make([]List, 0, len(lists))
	for _, list := range lists {
		items, itemsErr := a.service.ListItems(ctx, list.ID)
		if itemsErr != nil {
			return nil, mapAppError("count list items", itemsErr)
		}
		out = append(out, mapDomainList(list, items))
	}
	return out, nil
}

// CreateList creates one list through app-level APIs.
func (a *AppServiceAdapter) CreateList(ctx context.Context, in CreateListRequest) (List, error) {
	if a == nil || a.service == nil {
		return List{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	list, err := a.service.CreateList(ctx, in.Title)
	if err != nil {
		return List{}, mapAppError("create list", err)
	}
	return mapDomainList(list, nil), nil
}

// RenameList renames one list through app-level APIs.
func (a *AppServiceAdapter) RenameList(ctx context.Context, in RenameListRequest) (List, error) {
	if a == nil || a.service == nil {
		return List{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	list, err := a.service.RenameList(ctx, in.ID, in.Title)
	if err != nil {
		return List{}, mapAppError("rename list", err)
	}
	items, err := a.service.ListItems(ctx, list.ID)
	if err != nil {
		return List{}, mapAppError("count list items", err)
	}
	return mapDomainList(list, items), nil
}

// DeleteList deletes one list and its items through app-level APIs.
func (a *AppServiceAdapter) DeleteList(ctx context.Context, id int64) error {
	if a == nil || a.service == nil {
		return fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	if err := a.service.DeleteList(ctx, id); err != nil {
		return mapAppError("delete list", err)
	}
	return nil
}

// ListItems returns one list's items in presentation order.
func (a *AppServiceAdapter) ListItems(ctx context.Context, listID int64) ([]Item, error) {
	if a == nil || a.service == nil {
		return nil, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	// GetList distinguishes an empty list from a missing one.
	if _, err := a.service.GetList(ctx, listID); err != nil {
		return nil, mapAppError("list items", err)
	}
	items, err := a.service.ListItems(ctx, listID)
	if err != nil {
		return nil, mapAppError("list items", err)
	}
	return mapDomainItems(items), nil
}

// AddItem appends one item to a list through app-level APIs.
func (a *AppServiceAdapter) AddItem(ctx context.Context, in AddItemRequest) (Item, error) {
	if a == nil || a.service == nil {
		return Item{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	item, err := a.service.CreateItem(ctx, in.ListID, in.Text)
	if err != nil {
		return Item{}, mapAppError("add item", err)
	}
	return mapDomainItem(item), nil
}

// EditItem replaces one item's text through app-level APIs.
func (a *AppServiceAdapter) EditItem(ctx context.Context, in EditItemRequest) (Item, error) {
	if a == nil || a.service == nil {
		return Item{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	item, err := a.service.UpdateItemText(ctx, in.ID, in.Text)
	if err != nil {
		return Item{}, mapAppError("edit item", err)
	}
	return mapDomainItem(item), nil
}

// ToggleItem flips one item's checked state through app-level APIs.
func (a *AppServiceAdapter) ToggleItem(ctx context.Context, id int64) (Item, error) {
	if a == nil || a.service == nil {
		return Item{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	item, err := a.service.ToggleItem(ctx, id)
	if err != nil {
		return Item{}, mapAppError("toggle item", err)
	}
	return mapDomainItem(item), nil
}

// DeleteItem deletes one item through app-level APIs.
func (a *AppServiceAdapter) DeleteItem(ctx context.Context, id int64) error {
	if a == nil || a.service == nil {
		return fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	if err := a.service.DeleteItem(ctx, id); err != nil {
		return mapAppError("delete item", err)
	}
	return nil
}

// MoveItem moves one item a single step through app-level APIs.
func (a *AppServiceAdapter) MoveItem(ctx context.Context, in MoveItemRequest) (Item, error) {
	if a == nil || a.service == nil {
		return Item{}, fmt.Errorf("app service adapter is not configured: %w", ErrInvalidRequest)
	}
	direction := app.MoveDirection(strings.ToLower(strings.TrimSpace(in.Direction)))
	item, err := a.service.MoveItem(ctx, in.ID, direction)
	if err != nil {
		return Item{}, mapAppError("move item", err)
	}
	return mapDomainItem(item), nil
}

// mapDomainList converts one domain list plus its items into a transport DTO.
func mapDomainList(list domain.List, items []domain.Item) List {
	out := List{
		ID:        list.ID,
		Title:     list.Title,
		ItemCount: len(items),
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
	for _, item := range items {
		if item.Checked {
			out.DoneCount++
		}
	}
	return out
}

// mapDomainItems converts domain items into transport DTOs.
func mapDomainItems(items []domain.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, mapDomainItem(item))
	}
	return out
}

// mapDomainItem converts one domain item into a transport DTO.
func mapDomainItem(item domain.Item) Item {
	return Item{
		ID:        item.ID,
		ListID:    item.ListID,
		Text:      item.Text,
		Checked:   item.Checked,
		SortOrder: item.SortOrder,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// mapAppError attaches transport sentinels to app and domain failures.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrInvalidListID),
		errors.Is(err, domain.ErrInvalidSortOrder),
		errors.Is(err, app.ErrInvalidDirection):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
