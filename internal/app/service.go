package app

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/hylla/lyst/internal/domain"
)

// MoveDirection represents a selectable direction.
type MoveDirection string

// MoveUp and MoveDown define the supported item move directions.
const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// Clock returns the current time.
type Clock func() time.Time

// Service represents service data used by this package.
type Service struct {
	repo  Repository
	clock Clock
}

// NewService constructs a new value for this package.
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, clock: clock}
}

// CreateList creates list.
func (s *Service) CreateList(ctx context.Context, title string) (domain.List, error) {
	list, err := domain.NewList(title, s.clock())
	if err != nil {
		return domain.List{}, err
	}
	return s.repo.CreateList(ctx, list)
}

// RenameList renames list.
func (s *Service) RenameList(ctx context.Context, id int64, title string) (domain.List, error) {
	list, err := s.repo.GetList(ctx, id)
	if err != nil {
		return domain.List{}, err
	}
	if err := list.Rename(title, s.clock()); err != nil {
		return domain.List{}, err
	}
	if err := s.repo.UpdateList(ctx, list); err != nil {
		return domain.List{}, err
	}
	return list, nil
}

// DeleteList deletes list.
func (s *Service) DeleteList(ctx context.Context, id int64) error {
	return s.repo.DeleteList(ctx, id)
}

// GetList returns list.
func (s *Service) GetList(ctx context.Context, id int64) (domain.List, error) {
	return s.repo.GetList(ctx, id)
}

// ListLists lists lists.
func (s *Service) ListLists(ctx context.Context) ([]domain.List, error) {
	return s.repo.ListLists(ctx)
}

// FindListByTitle returns the oldest list whose title matches exactly.
func (s *Service) FindListByTitle(ctx context.Context, title string) (domain.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.List{}, domain.ErrEmptyTitle
	}
	return s.repo.FindListByTitle(ctx, title)
}

// OpenOrCreateList resolves a list by title, creating it when absent.
func (s *Service) OpenOrCreateList(ctx context.Context, title string) (domain.List, error) {
	list, err := s.FindListByTitle(ctx, title)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return domain.List{}, err
	}
	return s.CreateList(ctx, title)
}

// CreateItem creates item.
func (s *Service) CreateItem(ctx context.Context, listID int64, text string) (domain.Item, error) {
	items, err := s.repo.ListItems(ctx, listID)
	if err != nil {
		return domain.Item{}, err
	}
	position := 0
	for _, it := range items {
		if it.SortOrder >= position {
			position = it.SortOrder + 1
		}
	}
	item, err := domain.NewItem(listID, text, position, s.clock())
	if err != nil {
		return domain.Item{}, err
	}
	return s.repo.CreateItem(ctx, item)
}

// UpdateItemText updates item text.
func (s *Service) UpdateItemText(ctx context.Context, id int64, text string) (domain.Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	if err := item.SetText(text, s.clock()); err != nil {
		return domain.Item{}, err
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// ToggleItem toggles item checked state.
func (s *Service) ToggleItem(ctx context.Context, id int64) (domain.Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	item.Toggle(s.clock())
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// DeleteItem deletes item.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id, s.clock())
}

// ListItems lists items.
func (s *Service) ListItems(ctx context.Context, listID int64) ([]domain.Item, error) {
	return s.repo.ListItems(ctx, listID)
}

// MoveItem moves item one step in the given direction.
func (s *Service) MoveItem(ctx context.Context, id int64, direction MoveDirection) (domain.Item, error) {
	if direction != MoveUp && direction != MoveDown {
		return domain.Item{}, ErrInvalidDirection
	}
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	items, err := s.repo.ListItems(ctx, item.ListID)
	if err != nil {
		return domain.Item{}, err
	}
	idx := slices.IndexFunc(items, func(it domain.Item) bool { return it.ID == id })
	if idx < 0 {
		return domain.Item{}, ErrNotFound
	}
	other := idx - 1
	if direction == MoveDown {
		other = idx + 1
	}
	if other < 0 || other >= len(items) {
		// Boundary moves succeed without mutating anything.
		return item, nil
	}

	now := s.clock()
	moved := items[idx]
	neighbor := items[other]
	movedOrder := moved.SortOrder
	neighborOrder := neighbor.SortOrder
	if err := moved.SetSortOrder(neighborOrder, now); err != nil {
		return domain.Item{}, err
	}
	if err := neighbor.SetSortOrder(movedOrder, now); err != nil {
		return domain.Item{}, err
	}
	if err := s.repo.SwapItems(ctx, moved, neighbor); err != nil {
		return domain.Item{}, err
	}
	return moved, nil
}
