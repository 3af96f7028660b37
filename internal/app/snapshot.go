package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hylla/lyst/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "lyst.snapshot.v1"

// Snapshot represents snapshot data used by this package.
type Snapshot struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Lists      []SnapshotList `json:"lists"`
	Items      []SnapshotItem `json:"items"`
}

// SnapshotList represents snapshot list data used by this package.
type SnapshotList struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SnapshotItem represents snapshot item data used by this package.
type SnapshotItem struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	Text      string    `json:"text"`
	Checked   bool      `json:"checked"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportSnapshot handles export snapshot.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	lists, err := s.repo.ListLists(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Lists:      make([]SnapshotList, 0, len(lists)),
		Items:      make([]SnapshotItem, 0),
	}
	for _, list := range lists {
		snap.Lists = append(snap.Lists, snapshotListFromDomain(list))

		items, listErr := s.repo.ListItems(ctx, list.ID)
		if listErr != nil {
			return Snapshot{}, listErr
		}
		for _, item := range items {
			snap.Items = append(snap.Items, snapshotItemFromDomain(item))
		}
	}

	snap.sort()
	return snap, nil
}

// ImportSnapshot handles import snapshot.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.sort()

	for _, list := range snap.Lists {
		if err := s.repo.UpsertList(ctx, list.toDomain()); err != nil {
			return err
		}
	}

	itemsByList := map[int64][]domain.Item{}
	for _, item := range snap.Items {
		itemsByList[item.ListID] = append(itemsByList[item.ListID], item.toDomain())
	}
	for _, list := range snap.Lists {
		if err := s.repo.ReplaceItems(ctx, list.ID, itemsByList[list.ID]); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the requested operation.
func (s *Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version: %q", s.Version)
	}

	listIDs := map[int64]struct{}{}
	for i, l := range s.Lists {
		if l.ID <= 0 {
			return fmt.Errorf("lists[%d].id must be > 0", i)
		}
		if strings.TrimSpace(l.Title) == "" {
			return fmt.Errorf("lists[%d].title is required", i)
		}
		if l.CreatedAt.IsZero() || l.UpdatedAt.IsZero() {
			return fmt.Errorf("lists[%d] timestamps are required", i)
		}
		if _, exists := listIDs[l.ID]; exists {
			return fmt.Errorf("duplicate list id: %d", l.ID)
		}
		s.Lists[i].Title = strings.TrimSpace(l.Title)
		listIDs[l.ID] = struct{}{}
	}

	itemIDs := map[int64]struct{}{}
	ordersByList := map[int64][]int{}
	for i, it := range s.Items {
		if it.ID <= 0 {
			return fmt.Errorf("items[%d].id must be > 0", i)
		}
		if strings.TrimSpace(it.Text) == "" {
			return fmt.Errorf("items[%d].text is required", i)
		}
		if it.SortOrder < 0 {
			return fmt.Errorf("items[%d].sort_order must be >= 0", i)
		}
		if it.CreatedAt.IsZero() || it.UpdatedAt.IsZero() {
			return fmt.Errorf("items[%d] timestamps are required", i)
		}
		if _, ok := listIDs[it.ListID]; !ok {
			return fmt.Errorf("items[%d] references unknown list_id %d", i, it.ListID)
		}
		if _, exists := itemIDs[it.ID]; exists {
			return fmt.Errorf("duplicate item id: %d", it.ID)
		}
		s.Items[i].Text = strings.TrimSpace(it.Text)
		itemIDs[it.ID] = struct{}{}
		ordersByList[it.ListID] = append(ordersByList[it.ListID], it.SortOrder)
	}

	for listID, orders := range ordersByList {
		sort.Ints(orders)
		for want, got := range orders {
			if got != want {
				return fmt.Errorf("items of list %d must use contiguous sort_order starting at 0", listID)
			}
		}
	}
	return nil
}

func (s *Snapshot) sort() {
	sort.Slice(s.Lists, func(i, j int) bool {
		a := s.Lists[i]
		b := s.Lists[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	sort.Slice(s.Items, func(i, j int) bool {
		a := s.Items[i]
		b := s.Items[j]
		if a.ListID == b.ListID {
			if a.SortOrder == b.SortOrder {
				return a.ID < b.ID
			}
			return a.SortOrder < b.SortOrder
		}
		return a.ListID < b.ListID
	})
}

// snapshotListFromDomain handles snapshot list from domain.
func snapshotListFromDomain(l domain.List) SnapshotList {
	return SnapshotList{
		ID:        l.ID,
		Title:     l.Title,
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
}

// snapshotItemFromDomain handles snapshot item from domain.
func snapshotItemFromDomain(i domain.Item) SnapshotItem {
	return SnapshotItem{
		ID:        i.ID,
		ListID:    i.ListID,
		Text:      i.Text,
		Checked:   i.Checked,
		SortOrder: i.SortOrder,
		CreatedAt: i.CreatedAt.UTC(),
		UpdatedAt: i.UpdatedAt.UTC(),
	}
}

func (l SnapshotList) toDomain() domain.List {
	return domain.List{
		ID:        l.ID,
		Title:     strings.TrimSpace(l.Title),
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
}

func (i SnapshotItem) toDomain() domain.Item {
	return domain.Item{
		ID:        i.ID,
		ListID:    i.ListID,
		Text:      strings.TrimSpace(i.Text),
		Checked:   i.Checked,
		SortOrder: i.SortOrder,
		CreatedAt: i.CreatedAt.UTC(),
		UpdatedAt: i.UpdatedAt.UTC(),
	}
}
