package domain

import (
	"strings"
	"time"
)

type Item struct {
	ID        int64
	ListID    int64
	Text      string
	Checked   bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewItem(listID int64, text string, sortOrder int, now time.Time) (Item, error) {
	text = strings.TrimSpace(text)
	if listID <= 0 {
		return Item{}, ErrInvalidListID
	}
	if text == "" {
		return Item{}, ErrEmptyText
	}
	if sortOrder < 0 {
		return Item{}, ErrInvalidSortOrder
	}
	return Item{
		ListID:    listID,
		Text:      text,
		SortOrder: sortOrder,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

func (i *Item) SetText(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	i.Text = text
	i.UpdatedAt = now.UTC()
	return nil
}

func (i *Item) Toggle(now time.Time) {
	i.Checked = !i.Checked
	i.UpdatedAt = now.UTC()
}

func (i *Item) SetSortOrder(order int, now time.Time) error {
	if order < 0 {
		return ErrInvalidSortOrder
	}
	i.SortOrder = order
	i.UpdatedAt = now.UTC()
	return nil
}
