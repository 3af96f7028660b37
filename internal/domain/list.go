package domain

import (
	"strings"
	"time"
)

type List struct {
	ID        int64
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewList(title string, now time.Time) (List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return List{}, ErrEmptyTitle
	}
	return List{
		Title:     title,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

func (l *List) Rename(title string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	l.Title = title
	l.UpdatedAt = now.UTC()
	return nil
}

func (l *List) Touch(now time.Time) {
	l.UpdatedAt = now.UTC()
}
