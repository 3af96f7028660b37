package domain

import "errors"

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyText        = errors.New("empty text")
	ErrInvalidListID    = errors.New("invalid list id")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)
