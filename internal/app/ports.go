package app

import (
	"context"
	"time"

	"github.com/hylla/lyst/internal/domain"
)

// Repository represents repository data used by this package.
type Repository interface {
	CreateList(context.Context, domain.List) (domain.List, error)
	UpdateList(context.Context, domain.List) error
	UpsertList(context.Context, domain.List) error
	GetList(context.Context, int64) (domain.List, error)
	FindListByTitle(context.Context, string) (domain.List, error)
	ListLists(context.Context) ([]domain.List, error)
	DeleteList(context.Context, int64) error

	CreateItem(context.Context, domain.Item) (domain.Item, error)
	UpdateItem(context.Context, domain.Item) error
	GetItem(context.Context, int64) (domain.Item, error)
	ListItems(context.Context, int64) ([]domain.Item, error)
	DeleteItem(context.Context, int64, time.Time) error
	SwapItems(context.Context, domain.Item, domain.Item) error
	ReplaceItems(context.Context, int64, []domain.Item) error
}
