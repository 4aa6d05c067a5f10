package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks appshelf/internal/handlers AppLister,CatalogLookup

import (
	"context"

	"appshelf/internal/catalog"
	"appshelf/internal/storage"
	"appshelf/internal/store"
)

// AppLister reads app records. store.JSONStore implements it.
type AppLister interface {
	List() ([]store.AppRecord, error)
	Get(id string) (store.AppRecord, error)
}

// CatalogLookup fetches live catalog metadata by id.
type CatalogLookup interface {
	Lookup(ctx context.Context, ids []int64) ([]catalog.Entry, error)
}

// RunLister reads the ingestion ledger. storage.RunStore satisfies it.
type RunLister interface {
	ListRecent(ctx context.Context, limit int) ([]storage.RunRecord, error)
}
