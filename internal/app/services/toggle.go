package services

import (
	"context"

	"github.com/yigit/bandhub/internal/app/models"
)

// ToggleStore is a join table whose rows are switched on and off by key
type ToggleStore[K any] interface {
	Exists(ctx context.Context, key K) (bool, error)
	Insert(ctx context.Context, key K) error
	Delete(ctx context.Context, key K) error
}

// toggle removes the row for key when present and inserts it otherwise
func toggle[K any](ctx context.Context, store ToggleStore[K], key K) (models.ToggleResult, error) {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		if err := store.Delete(ctx, key); err != nil {
			return "", err
		}
		return models.ToggleRemoved, nil
	}
	if err := store.Insert(ctx, key); err != nil {
		return "", err
	}
	return models.ToggleAdded, nil
}
