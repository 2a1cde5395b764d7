package repository

import "context"

type WorldRepo interface {
	Create(ctx context.Context, w *StoredWorld) error
	GetByID(ctx context.Context, id string) (*StoredWorld, error)
	GetByName(ctx context.Context, name string) (*StoredWorld, error)
	List(ctx context.Context) ([]*StoredWorld, error)
	Update(ctx context.Context, w *StoredWorld) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type SettingsRepo interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, s Settings) error
}
