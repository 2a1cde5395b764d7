package service

import (
	"context"

	"factorybook/internal/repository"
)

type WorldService interface {
	Create(ctx context.Context, name string) (*Session, error)
	Open(ctx context.Context, ref string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	List(ctx context.Context) ([]*repository.StoredWorld, error)
	Rename(ctx context.Context, ref, newName string) error
	Delete(ctx context.Context, ref string) error
	Duplicate(ctx context.Context, ref, newName string) (*repository.StoredWorld, error)
	Export(ctx context.Context, ref, path string) error
	Import(ctx context.Context, path, name string) (*repository.StoredWorld, error)
	Resolve(ctx context.Context, ref string) (*repository.StoredWorld, error)
}

type SettingsService interface {
	Get(ctx context.Context) (repository.Settings, error)
	Update(ctx context.Context, s repository.Settings) error
}
