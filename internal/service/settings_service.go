package service

import (
	"context"
	"fmt"
	"time"

	"factorybook/internal/repository"
)

type settingsService struct {
	settings repository.SettingsRepo
	observer UseCaseObserver
}

func NewSettingsService(settings repository.SettingsRepo, observers ...UseCaseObserver) SettingsService {
	return &settingsService{
		settings: settings,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *settingsService) Get(ctx context.Context) (repository.Settings, error) {
	return s.settings.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, st repository.Settings) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "update-settings",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"sort_mode": string(st.SortMode)},
		})
	}()

	switch st.SortMode {
	case repository.SortIO, repository.SortItem:
	default:
		return fmt.Errorf("unknown sort mode %q", st.SortMode)
	}
	return s.settings.Upsert(ctx, st)
}
