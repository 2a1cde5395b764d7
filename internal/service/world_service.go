package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"factorybook/internal/accounting"
	"factorybook/internal/catalog"
	"factorybook/internal/db"
	"factorybook/internal/repository"
	"factorybook/internal/savefile"
)

type worldService struct {
	worlds   repository.WorldRepo
	settings repository.SettingsRepo
	uow      db.UnitOfWork
	cat      *catalog.Catalog
	observer UseCaseObserver
}

func NewWorldService(
	worlds repository.WorldRepo,
	settings repository.SettingsRepo,
	uow db.UnitOfWork,
	cat *catalog.Catalog,
	observers ...UseCaseObserver,
) WorldService {
	return &worldService{
		worlds:   worlds,
		settings: settings,
		uow:      uow,
		cat:      cat,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *worldService) Create(ctx context.Context, name string) (sess *Session, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"world": name},
		})
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("world name must not be empty")
	}

	tree := accounting.NewTree(name)
	raw, err := json.Marshal(tree.Document())
	if err != nil {
		return nil, fmt.Errorf("encoding world document: %w", err)
	}

	now := time.Now().UTC()
	w := &repository.StoredWorld{
		ID:             uuid.New().String(),
		Name:           name,
		CatalogVersion: s.cat.Version(),
		Doc:            raw,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteWorldRepo(tx).Create(ctx, w); err != nil {
			return err
		}
		return rememberLastWorld(ctx, repository.NewSQLiteSettingsRepo(tx), w.ID)
	})
	if err != nil {
		return nil, err
	}
	return NewSession(w.ID, w.Name, tree, s.cat, s.observer), nil
}

func (s *worldService) Open(ctx context.Context, ref string) (sess *Session, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"ref": ref}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "open-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	w, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	var doc accounting.Document
	if err := json.Unmarshal(w.Doc, &doc); err != nil {
		return nil, fmt.Errorf("parsing world document: %w", err)
	}
	tree, err := accounting.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("rebuilding world %q: %w", w.Name, err)
	}

	warnings := clearUnknownRecipes(tree, s.cat)
	fields["world"] = w.ID
	fields["warnings"] = len(warnings)

	sess = NewSession(w.ID, w.Name, tree, s.cat, s.observer)
	sess.warnings = warnings
	// Cleared recipes are a real change against the stored document.
	sess.dirty = len(warnings) > 0
	sess.warm()

	if err := rememberLastWorld(ctx, s.settings, w.ID); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *worldService) Save(ctx context.Context, sess *Session) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "save-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"world": sess.WorldID},
		})
	}()

	w, err := s.worlds.GetByID(ctx, sess.WorldID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(sess.Document())
	if err != nil {
		return fmt.Errorf("encoding world document: %w", err)
	}
	w.Doc = raw
	w.CatalogVersion = s.cat.Version()
	w.UpdatedAt = time.Now().UTC()
	if err := s.worlds.Update(ctx, w); err != nil {
		return err
	}
	sess.dirty = false
	return nil
}

func (s *worldService) List(ctx context.Context) ([]*repository.StoredWorld, error) {
	return s.worlds.List(ctx)
}

func (s *worldService) Rename(ctx context.Context, ref, newName string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "rename-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"ref": ref, "name": newName},
		})
	}()

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("world name must not be empty")
	}
	w, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	return s.worlds.Rename(ctx, w.ID, newName)
}

func (s *worldService) Delete(ctx context.Context, ref string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "delete-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"ref": ref},
		})
	}()

	w, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	// Deleting the remembered world must also clear the pointer, together.
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteWorldRepo(tx).Delete(ctx, w.ID); err != nil {
			return err
		}
		settingsRepo := repository.NewSQLiteSettingsRepo(tx)
		st, err := settingsRepo.Get(ctx)
		if err != nil {
			return err
		}
		if st.LastWorldID != w.ID {
			return nil
		}
		st.LastWorldID = ""
		return settingsRepo.Upsert(ctx, st)
	})
}

func (s *worldService) Duplicate(ctx context.Context, ref, newName string) (dup *repository.StoredWorld, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "duplicate-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"ref": ref},
		})
	}()

	src, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	var doc accounting.Document
	if err := json.Unmarshal(src.Doc, &doc); err != nil {
		return nil, fmt.Errorf("parsing world document: %w", err)
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		newName = src.Name + " (copy)"
	}
	doc.Root.ClearIDs()
	doc.Root.Name = newName

	// Rebuilding materializes fresh node ids for the copy.
	tree, err := accounting.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("rebuilding world %q: %w", src.Name, err)
	}
	raw, err := json.Marshal(tree.Document())
	if err != nil {
		return nil, fmt.Errorf("encoding world document: %w", err)
	}

	now := time.Now().UTC()
	dup = &repository.StoredWorld{
		ID:             uuid.New().String(),
		Name:           newName,
		CatalogVersion: src.CatalogVersion,
		Doc:            raw,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.worlds.Create(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}

func (s *worldService) Export(ctx context.Context, ref, path string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "export-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"ref": ref, "path": path},
		})
	}()

	w, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	var doc accounting.Document
	if err := json.Unmarshal(w.Doc, &doc); err != nil {
		return fmt.Errorf("parsing world document: %w", err)
	}
	return savefile.Write(path, &savefile.File{
		Name:           w.Name,
		CatalogVersion: w.CatalogVersion,
		Root:           doc.Root,
	})
}

func (s *worldService) Import(ctx context.Context, path, name string) (w *repository.StoredWorld, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-world",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"path": path},
		})
	}()

	f, err := savefile.Read(path)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(f.Name)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), savefile.Extension)
	}

	raw, err := json.Marshal(accounting.Document{
		FormatVersion: accounting.DocumentVersion,
		Root:          f.Root,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding world document: %w", err)
	}

	now := time.Now().UTC()
	w = &repository.StoredWorld{
		ID:             uuid.New().String(),
		Name:           name,
		CatalogVersion: f.CatalogVersion,
		Doc:            raw,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.worlds.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Resolve finds a world by name, exact id, or unique id prefix. An empty
// ref falls back to the last opened world.
func (s *worldService) Resolve(ctx context.Context, ref string) (*repository.StoredWorld, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		st, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		if st.LastWorldID == "" {
			return nil, ErrNoWorldSelected
		}
		return s.worlds.GetByID(ctx, st.LastWorldID)
	}

	if w, err := s.worlds.GetByName(ctx, ref); err == nil {
		return w, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if w, err := s.worlds.GetByID(ctx, ref); err == nil {
		return w, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	worlds, err := s.worlds.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*repository.StoredWorld
	for _, w := range worlds {
		if strings.HasPrefix(w.ID, ref) {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("world %q: %w", ref, repository.ErrNotFound)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, &AmbiguousWorldError{Ref: ref, Matches: names}
	}
}

// clearUnknownRecipes strips recipes the catalog no longer knows, one
// warning per affected building. The building keeps its clock and copies;
// only the recipe resets, so balances treat it as unset instead of failing
// every ancestor aggregate.
func clearUnknownRecipes(tree *accounting.Tree, cat *catalog.Catalog) []RecipeWarning {
	var warnings []RecipeWarning
	tree.Walk(func(n accounting.Node, _ int) bool {
		if n.Kind != accounting.KindBuilding || n.Recipe == "" {
			return true
		}
		if _, err := cat.Recipe(n.Recipe); err != nil {
			warnings = append(warnings, RecipeWarning{Node: n.ID, Recipe: n.Recipe})
		}
		return true
	})
	for _, w := range warnings {
		// The node exists and is a building; SetRecipe cannot fail here.
		_ = tree.SetRecipe(w.Node, "")
	}
	return warnings
}

func rememberLastWorld(ctx context.Context, settings repository.SettingsRepo, id string) error {
	st, err := settings.Get(ctx)
	if err != nil {
		return err
	}
	if st.LastWorldID == id {
		return nil
	}
	st.LastWorldID = id
	return settings.Upsert(ctx, st)
}
