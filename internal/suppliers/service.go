package suppliers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mawrid/mawrid/internal/shared"
)

// WriteObserver is notified about completed writes.
type WriteObserver interface {
	ObserveWrite(op string, err error)
}

// Service validates and normalizes input in front of a Store.
type Service struct {
	store    Store
	cache    *Cache
	logger   *slog.Logger
	observer WriteObserver
}

// NewService constructs a Service. cache may be nil.
func NewService(store Store, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, logger: logger}
}

// WithObserver attaches a write observer.
func (s *Service) WithObserver(o WriteObserver) *Service {
	s.observer = o
	return s
}

// ListAll returns every supplier, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Supplier, error) {
	list, err := s.cache.Suppliers(ctx, s.store.List)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return list, nil
}

// Search runs the backend OR-substring query across name and phone columns.
// An empty query lists everything.
func (s *Service) Search(ctx context.Context, query string) ([]Supplier, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListAll(ctx)
	}
	list, err := s.store.Search(ctx, strings.ToLower(query))
	if err != nil {
		return nil, &StorageError{Op: "search", Err: err}
	}
	return list, nil
}

// Page fetches one backend-paginated slice, newest first.
func (s *Service) Page(ctx context.Context, page, perPage int) ([]Supplier, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.store.ListPage(ctx, (p.Page-1)*p.PerPage, p.PerPage)
	if err != nil {
		return nil, p, &StorageError{Op: "page", Err: err}
	}
	return items, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// GetByID fetches exactly one supplier.
func (s *Service) GetByID(ctx context.Context, id string) (Supplier, error) {
	sup, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Supplier{}, &NotFoundError{ID: id}
		}
		return Supplier{}, &StorageError{Op: "get", Err: err}
	}
	return sup, nil
}

// Create validates, normalizes and inserts a supplier.
func (s *Service) Create(ctx context.Context, in Input) (Supplier, error) {
	if err := Validate(in); err != nil {
		return Supplier{}, err
	}
	created, err := s.store.Insert(ctx, Normalize(in))
	s.afterWrite(ctx, "create", err)
	if err != nil {
		return Supplier{}, &StorageError{Op: "create", Err: err}
	}
	return created, nil
}

// Update validates, normalizes and writes a supplier. An id that matches no
// row is reported as a storage failure.
func (s *Service) Update(ctx context.Context, id string, in Input) (Supplier, error) {
	if err := Validate(in); err != nil {
		return Supplier{}, err
	}
	updated, err := s.store.Update(ctx, id, Normalize(in))
	if errors.Is(err, ErrNoRows) {
		err = fmt.Errorf("no supplier with id %s was updated: %w", id, err)
	}
	s.afterWrite(ctx, "update", err)
	if err != nil {
		return Supplier{}, &StorageError{Op: "update", Err: err}
	}
	return updated, nil
}

// Delete removes a supplier without an existence check.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	s.afterWrite(ctx, "delete", err)
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// Refresh drops the cached list and loads it again.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("directory cache bump", slog.Any("error", err))
	}
	list, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (s *Service) afterWrite(ctx context.Context, op string, err error) {
	if s.observer != nil {
		s.observer.ObserveWrite(op, err)
	}
	if err != nil {
		return
	}
	if bumpErr := s.cache.Bump(ctx); bumpErr != nil {
		s.logger.Warn("directory cache bump", slog.String("op", op), slog.Any("error", bumpErr))
	}
}
