package resource

import (
	"context"
	"fmt"
	"sort"

	"github.com/tips-admin-api/internal/domain"
	"github.com/tips-admin-api/internal/pkg/paginate"
)

type RecordStore interface {
	ListAll(ctx context.Context, resource string) ([]domain.Record, error)
	Get(ctx context.Context, resource, recordID string) (*domain.Record, error)
}

// Service reads the rows shown on the admin section pages.
type Service interface {
	List(ctx context.Context, resource string, page, perPage int) (paginate.Page[domain.Record], error)
	Get(ctx context.Context, resource, recordID string) (*domain.Record, error)
}

type service struct {
	records RecordStore
}

func NewService(records RecordStore) Service {
	return &service{records: records}
}

// List loads the whole section and slices out one page, newest first.
func (s *service) List(ctx context.Context, resource string, page, perPage int) (paginate.Page[domain.Record], error) {
	if !domain.IsResource(resource) {
		return paginate.Page[domain.Record]{}, fmt.Errorf("unknown section %q: %w", resource, domain.ErrNotFound)
	}
	all, err := s.records.ListAll(ctx, resource)
	if err != nil {
		return paginate.Page[domain.Record]{}, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate.Slice(all, page, perPage), nil
}

func (s *service) Get(ctx context.Context, resource, recordID string) (*domain.Record, error) {
	if !domain.IsResource(resource) {
		return nil, fmt.Errorf("unknown section %q: %w", resource, domain.ErrNotFound)
	}
	return s.records.Get(ctx, resource, recordID)
}
