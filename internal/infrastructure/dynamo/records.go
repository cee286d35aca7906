package dynamo

import (
	"context"

	"github.com/tips-admin-api/internal/domain"
)

// RecordRepo stores the rows of every admin section in one table.
// PK: resource, SK: record_id.
type RecordRepo struct {
	t table[domain.Record]
}

func NewRecordRepo(api API, tableName string) *RecordRepo {
	return &RecordRepo{t: table[domain.Record]{api: api, name: tableName, kind: "record"}}
}

// ListAll returns every row of a section.
func (r *RecordRepo) ListAll(ctx context.Context, resource string) ([]domain.Record, error) {
	return r.t.partition(ctx, "resource", resource)
}

func (r *RecordRepo) Get(ctx context.Context, resource, recordID string) (*domain.Record, error) {
	return r.t.get(ctx, compositeKey("resource", resource, "record_id", recordID), false)
}
