package dynamo

import (
	"context"

	"github.com/tips-admin-api/internal/domain"
)

// VerificationRepo keeps one pending OTP per user and channel.
// PK: user_id, SK: type. expires_at is the table TTL.
type VerificationRepo struct {
	t table[domain.UserVerification]
}

func NewVerificationRepo(api API, tableName string) *VerificationRepo {
	return &VerificationRepo{t: table[domain.UserVerification]{api: api, name: tableName, kind: "verification"}}
}

func (r *VerificationRepo) Put(ctx context.Context, v *domain.UserVerification) error {
	return r.t.put(ctx, v)
}

func (r *VerificationRepo) Get(ctx context.Context, userID, channel string) (*domain.UserVerification, error) {
	return r.t.get(ctx, compositeKey("user_id", userID, "type", channel), true)
}

func (r *VerificationRepo) Delete(ctx context.Context, userID, channel string) error {
	return r.t.remove(ctx, compositeKey("user_id", userID, "type", channel))
}
