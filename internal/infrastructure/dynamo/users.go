package dynamo

import (
	"context"

	"github.com/tips-admin-api/internal/domain"
)

// UserRepo stores dashboard staff. PK: user_id; GSIs on username, email and phone.
type UserRepo struct {
	t table[domain.User]
}

func NewUserRepo(api API, tableName string) *UserRepo {
	return &UserRepo{t: table[domain.User]{api: api, name: tableName, kind: "user"}}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error { return r.t.put(ctx, u) }

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	return r.t.get(ctx, strKey("user_id", userID), false)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.t.first(ctx, "username-index", "username", username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.t.first(ctx, "email-index", "email", email)
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.t.first(ctx, "phone-index", "phone", phone)
}

func (r *UserRepo) SetPasswordHash(ctx context.Context, userID, hash string) error {
	return r.t.update(ctx, strKey("user_id", userID), map[string]interface{}{fieldPasswordHash: hash})
}

// MarkConfirmed flags the channel ("phone" | "email") as confirmed.
func (r *UserRepo) MarkConfirmed(ctx context.Context, userID, channel string) error {
	field := fieldEmailConfirmed
	if channel == domain.ChannelPhone {
		field = fieldPhoneConfirmed
	}
	return r.t.update(ctx, strKey("user_id", userID), map[string]interface{}{field: true})
}
