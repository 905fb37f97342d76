package users

import (
	"context"
	"fmt"

	"github.com/taxpay/taxpay/backend/go-services/internal/models"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
)

// Collection is the store collection holding user records.
const Collection = "user"

// UserRepository defines persistence operations for users
type UserRepository interface {
	// FindByEmail returns the first user with the given email, or nil when none exists.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (string, error)
}

// StoreUserRepository implements UserRepository on top of the document store.
type StoreUserRepository struct {
	st store.Store
}

// NewStoreUserRepository creates a repository over st.
func NewStoreUserRepository(st store.Store) *StoreUserRepository {
	return &StoreUserRepository{st: st}
}

func (r *StoreUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	recs, err := r.st.Query(ctx, Collection, store.Fields{"email": email}, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	var u models.User
	if err := store.Decode(recs[0], &u); err != nil {
		return nil, fmt.Errorf("user %s: %w", recs[0].ID(), err)
	}
	return &u, nil
}

func (r *StoreUserRepository) Create(ctx context.Context, u *models.User) (string, error) {
	id, err := r.st.Create(ctx, Collection, store.Fields{
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"name":          u.Name,
		"pan":           u.PAN,
	})
	if err != nil {
		return "", err
	}
	u.ID = id
	return id, nil
}
