package repositories

import (
	"context"
	"fmt"
	"strings"

	"marketplace/internal/models"
	"marketplace/internal/store"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Mutate(ctx context.Context, fn func([]models.User) ([]models.User, error)) error
}

// CollectionUserRepository stores users in the users collection.
type CollectionUserRepository struct {
	users *store.Collection[models.User]
}

// NewUserRepository creates a new instance of CollectionUserRepository.
func NewUserRepository(db *store.DB) *CollectionUserRepository {
	return &CollectionUserRepository{
		users: store.NewCollection[models.User](db, store.Users),
	}
}

func (r *CollectionUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return r.users.Load(ctx)
}

// GetByID retrieves a user by their ID.
func (r *CollectionUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	users, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user with ID %d: %w", id, models.ErrNotFound)
}

// GetByEmail retrieves a user by email, ignoring case.
func (r *CollectionUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := IndexOfEmail(users, email); i >= 0 {
		return &users[i], nil
	}
	return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
}

func (r *CollectionUserRepository) Mutate(ctx context.Context, fn func([]models.User) ([]models.User, error)) error {
	return r.users.Update(ctx, fn)
}

// IndexOfEmail returns the position of the user owning email, or -1.
func IndexOfEmail(users []models.User, email string) int {
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return i
		}
	}
	return -1
}
