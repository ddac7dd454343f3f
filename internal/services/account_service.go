package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// AccountService is the admin side of user management.
type AccountService struct {
	users  repositories.UserRepository
	hasher PasswordHasher
	policy models.IDPolicy
	log    zerolog.Logger
}

func NewAccountService(users repositories.UserRepository, hasher PasswordHasher, policy models.IDPolicy, log zerolog.Logger) *AccountService {
	return &AccountService{
		users:  users,
		hasher: hasher,
		policy: policy,
		log:    log,
	}
}

// AddUser creates an account with any role; the role defaults to shopper.
func (s *AccountService) AddUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleShopper
	}
	return createUser(ctx, s.users, s.hasher, in)
}

// DeleteUser removes user id. Under the compact id policy every remaining user
// is renumbered to its position, so ids held elsewhere (carts, wishlists,
// products) may now point at a different user. Tokens issued to a renumbered
// account stop verifying.
func (s *AccountService) DeleteUser(ctx context.Context, id int) error {
	err := s.users.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		idx := -1
		for i := range users {
			if users[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("user with ID %d: %w", id, models.ErrNotFound)
		}
		users = append(users[:idx], users[idx+1:]...)
		if s.policy == models.IDPolicyCompact {
			models.Compact(users)
		}
		return users, nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Int("user_id", id).Str("id_policy", string(s.policy)).Msg("user deleted")
	return nil
}

// EditUser applies the non-empty fields of patch to user id.
func (s *AccountService) EditUser(ctx context.Context, id int, patch models.UserPatch) (*models.User, error) {
	patch = dropEmpty(patch)
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	var edited models.User
	err := s.users.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		idx := -1
		for i := range users {
			if users[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("user with ID %d: %w", id, models.ErrNotFound)
		}
		u := &users[idx]
		if patch.Email != nil {
			if j := repositories.IndexOfEmail(users, *patch.Email); j >= 0 && j != idx {
				return nil, fmt.Errorf("%w: email '%s' already registered", models.ErrInvalidInput, *patch.Email)
			}
			u.Email = *patch.Email
		}
		if patch.Username != nil {
			u.Username = *patch.Username
		}
		if patch.Role != nil {
			u.Role = *patch.Role
		}
		edited = *u
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	edited = edited.Public()
	return &edited, nil
}

// ListUsers returns every non-admin account without password hashes.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	listed := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			continue
		}
		listed = append(listed, u.Public())
	}
	return listed, nil
}

// EnsureAdmin creates an admin account unless one already exists.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			return false, nil
		}
	}
	admin, err := s.AddUser(ctx, models.NewUser{Username: username, Email: email, Password: password, Role: models.RoleAdmin})
	if err != nil {
		return false, err
	}
	s.log.Info().Int("user_id", admin.ID).Str("email", admin.Email).Msg("bootstrap admin created")
	return true, nil
}

// createUser hashes the password and appends the user with the next id. Emails
// are unique ignoring case.
func createUser(ctx context.Context, repo repositories.UserRepository, hasher PasswordHasher, in models.NewUser) (*models.User, error) {
	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var created models.User
	err = repo.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		if repositories.IndexOfEmail(users, in.Email) >= 0 {
			return nil, fmt.Errorf("%w: email '%s' already registered", models.ErrInvalidInput, in.Email)
		}
		created = models.User{
			ID:       models.NextID(users),
			Username: in.Username,
			Email:    in.Email,
			Password: hash,
			Role:     in.Role,
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, err
	}
	created = created.Public()
	return &created, nil
}

func dropEmpty(p models.UserPatch) models.UserPatch {
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		p.Username = nil
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		p.Email = nil
	}
	if p.Role != nil && *p.Role == "" {
		p.Role = nil
	}
	return p
}
