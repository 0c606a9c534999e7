package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/store"
)

// StoreUserRepository keeps users in the "users" document. The highest ID
// ever handed out is tracked under "usersSeq" so deleted IDs are not reused.
type StoreUserRepository struct {
	store  store.Store
	users  store.Collection[models.User]
	seq    store.Value[int64]
	logger *slog.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(s store.Store, logger *slog.Logger) UserRepository {
	logger = logger.With("repository", "users")
	return &StoreUserRepository{
		store:  s,
		users:  store.NewCollection[models.User](store.KeyUsers, logger),
		seq:    store.NewValue[int64](store.KeyUsersSeq, logger),
		logger: logger,
	}
}

// Create stores a new user with the next free ID.
func (r *StoreUserRepository) Create(ctx context.Context, user *models.User) error {
	var assigned int64

	err := transact(ctx, r.store, func(tx store.Store) error {
		seq, _, err := r.seq.Load(ctx, tx)
		if err != nil {
			return err
		}

		_, err = r.users.Mutate(ctx, tx, func(users []models.User) ([]models.User, error) {
			highest := seq
			for _, u := range users {
				if u.Username == user.Username {
					return nil, ErrDuplicate
				}
				if u.UserID > highest {
					highest = u.UserID
				}
			}

			assigned = highest + 1
			created := *user
			created.UserID = assigned
			return append(users, created), nil
		})
		if err != nil {
			return err
		}

		return r.seq.Save(ctx, tx, assigned)
	})
	if err != nil {
		return err
	}

	user.UserID = assigned
	r.logger.Info("user created", "user_id", assigned, "role", user.Role)
	return nil
}

// Seed writes users verbatim if the users document does not exist yet.
func (r *StoreUserRepository) Seed(ctx context.Context, users []models.User) (bool, error) {
	seeded := false

	err := transact(ctx, r.store, func(tx store.Store) error {
		seeded = false
		if _, _, err := tx.Get(ctx, store.KeyUsers); err == nil {
			return nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		var highest int64
		for _, u := range users {
			if u.UserID > highest {
				highest = u.UserID
			}
		}

		if _, err := r.users.Mutate(ctx, tx, func([]models.User) ([]models.User, error) {
			return users, nil
		}); err != nil {
			return err
		}
		if err := r.seq.Save(ctx, tx, highest); err != nil {
			return err
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed users: %w", err)
	}

	if seeded {
		r.logger.Info("seeded default users", "count", len(users))
	}
	return seeded, nil
}

// FindByID finds a user by ID
func (r *StoreUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool {
		return u.UserID == id
	})
}

// FindByUsername finds a user by username
func (r *StoreUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, func(u models.User) bool {
		return u.Username == username
	})
}

func (r *StoreUserRepository) find(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	users, _, err := r.users.Load(ctx, r.store)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// List returns all users
func (r *StoreUserRepository) List(ctx context.Context) ([]models.User, error) {
	users, _, err := r.users.Load(ctx, r.store)
	return users, err
}

// Update applies fn to a copy of the user and stores it. The user ID never
// changes and the username must stay unique.
func (r *StoreUserRepository) Update(ctx context.Context, id int64, fn func(user *models.User) error) (*models.User, error) {
	var updated models.User

	_, err := r.users.Mutate(ctx, r.store, func(users []models.User) ([]models.User, error) {
		idx := -1
		for i, u := range users {
			if u.UserID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrNotFound
		}

		updated = users[idx]
		if err := fn(&updated); err != nil {
			return nil, err
		}
		updated.UserID = id

		for i, u := range users {
			if i != idx && u.Username == updated.Username {
				return nil, ErrDuplicate
			}
		}

		next := append([]models.User(nil), users...)
		next[idx] = updated
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes a user and keeps its ID reserved.
func (r *StoreUserRepository) Delete(ctx context.Context, id int64) error {
	return transact(ctx, r.store, func(tx store.Store) error {
		if _, err := r.users.Mutate(ctx, tx, func(users []models.User) ([]models.User, error) {
			next := make([]models.User, 0, len(users))
			for _, u := range users {
				if u.UserID != id {
					next = append(next, u)
				}
			}
			if len(next) == len(users) {
				return nil, ErrNotFound
			}
			return next, nil
		}); err != nil {
			return err
		}

		seq, _, err := r.seq.Load(ctx, tx)
		if err != nil {
			return err
		}
		if id > seq {
			return r.seq.Save(ctx, tx, id)
		}
		return nil
	})
}
