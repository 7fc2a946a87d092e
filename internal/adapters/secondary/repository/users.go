package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// UserRepo implémente ports.UserRepository sur le bucket "users"
// (clé = id, valeur = User JSON).
var _ ports.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	return r.store.put(bucketUsers, user.ID, user)
}

// Update exige que l'enregistrement existe déjà, comme le RowsAffected
// d'un UPDATE SQL.
func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	var existing domain.User
	found, err := r.store.get(bucketUsers, user.ID, &existing)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrUserNotFound
	}
	return r.store.put(bucketUsers, user.ID, user)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	found, err := r.store.get(bucketUsers, id, &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound // absence technique -> erreur du domaine
	}
	return &u, nil
}

// GetByEmail scanne le bucket : pas d'index secondaire, l'échelle visée
// (un profil local) ne le justifie pas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.findFirst(func(u *domain.User) bool {
		return strings.EqualFold(u.Email, email)
	})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	return r.findFirst(func(u *domain.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

// List retourne les utilisateurs par date d'inscription croissante
// (l'ordre des clés bbolt est celui des UUID, donc arbitraire).
func (r *UserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.store.forEach(bucketUsers, func(_, v []byte) error {
		var u domain.User
		if err := json.Unmarshal(v, &u); err != nil {
			return err
		}
		users = append(users, &u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserRepo) findFirst(match func(*domain.User) bool) (*domain.User, error) {
	var out *domain.User
	err := r.store.forEach(bucketUsers, func(_, v []byte) error {
		if out != nil {
			return nil
		}
		var u domain.User
		if err := json.Unmarshal(v, &u); err != nil {
			return err
		}
		if match(&u) {
			out = &u
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.ErrUserNotFound
	}
	return out, nil
}
