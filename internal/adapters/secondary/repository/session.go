package repository

import (
	"context"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// Clés du bucket "session". Le pointeur d'identité courante et le thème
// partagent le même bucket : ce sont les deux seules valeurs singleton.
const (
	keyCurrentUser = "currentUser"
	keyTheme       = "theme"
)

// SessionRepo implémente ports.SessionRepository.
var _ ports.SessionRepository = (*SessionRepo)(nil)

type SessionRepo struct {
	store *Store
}

func NewSessionRepo(store *Store) *SessionRepo {
	return &SessionRepo{store: store}
}

func (r *SessionRepo) SaveSession(ctx context.Context, sess *domain.Session) error {
	return r.store.put(bucketSession, keyCurrentUser, sess)
}

func (r *SessionRepo) CurrentSession(ctx context.Context) (*domain.Session, error) {
	var sess domain.Session
	found, err := r.store.get(bucketSession, keyCurrentUser, &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNoSession
	}
	return &sess, nil
}

func (r *SessionRepo) ClearSession(ctx context.Context) error {
	return r.store.delete(bucketSession, keyCurrentUser)
}

// Theme retourne dark par défaut.
func (r *SessionRepo) Theme(ctx context.Context) (domain.Theme, error) {
	var theme domain.Theme
	found, err := r.store.get(bucketSession, keyTheme, &theme)
	if err != nil {
		return "", err
	}
	if !found || !theme.Valid() {
		return domain.ThemeDark, nil
	}
	return theme, nil
}

func (r *SessionRepo) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return domain.ErrInvalidTheme
	}
	return r.store.put(bucketSession, keyTheme, theme)
}
