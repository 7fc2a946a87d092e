package domain

import (
	"errors"
	"time"
)

var ErrInvalidTheme = errors.New("theme must be dark or light")

// Theme est la préférence d'affichage persistée avec la session.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Session est l'identité active, passée EXPLICITEMENT à chaque opération
// mutante (pas de pointeur global dans le coeur). Le snapshot User est
// toujours sanitisé : une session ne transporte jamais de hash.
type Session struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewSession(user *User, token string) *Session {
	return &Session{
		User:      user.Sanitized(),
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
}

// UserID tolère une session nil : les services l'utilisent pour
// échouer fermé (ErrNoSession) sans déréférencement.
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}
