package domain

import (
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// --- ERREURS DU DOMAINE (IDENTITÉ & SESSION) ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrMissingField       = errors.New("name, email, username and password are required")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrNoSession          = errors.New("no active session")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid session token")
)

// MinPasswordLength est le minimum accepté à l'inscription.
const MinPasswordLength = 6

// --- ENTITÉ ---

// User est l'agrégat identité : credentials, profil, graphe de suivi
// et marque-pages. Les tags JSON fixent le format persisté.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"profilePic"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	SavedPosts   []string  `json:"savedPosts"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// --- FACTORY (CONSTRUCTEUR) ---

// NewUser crée une instance valide. C'est le SEUL moyen de créer un user
// proprement : l'identité est générée ici, l'email est normalisé en
// minuscules, et les invariants bloquants sont vérifiés.
func NewUser(name, email, passwordHash, username, bio, avatarURL string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)

	if name == "" || email == "" || username == "" || passwordHash == "" {
		return nil, ErrMissingField
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		avatarURL = defaultAvatarURL(name)
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Bio:          strings.TrimSpace(bio),
		AvatarURL:    avatarURL,
		Followers:    []string{},
		Following:    []string{},
		SavedPosts:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// --- COMPORTEMENTS (MÉTHODES MÉTIER) ---

// UpdateProfile modifie les champs non critiques. Email et mot de passe ne
// passent JAMAIS par ici : ils n'existent pas dans la signature.
func (u *User) UpdateProfile(name, bio, avatarURL *string) {
	if name != nil && strings.TrimSpace(*name) != "" {
		u.Name = strings.TrimSpace(*name)
	}
	if bio != nil {
		u.Bio = strings.TrimSpace(*bio)
	}
	if avatarURL != nil && strings.TrimSpace(*avatarURL) != "" {
		u.AvatarURL = strings.TrimSpace(*avatarURL)
	}
	u.touch()
}

// AddFollowing ajoute targetID au set "following". Retourne false si la
// relation existait déjà (opération idempotente).
func (u *User) AddFollowing(targetID string) bool {
	if contains(u.Following, targetID) {
		return false
	}
	u.Following = append(u.Following, targetID)
	u.touch()
	return true
}

func (u *User) RemoveFollowing(targetID string) bool {
	var removed bool
	u.Following, removed = remove(u.Following, targetID)
	if removed {
		u.touch()
	}
	return removed
}

func (u *User) AddFollower(actorID string) bool {
	if contains(u.Followers, actorID) {
		return false
	}
	u.Followers = append(u.Followers, actorID)
	u.touch()
	return true
}

func (u *User) RemoveFollower(actorID string) bool {
	var removed bool
	u.Followers, removed = remove(u.Followers, actorID)
	if removed {
		u.touch()
	}
	return removed
}

func (u *User) IsFollowing(targetID string) bool {
	return contains(u.Following, targetID)
}

// SavePost ajoute un marque-page. Idempotent, comme les likes.
func (u *User) SavePost(postID string) bool {
	if contains(u.SavedPosts, postID) {
		return false
	}
	u.SavedPosts = append(u.SavedPosts, postID)
	u.touch()
	return true
}

func (u *User) UnsavePost(postID string) bool {
	var removed bool
	u.SavedPosts, removed = remove(u.SavedPosts, postID)
	if removed {
		u.touch()
	}
	return removed
}

func (u *User) HasSaved(postID string) bool {
	return contains(u.SavedPosts, postID)
}

// Sanitized retourne une copie profonde SANS le hash du mot de passe.
// Toute projection qui sort du coeur (session, listings, recherche) doit
// passer par ici : le hash ne traverse jamais la frontière.
func (u *User) Sanitized() *User {
	var clone User
	_ = copier.CopyWithOption(&clone, u, copier.Option{DeepCopy: true})
	clone.PasswordHash = ""
	return &clone
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

// --- VALIDATEURS & HELPERS INTERNES ---

// NormalizeEmail applique la forme canonique utilisée partout
// (comparaisons d'unicité comprises) : trim + minuscules.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// defaultAvatarURL pointe vers un service d'avatars générés à partir du nom.
func defaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func remove(set []string, id string) ([]string, bool) {
	for i, v := range set {
		if v == id {
			return append(set[:i], set[i+1:]...), true
		}
	}
	return set, false
}
