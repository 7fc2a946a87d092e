package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/orbite/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---
// Des structs plutôt que des listes d'arguments : on peut ajouter des
// champs optionnels plus tard sans casser les signatures.

type RegisterCmd struct {
	Name      string
	Email     string
	Password  string
	Username  string
	Bio       string // optionnel
	AvatarURL string // optionnel, avatar généré si vide
}

type LoginCmd struct {
	Email    string
	Password string
}

// UpdateProfileCmd : pointeur = champ à modifier, nil = inchangé.
// Email et mot de passe sont volontairement absents de ce type : une mise
// à jour de profil ne peut PAS les toucher, même par accident.
type UpdateProfileCmd struct {
	Name      *string
	Bio       *string
	AvatarURL *string
}

type CreatePostCmd struct {
	Text     string
	ImageURL string
	LinkURL  string
}

type UpdatePostCmd struct {
	Text     *string
	ImageURL *string
	LinkURL  *string
}

// --- OUTPUTS ---

type AuthResponse struct {
	User      *domain.User // snapshot sanitisé, jamais de hash
	Token     string
	ExpiresIn time.Duration
}

type UserStats struct {
	Posts     int
	Followers int
	Following int
}

// --- PORTS PRIMAIRES (Driving) ---
// L'API que le coeur expose aux adaptateurs de présentation.

// IdentityService couvre l'identité, le graphe de suivi, la session
// persistée et les préférences (thème).
type IdentityService interface {
	// Authentification
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*domain.Session, error)

	// Profil
	UpdateProfile(ctx context.Context, sess *domain.Session, cmd UpdateProfileCmd) (*domain.User, error)

	// Graphe de suivi
	Follow(ctx context.Context, sess *domain.Session, targetID string) error
	Unfollow(ctx context.Context, sess *domain.Session, targetID string) error
	IsFollowing(ctx context.Context, sess *domain.Session, targetID string) (bool, error)

	// Projections (toujours sanitisées)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, sess *domain.Session) ([]*domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]*domain.User, error)
	UserStats(ctx context.Context, userID string) (*UserStats, error)

	// Préférences
	Theme(ctx context.Context) (domain.Theme, error)
	SetTheme(ctx context.Context, theme domain.Theme) error
}

// PostService : toute opération mutante exige une session non nil et
// échoue fermé (ErrNoSession) sinon.
type PostService interface {
	Create(ctx context.Context, sess *domain.Session, cmd CreatePostCmd) (*domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	GetAll(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	Update(ctx context.Context, sess *domain.Session, postID string, cmd UpdatePostCmd) (*domain.Post, error)
	Delete(ctx context.Context, sess *domain.Session, postID string) error

	Like(ctx context.Context, sess *domain.Session, postID string) error
	Unlike(ctx context.Context, sess *domain.Session, postID string) error
	IsLiked(ctx context.Context, sess *domain.Session, postID string) (bool, error)

	AddComment(ctx context.Context, sess *domain.Session, postID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, sess *domain.Session, postID, commentID string) error

	SavePost(ctx context.Context, sess *domain.Session, postID string) error
	UnsavePost(ctx context.Context, sess *domain.Session, postID string) error
	IsSaved(ctx context.Context, sess *domain.Session, postID string) (bool, error)
	ListSaved(ctx context.Context, sess *domain.Session) ([]*domain.Post, error)

	Search(ctx context.Context, query string) ([]*domain.Post, error)
}

// NotificationService. La partie "Record*" est l'ingestion pilotée par le
// bus d'événements ; le reste est la lecture du ledger.
type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Clear(ctx context.Context, userID string) error

	// Ingestion (événements)
	RecordLike(ctx context.Context, ev domain.PostLikedEvent) error
	RecordComment(ctx context.Context, ev domain.CommentAddedEvent) error
	RecordFollow(ctx context.Context, ev domain.UserFollowedEvent) error
}
