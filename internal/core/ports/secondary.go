package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/orbite/internal/core/domain"
)

// --- PERSISTANCE (STORE LOCAL) ---

// UserRepository est un port Driven. Les lookups email/username sont
// insensibles à la casse : c'est le repo qui porte cette règle, comme
// une contrainte UNIQUE le ferait en base.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// PostRepository. Les listings sortent déjà triés du plus récent au plus
// ancien (CreatedAt décroissant), comme un ORDER BY.
type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, postID string) error
	GetByID(ctx context.Context, postID string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}

// NotificationRepository : append + flag Read + purge par destinataire.
// Les mutations de masse (MarkAllRead, ClearByRecipient) sont ici pour
// tenir dans une seule transaction du store.
type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, userID string) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	ClearByRecipient(ctx context.Context, userID string) error
}

// SessionRepository gère le pointeur "utilisateur courant" persisté
// (au plus une identité active par store) et la préférence de thème.
type SessionRepository interface {
	SaveSession(ctx context.Context, sess *domain.Session) error
	CurrentSession(ctx context.Context) (*domain.Session, error) // ErrNoSession si absent
	ClearSession(ctx context.Context) error
	Theme(ctx context.Context) (domain.Theme, error) // défaut : dark
	SetTheme(ctx context.Context, theme domain.Theme) error
}

// --- SÉCURITÉ (CRYPTO) ---

// PasswordHasher abstrait l'algorithme de hachage (Argon2id ici).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenProvider signe et vérifie le jeton attaché à la session persistée.
type TokenProvider interface {
	Generate(user *domain.User) (string, error)
	Validate(token string) (userID string, err error)
	TTL() time.Duration
}

// --- ÉVÉNEMENTS (FAN-OUT) ---

// EventPublisher notifie le ledger qu'une interaction a eu lieu.
// Les appels sont best-effort côté services : une notification perdue
// ne fait pas échouer l'opération qui l'a produite.
type EventPublisher interface {
	PublishPostLiked(ctx context.Context, ev domain.PostLikedEvent) error
	PublishCommentAdded(ctx context.Context, ev domain.CommentAddedEvent) error
	PublishUserFollowed(ctx context.Context, ev domain.UserFollowedEvent) error
}
