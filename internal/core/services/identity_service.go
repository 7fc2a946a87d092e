package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// IdentityService implémente ports.IdentityService.
// Il orchestre identité, session persistée, graphe de suivi et thème.
var _ ports.IdentityService = (*IdentityService)(nil)

type IdentityService struct {
	users    ports.UserRepository
	posts    ports.PostRepository // pour UserStats uniquement
	sessions ports.SessionRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenProvider
	broker   ports.EventPublisher
}

func NewIdentityService(
	users ports.UserRepository,
	posts ports.PostRepository,
	sessions ports.SessionRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenProvider,
	broker ports.EventPublisher,
) *IdentityService {
	return &IdentityService{
		users:    users,
		posts:    posts,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		broker:   broker,
	}
}

// --- AUTHENTIFICATION ---

func (s *IdentityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	// 1. Fail fast : champs requis et longueur du mot de passe,
	// avant de payer un hachage Argon2 pour rien.
	if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Email) == "" ||
		strings.TrimSpace(cmd.Username) == "" || cmd.Password == "" {
		return nil, domain.ErrMissingField
	}
	if len(cmd.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	// 2. Unicité email + username, insensible à la casse.
	if _, err := s.users.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if _, err := s.users.GetByUsername(ctx, cmd.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	}

	// 3. Hachage du mot de passe. Le mot de passe en clair s'arrête ici.
	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	// 4. Création de l'agrégat (validation des invariants dans NewUser).
	user, err := domain.NewUser(cmd.Name, cmd.Email, hash, cmd.Username, cmd.Bio, cmd.AvatarURL)
	if err != nil {
		return nil, err
	}

	// 5. Persistance puis ouverture de session.
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("repository save failed: %w", err)
	}

	return s.openSession(ctx, user)
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	// Email inconnu et mot de passe faux restent deux erreurs DISTINCTES :
	// la présentation affiche "sign up first" dans le premier cas.
	// Appli locale, pas d'énumération d'emails à craindre.
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Logout efface uniquement le pointeur de session. Les collections
// (users, posts, notifications) restent intactes.
func (s *IdentityService) Logout(ctx context.Context) error {
	return s.sessions.ClearSession(ctx)
}

// CurrentSession recharge la session persistée et vérifie son jeton.
// Un jeton expiré ou altéré purge la session avant de remonter l'erreur.
func (s *IdentityService) CurrentSession(ctx context.Context) (*domain.Session, error) {
	sess, err := s.sessions.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	userID, err := s.tokens.Validate(sess.Token)
	if err != nil {
		_ = s.sessions.ClearSession(ctx)
		return nil, domain.ErrSessionExpired
	}
	if userID != sess.UserID() {
		_ = s.sessions.ClearSession(ctx)
		return nil, domain.ErrInvalidToken
	}

	return sess, nil
}

// openSession signe un jeton, persiste le snapshot sanitisé et assemble
// la réponse. Mutualisé entre Register et Login.
func (s *IdentityService) openSession(ctx context.Context, user *domain.User) (*ports.AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	sess := domain.NewSession(user, token)
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("session save failed: %w", err)
	}

	return &ports.AuthResponse{
		User:      sess.User,
		Token:     token,
		ExpiresIn: s.tokens.TTL(),
	}, nil
}

// --- PROFIL ---

func (s *IdentityService) UpdateProfile(ctx context.Context, sess *domain.Session, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	if sess.UserID() == "" {
		return nil, domain.ErrNoSession
	}

	user, err := s.users.GetByID(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	// Le type UpdateProfileCmd ne transporte ni email ni mot de passe :
	// impossible de les modifier par ce chemin, même par accident.
	user.UpdateProfile(cmd.Name, cmd.Bio, cmd.AvatarURL)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}

	if err := s.refreshSession(ctx, sess, user); err != nil {
		return nil, err
	}

	return user.Sanitized(), nil
}

// refreshSession réécrit le snapshot persisté après toute mutation de
// l'utilisateur courant, en conservant le jeton existant.
func (s *IdentityService) refreshSession(ctx context.Context, sess *domain.Session, user *domain.User) error {
	fresh := domain.NewSession(user, sess.Token)
	fresh.CreatedAt = sess.CreatedAt
	if err := s.sessions.SaveSession(ctx, fresh); err != nil {
		return fmt.Errorf("session refresh failed: %w", err)
	}
	sess.User = fresh.User
	return nil
}

// --- GRAPHE DE SUIVI ---

func (s *IdentityService) Follow(ctx context.Context, sess *domain.Session, targetID string) error {
	actorID := sess.UserID()
	if actorID == "" {
		return domain.ErrNoSession
	}
	if actorID == targetID {
		return domain.ErrSelfFollow
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	// Mutation symétrique des deux sets. Idempotent : re-suivre
	// quelqu'un ne duplique rien et ne re-notifie pas.
	added := actor.AddFollowing(targetID)
	target.AddFollower(actorID)

	if err := s.users.Update(ctx, actor); err != nil {
		return fmt.Errorf("follow: update actor: %w", err)
	}
	if err := s.users.Update(ctx, target); err != nil {
		return fmt.Errorf("follow: update target: %w", err)
	}
	if err := s.refreshSession(ctx, sess, actor); err != nil {
		return err
	}

	if added {
		// Best effort : une notification perdue ne casse pas le follow.
		_ = s.broker.PublishUserFollowed(ctx, domain.UserFollowedEvent{
			TargetID:  targetID,
			ActorID:   actorID,
			ActorName: actor.Name,
		})
	}

	return nil
}

func (s *IdentityService) Unfollow(ctx context.Context, sess *domain.Session, targetID string) error {
	actorID := sess.UserID()
	if actorID == "" {
		return domain.ErrNoSession
	}
	if actorID == targetID {
		return domain.ErrSelfFollow
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	actor.RemoveFollowing(targetID)
	target.RemoveFollower(actorID)

	if err := s.users.Update(ctx, actor); err != nil {
		return fmt.Errorf("unfollow: update actor: %w", err)
	}
	if err := s.users.Update(ctx, target); err != nil {
		return fmt.Errorf("unfollow: update target: %w", err)
	}

	return s.refreshSession(ctx, sess, actor)
}

func (s *IdentityService) IsFollowing(ctx context.Context, sess *domain.Session, targetID string) (bool, error) {
	if sess.UserID() == "" {
		return false, domain.ErrNoSession
	}

	// Relecture depuis le store : le snapshot de session peut être en
	// retard d'une mutation faite dans un autre process.
	actor, err := s.users.GetByID(ctx, sess.UserID())
	if err != nil {
		return false, err
	}
	return actor.IsFollowing(targetID), nil
}

// --- PROJECTIONS (LECTURE SEULE, SANITISÉES) ---

func (s *IdentityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// ListUsers retourne tout le monde sauf l'utilisateur de la session.
func (s *IdentityService) ListUsers(ctx context.Context, sess *domain.Session) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if u.ID == sess.UserID() {
			continue
		}
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// SearchUsers : sous-chaîne insensible à la casse sur nom, username et bio.
func (s *IdentityService) SearchUsers(ctx context.Context, query string) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var out []*domain.User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Bio), q) {
			out = append(out, u.Sanitized())
		}
	}
	return out, nil
}

func (s *IdentityService) UserStats(ctx context.Context, userID string) (*ports.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.posts.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats: count posts: %w", err)
	}

	return &ports.UserStats{
		Posts:     count,
		Followers: len(user.Followers),
		Following: len(user.Following),
	}, nil
}

// --- PRÉFÉRENCES ---

func (s *IdentityService) Theme(ctx context.Context) (domain.Theme, error) {
	return s.sessions.Theme(ctx)
}

func (s *IdentityService) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return domain.ErrInvalidTheme
	}
	return s.sessions.SetTheme(ctx, theme)
}
