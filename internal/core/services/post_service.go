package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// PostService implémente ports.PostService. Il dépend du UserRepository
// pour les marque-pages : les posts sauvegardés vivent sur le User, pas
// sur le Post.
var _ ports.PostService = (*PostService)(nil)

type PostService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	broker ports.EventPublisher
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, broker ports.EventPublisher) *PostService {
	return &PostService{posts: posts, users: users, broker: broker}
}

// --- CRUD ---

func (s *PostService) Create(ctx context.Context, sess *domain.Session, cmd ports.CreatePostCmd) (*domain.Post, error) {
	if sess.UserID() == "" {
		return nil, domain.ErrNoSession
	}

	post, err := domain.NewPost(sess.UserID(), cmd.Text, cmd.ImageURL, cmd.LinkURL)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("post save failed: %w", err)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

func (s *PostService) GetAll(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

func (s *PostService) Update(ctx context.Context, sess *domain.Session, postID string, cmd ports.UpdatePostCmd) (*domain.Post, error) {
	post, err := s.ownedPost(ctx, sess, postID)
	if err != nil {
		return nil, err
	}

	post.Apply(cmd.Text, cmd.ImageURL, cmd.LinkURL)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("post update failed: %w", err)
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, sess *domain.Session, postID string) error {
	if _, err := s.ownedPost(ctx, sess, postID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

// ownedPost charge le post et vérifie que la session en est l'auteur.
func (s *PostService) ownedPost(ctx context.Context, sess *domain.Session, postID string) (*domain.Post, error) {
	if sess.UserID() == "" {
		return nil, domain.ErrNoSession
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != sess.UserID() {
		return nil, domain.ErrNotPostAuthor
	}
	return post, nil
}

// --- LIKES ---

// Like est idempotent : un second like se solde par ErrAlreadyLiked et
// laisse le set strictement inchangé. Liker le post d'un autre déclenche
// une notification ; se liker soi-même, non.
func (s *PostService) Like(ctx context.Context, sess *domain.Session, postID string) error {
	if sess.UserID() == "" {
		return domain.ErrNoSession
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if !post.AddLike(sess.UserID()) {
		return domain.ErrAlreadyLiked
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return fmt.Errorf("like: update post: %w", err)
	}

	if post.AuthorID != sess.UserID() {
		_ = s.broker.PublishPostLiked(ctx, domain.PostLikedEvent{
			PostID:    post.ID,
			AuthorID:  post.AuthorID,
			ActorID:   sess.UserID(),
			ActorName: sess.User.Name,
		})
	}

	return nil
}

// Unlike d'un non-likeur est un no-op silencieux.
func (s *PostService) Unlike(ctx context.Context, sess *domain.Session, postID string) error {
	if sess.UserID() == "" {
		return domain.ErrNoSession
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if !post.RemoveLike(sess.UserID()) {
		return nil
	}
	return s.posts.Update(ctx, post)
}

func (s *PostService) IsLiked(ctx context.Context, sess *domain.Session, postID string) (bool, error) {
	if sess.UserID() == "" {
		return false, domain.ErrNoSession
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	return post.IsLikedBy(sess.UserID()), nil
}

// --- COMMENTAIRES ---

func (s *PostService) AddComment(ctx context.Context, sess *domain.Session, postID, text string) (*domain.Comment, error) {
	if sess.UserID() == "" {
		return nil, domain.ErrNoSession
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(sess.UserID(), text)
	if err != nil {
		return nil, err
	}

	post.AddComment(*comment)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("comment: update post: %w", err)
	}

	if post.AuthorID != sess.UserID() {
		_ = s.broker.PublishCommentAdded(ctx, domain.CommentAddedEvent{
			PostID:    post.ID,
			AuthorID:  post.AuthorID,
			ActorID:   sess.UserID(),
			ActorName: sess.User.Name,
		})
	}

	return comment, nil
}

// DeleteComment : seul l'auteur du COMMENTAIRE peut le retirer, y compris
// sur son propre post (le propriétaire du post n'a pas ce droit).
func (s *PostService) DeleteComment(ctx context.Context, sess *domain.Session, postID, commentID string) error {
	if sess.UserID() == "" {
		return domain.ErrNoSession
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := post.DeleteComment(commentID, sess.UserID()); err != nil {
		return err
	}
	return s.posts.Update(ctx, post)
}

// --- MARQUE-PAGES ---

func (s *PostService) SavePost(ctx context.Context, sess *domain.Session, postID string) error {
	return s.mutateBookmarks(ctx, sess, postID, (*domain.User).SavePost)
}

func (s *PostService) UnsavePost(ctx context.Context, sess *domain.Session, postID string) error {
	return s.mutateBookmarks(ctx, sess, postID, (*domain.User).UnsavePost)
}

func (s *PostService) mutateBookmarks(ctx context.Context, sess *domain.Session, postID string, op func(*domain.User, string) bool) error {
	if sess.UserID() == "" {
		return domain.ErrNoSession
	}

	// Un marque-page vers un post fantôme n'a aucune valeur.
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, sess.UserID())
	if err != nil {
		return err
	}

	if !op(user, postID) {
		return nil // déjà dans l'état voulu
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("bookmark: update user: %w", err)
	}
	sess.User = user.Sanitized()
	return nil
}

func (s *PostService) IsSaved(ctx context.Context, sess *domain.Session, postID string) (bool, error) {
	if sess.UserID() == "" {
		return false, domain.ErrNoSession
	}
	user, err := s.users.GetByID(ctx, sess.UserID())
	if err != nil {
		return false, err
	}
	return user.HasSaved(postID), nil
}

func (s *PostService) ListSaved(ctx context.Context, sess *domain.Session) ([]*domain.Post, error) {
	if sess.UserID() == "" {
		return nil, domain.ErrNoSession
	}

	user, err := s.users.GetByID(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	saved := make(map[string]bool, len(user.SavedPosts))
	for _, id := range user.SavedPosts {
		saved[id] = true
	}

	// List sort déjà trié du plus récent au plus ancien ; le filtre
	// préserve l'ordre.
	all, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []*domain.Post
	for _, p := range all {
		if saved[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- RECHERCHE ---

func (s *PostService) Search(ctx context.Context, query string) ([]*domain.Post, error) {
	all, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.TrimSpace(query)
	var out []*domain.Post
	for _, p := range all {
		if p.Matches(q) {
			out = append(out, p)
		}
	}
	return out, nil
}
