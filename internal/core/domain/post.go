package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ERREURS DU DOMAINE (POSTS & INTERACTIONS) ---
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrEmptyPost        = errors.New("post needs text, an image or a link")
	ErrEmptyComment     = errors.New("comment text cannot be empty")
	ErrNotPostAuthor    = errors.New("only the author can modify this post")
	ErrNotCommentAuthor = errors.New("only the author can delete this comment")
	ErrAlreadyLiked     = errors.New("post already liked")
)

// --- ENTITÉS ---

// Comment vit à l'intérieur d'exactement un Post, dans l'ordre d'insertion.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post embarque ses commentaires et son set de likes (ids d'utilisateurs).
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"image"`
	LinkURL   string    `json:"link"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- FACTORIES ---

// NewPost valide qu'au moins un des trois champs est renseigné.
// C'est un invariant du domaine : les adaptateurs ne peuvent pas le
// contourner.
func NewPost(authorID, text, imageURL, linkURL string) (*Post, error) {
	text = strings.TrimSpace(text)
	imageURL = strings.TrimSpace(imageURL)
	linkURL = strings.TrimSpace(linkURL)

	if text == "" && imageURL == "" && linkURL == "" {
		return nil, ErrEmptyPost
	}

	now := time.Now().UTC()
	return &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Text:      text,
		ImageURL:  imageURL,
		LinkURL:   linkURL,
		Likes:     []string{},
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewComment(authorID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	return &Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// --- COMPORTEMENTS ---

// Apply fusionne une mise à jour partielle et rafraîchit UpdatedAt.
// La vérification de propriété appartient au service, pas à l'entité.
func (p *Post) Apply(text, imageURL, linkURL *string) {
	if text != nil {
		p.Text = strings.TrimSpace(*text)
	}
	if imageURL != nil {
		p.ImageURL = strings.TrimSpace(*imageURL)
	}
	if linkURL != nil {
		p.LinkURL = strings.TrimSpace(*linkURL)
	}
	p.UpdatedAt = time.Now().UTC()
}

// AddLike retourne false si l'utilisateur avait déjà liké (idempotent).
// Les likes ne touchent pas UpdatedAt : seul le contenu compte.
func (p *Post) AddLike(userID string) bool {
	if contains(p.Likes, userID) {
		return false
	}
	p.Likes = append(p.Likes, userID)
	return true
}

func (p *Post) RemoveLike(userID string) bool {
	var removed bool
	p.Likes, removed = remove(p.Likes, userID)
	return removed
}

func (p *Post) IsLikedBy(userID string) bool {
	return contains(p.Likes, userID)
}

// AddComment conserve l'ordre d'insertion.
func (p *Post) AddComment(c Comment) {
	p.Comments = append(p.Comments, c)
}

// DeleteComment retire un commentaire, mais uniquement pour son auteur.
// En cas d'échec la séquence reste strictement inchangée.
func (p *Post) DeleteComment(commentID, requesterID string) error {
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if c.AuthorID != requesterID {
			return ErrNotCommentAuthor
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		return nil
	}
	return ErrCommentNotFound
}

// Matches implémente une recherche plein-texte naïve : sous-chaîne
// insensible à la casse sur le texte et le lien.
func (p *Post) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Text), q) ||
		strings.Contains(strings.ToLower(p.LinkURL), q)
}
