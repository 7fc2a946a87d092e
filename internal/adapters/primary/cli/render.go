package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jupiterclapton/orbite/internal/core/domain"
)

// fail traduit une erreur du domaine en message utilisateur. Les erreurs
// inattendues passent telles quelles (elles finissent sur stderr avec
// leur chaîne wrappée).
func (a *App) fail(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrSessionExpired):
		return errors.New("please login first")
	case errors.Is(err, domain.ErrUserNotFound):
		return errors.New("user not found, please sign up first")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errors.New("incorrect password")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return errors.New("email already exists")
	case errors.Is(err, domain.ErrUsernameTaken):
		return errors.New("username already exists")
	case errors.Is(err, domain.ErrNotPostAuthor), errors.Is(err, domain.ErrNotCommentAuthor):
		return errors.New("you can only modify your own content")
	case errors.Is(err, domain.ErrAlreadyLiked):
		return errors.New("already liked")
	default:
		return err
	}
}

// renderPosts saute silencieusement les posts orphelins (auteur disparu).
// Politique d'affichage uniquement : le coeur, lui, les conserve.
func (a *App) renderPosts(ctx context.Context, posts []*domain.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return
	}
	for _, p := range posts {
		author, err := a.identity.GetUser(ctx, p.AuthorID)
		if err != nil {
			continue
		}
		fmt.Fprintf(a.out, "%s  @%s  %s\n", p.ID, author.Username, formatTimeAgo(p.CreatedAt))
		if p.Text != "" {
			fmt.Fprintf(a.out, "  %s\n", truncate(p.Text, 120))
		}
		if p.LinkURL != "" {
			fmt.Fprintf(a.out, "  link: %s\n", p.LinkURL)
		}
		fmt.Fprintf(a.out, "  %d likes, %d comments\n", len(p.Likes), len(p.Comments))
	}
}

func (a *App) renderPostDetail(ctx context.Context, p *domain.Post) {
	a.renderPosts(ctx, []*domain.Post{p})
	for _, c := range p.Comments {
		name := c.AuthorID
		if author, err := a.identity.GetUser(ctx, c.AuthorID); err == nil {
			name = "@" + author.Username
		}
		fmt.Fprintf(a.out, "    %s  %s: %s\n", c.ID, name, c.Text)
	}
}

func (a *App) renderUser(u *domain.User, following bool) {
	suffix := ""
	if following {
		suffix = "  [following]"
	}
	fmt.Fprintf(a.out, "%s  @%s  %s%s\n", u.ID, u.Username, u.Name, suffix)
	if u.Bio != "" {
		fmt.Fprintf(a.out, "  %s\n", u.Bio)
	}
}

// formatTimeAgo rend une durée relative lisible (just now, 5m, 3h, ...).
func formatTimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 4*7*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
