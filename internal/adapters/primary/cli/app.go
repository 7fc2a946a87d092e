package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// App est l'adaptateur de présentation : il traduit les commandes en
// appels de services et les erreurs du domaine en messages lisibles.
// Aucune logique métier ici.
type App struct {
	identity      ports.IdentityService
	posts         ports.PostService
	notifications ports.NotificationService
	reset         func() error // passerelle "effacer toutes les données"

	in  io.Reader
	out io.Writer
}

func New(
	identity ports.IdentityService,
	posts ports.PostService,
	notifications ports.NotificationService,
	reset func() error,
	in io.Reader,
	out io.Writer,
) *App {
	return &App{
		identity:      identity,
		posts:         posts,
		notifications: notifications,
		reset:         reset,
		in:            in,
		out:           out,
	}
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "signup":
		return a.cmdSignup(ctx, rest)
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "profile":
		return a.cmdProfile(ctx, rest)
	case "post":
		return a.cmdPost(ctx, rest)
	case "feed":
		return a.cmdFeed(ctx)
	case "show":
		return a.cmdShow(ctx, rest)
	case "edit":
		return a.cmdEdit(ctx, rest)
	case "rm":
		return a.cmdDelete(ctx, rest)
	case "like":
		return a.cmdLike(ctx, rest)
	case "unlike":
		return a.cmdUnlike(ctx, rest)
	case "comment":
		return a.cmdComment(ctx, rest)
	case "uncomment":
		return a.cmdUncomment(ctx, rest)
	case "bookmark":
		return a.cmdBookmark(ctx, rest)
	case "unbookmark":
		return a.cmdUnbookmark(ctx, rest)
	case "bookmarks":
		return a.cmdBookmarks(ctx)
	case "follow":
		return a.cmdFollow(ctx, rest)
	case "unfollow":
		return a.cmdUnfollow(ctx, rest)
	case "users":
		return a.cmdUsers(ctx)
	case "stats":
		return a.cmdStats(ctx, rest)
	case "search":
		return a.cmdSearch(ctx, rest)
	case "notifications":
		return a.cmdNotifications(ctx)
	case "watch":
		return a.cmdWatch(ctx, rest)
	case "theme":
		return a.cmdTheme(ctx, rest)
	case "reset":
		return a.cmdReset(rest)
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// --- AUTHENTIFICATION & PROFIL ---

func (a *App) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (6 characters minimum)")
	username := fs.String("username", "", "unique handle")
	bio := fs.String("bio", "", "short bio (optional)")
	avatar := fs.String("avatar", "", "avatar URL (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.identity.Register(ctx, ports.RegisterCmd{
		Name:      *name,
		Email:     *email,
		Password:  *password,
		Username:  *username,
		Bio:       *bio,
		AvatarURL: *avatar,
	})
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Welcome @%s! You are now logged in.\n", resp.User.Username)
	return nil
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.identity.Login(ctx, ports.LoginCmd{Email: *email, Password: *password})
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Logged in as @%s (session valid %s).\n", resp.User.Username, resp.ExpiresIn)
	return nil
}

func (a *App) cmdLogout(ctx context.Context) error {
	if err := a.identity.Logout(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Logged out. Your data is still there.")
	return nil
}

func (a *App) cmdWhoami(ctx context.Context) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	a.renderUser(sess.User, false)
	return nil
}

func (a *App) cmdProfile(ctx context.Context, args []string) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "new display name")
	bio := fs.String("bio", "", "new bio")
	avatar := fs.String("avatar", "", "new avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Seuls les flags réellement passés sont appliqués.
	var cmd ports.UpdateProfileCmd
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			cmd.Name = name
		case "bio":
			cmd.Bio = bio
		case "avatar":
			cmd.AvatarURL = avatar
		}
	})

	user, err := a.identity.UpdateProfile(ctx, sess, cmd)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Profile updated.")
	a.renderUser(user, false)
	return nil
}

// --- POSTS ---

func (a *App) cmdPost(ctx context.Context, args []string) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	text := fs.String("text", "", "post text")
	image := fs.String("image", "", "image URL (optional)")
	link := fs.String("link", "", "link URL (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	post, err := a.posts.Create(ctx, sess, ports.CreatePostCmd{
		Text:     *text,
		ImageURL: *image,
		LinkURL:  *link,
	})
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Posted %s.\n", post.ID)
	return nil
}

func (a *App) cmdFeed(ctx context.Context) error {
	posts, err := a.posts.GetAll(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.renderPosts(ctx, posts)
	return nil
}

func (a *App) cmdShow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: show <post-id>")
	}
	post, err := a.posts.Get(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	a.renderPostDetail(ctx, post)
	return nil
}

func (a *App) cmdEdit(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: edit <post-id> [-text ...] [-image ...] [-link ...]")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	postID := args[0]
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	text := fs.String("text", "", "new text")
	image := fs.String("image", "", "new image URL")
	link := fs.String("link", "", "new link URL")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var cmd ports.UpdatePostCmd
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			cmd.Text = text
		case "image":
			cmd.ImageURL = image
		case "link":
			cmd.LinkURL = link
		}
	})

	if _, err := a.posts.Update(ctx, sess, postID, cmd); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Post updated.")
	return nil
}

func (a *App) cmdDelete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: rm <post-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.posts.Delete(ctx, sess, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Post deleted.")
	return nil
}

// --- INTERACTIONS ---

func (a *App) cmdLike(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: like <post-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.posts.Like(ctx, sess, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Liked.")
	return nil
}

func (a *App) cmdUnlike(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: unlike <post-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.posts.Unlike(ctx, sess, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Like removed.")
	return nil
}

func (a *App) cmdComment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: comment <post-id> <text>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	comment, err := a.posts.AddComment(ctx, sess, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Comment %s added.\n", comment.ID)
	return nil
}

func (a *App) cmdUncomment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: uncomment <post-id> <comment-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.posts.DeleteComment(ctx, sess, args[0], args[1]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Comment deleted.")
	return nil
}

func (a *App) cmdBookmark(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: bookmark <post-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.posts.SavePost(ctx, sess, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Saved.")
	return nil
}

func (a *App) cmdUnbookmark(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: unbookmark <post-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.posts.UnsavePost(ctx, sess, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Removed from saved posts.")
	return nil
}

func (a *App) cmdBookmarks(ctx context.Context) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	posts, err := a.posts.ListSaved(ctx, sess)
	if err != nil {
		return a.fail(err)
	}
	a.renderPosts(ctx, posts)
	return nil
}

// --- GRAPHE DE SUIVI & UTILISATEURS ---

func (a *App) cmdFollow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: follow <user-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.identity.Follow(ctx, sess, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Following.")
	return nil
}

func (a *App) cmdUnfollow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: unfollow <user-id>")
	}
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	if err := a.identity.Unfollow(ctx, sess, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Unfollowed.")
	return nil
}

func (a *App) cmdUsers(ctx context.Context) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	users, err := a.identity.ListUsers(ctx, sess)
	if err != nil {
		return a.fail(err)
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "Nobody else here yet.")
		return nil
	}
	for _, u := range users {
		following, _ := a.identity.IsFollowing(ctx, sess, u.ID)
		a.renderUser(u, following)
	}
	return nil
}

func (a *App) cmdStats(ctx context.Context, args []string) error {
	userID := ""
	if len(args) > 0 {
		userID = args[0]
	} else {
		sess, err := a.session(ctx)
		if err != nil {
			return err
		}
		userID = sess.UserID()
	}

	stats, err := a.identity.UserStats(ctx, userID)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "posts: %d  followers: %d  following: %d\n",
		stats.Posts, stats.Followers, stats.Following)
	return nil
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: search <query>")
	}
	query := strings.Join(args, " ")

	users, err := a.identity.SearchUsers(ctx, query)
	if err != nil {
		return a.fail(err)
	}
	posts, err := a.posts.Search(ctx, query)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "-- people (%d) --\n", len(users))
	for _, u := range users {
		a.renderUser(u, false)
	}
	fmt.Fprintf(a.out, "-- posts (%d) --\n", len(posts))
	a.renderPosts(ctx, posts)
	return nil
}

// --- NOTIFICATIONS ---

// cmdNotifications affiche le ledger puis marque tout comme lu, comme
// l'ouverture d'un panneau de notifications : consulter, c'est lire.
func (a *App) cmdNotifications(ctx context.Context) error {
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	list, err := a.notifications.ListForUser(ctx, sess.UserID())
	if err != nil {
		return a.fail(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notifications yet.")
		return nil
	}

	for _, n := range list {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s [%s] %s (%s)\n", marker, n.Type, n.Message, formatTimeAgo(n.CreatedAt))
	}

	return a.notifications.MarkAllRead(ctx, sess.UserID())
}

// cmdWatch est le rafraîchissement périodique du badge : un ticker qui
// réaffiche le nombre de non-lus quand il change, jusqu'à interruption.
func (a *App) cmdWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := fs.Duration("interval", 15*time.Second, "refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	last := -1
	for {
		count, err := a.notifications.UnreadCount(ctx, sess.UserID())
		if err != nil {
			return a.fail(err)
		}
		if count != last {
			fmt.Fprintf(a.out, "unread: %d\n", count)
			last = count
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// --- RÉGLAGES ---

func (a *App) cmdTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		theme, err := a.identity.Theme(ctx)
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, theme)
		return nil
	}

	if err := a.identity.SetTheme(ctx, domain.Theme(args[0])); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Theme set to %s.\n", args[0])
	return nil
}

// cmdReset efface tout le store après confirmation explicite.
func (a *App) cmdReset(args []string) error {
	if len(args) == 0 || args[0] != "--force" {
		fmt.Fprint(a.out, "This wipes ALL local data. Type yes to confirm: ")
		answer, _ := bufio.NewReader(a.in).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Fprintln(a.out, "Aborted.")
			return nil
		}
	}

	if err := a.reset(); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "All data cleared.")
	return nil
}

// --- HELPERS ---

// session charge la session courante et traduit son absence en message
// utilisateur.
func (a *App) session(ctx context.Context) (*domain.Session, error) {
	sess, err := a.identity.CurrentSession(ctx)
	if err != nil {
		return nil, a.fail(err)
	}
	return sess, nil
}

func (a *App) usage() {
	fmt.Fprint(a.out, `orbite — local social feed

  signup -name -email -password -username [-bio] [-avatar]
  login -email -password | logout | whoami
  profile [-name] [-bio] [-avatar]
  post -text [-image] [-link] | feed | show <id> | edit <id> | rm <id>
  like/unlike <id> | comment <id> <text> | uncomment <id> <comment-id>
  bookmark/unbookmark <id> | bookmarks
  follow/unfollow <user-id> | users | stats [user-id] | search <query>
  notifications | watch [-interval 15s]
  theme [dark|light] | reset [--force]
`)
}
