package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/orbite/internal/adapters/secondary/security"
	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)

	resp, err := e.identity.Register(e.ctx, ports.RegisterCmd{
		Name:     "Ann",
		Email:    "  A@X.com ",
		Password: "secret1",
		Username: "ann",
		Bio:      "hello there",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Empty(t, resp.User.PasswordHash)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.AvatarURL)

	sess, err := e.identity.CurrentSession(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, sess.UserID())
	assert.Empty(t, sess.User.PasswordHash)

	// re-login avec une casse différente sur l'email
	require.NoError(t, e.identity.Logout(e.ctx))
	again, err := e.identity.Login(e.ctx, ports.LoginCmd{Email: "a@X.COM", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
	assert.Empty(t, again.User.PasswordHash)
}

func TestRegisterConflicts(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Ann", "a@x.com", "ann")

	_, err := e.identity.Register(e.ctx, ports.RegisterCmd{
		Name: "Bob", Email: "A@X.com", Password: "other12", Username: "bob",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = e.identity.Register(e.ctx, ports.RegisterCmd{
		Name: "Bob", Email: "b@x.com", Password: "other12", Username: "ANN",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	// aucun second enregistrement créé
	sess, err := e.identity.CurrentSession(e.ctx)
	require.NoError(t, err)
	others, err := e.identity.ListUsers(e.ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.identity.Register(e.ctx, ports.RegisterCmd{
		Name: "", Email: "a@x.com", Password: "secret1", Username: "ann",
	})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = e.identity.Register(e.ctx, ports.RegisterCmd{
		Name: "Ann", Email: "a@x.com", Password: "short", Username: "ann",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = e.identity.Register(e.ctx, ports.RegisterCmd{
		Name: "Ann", Email: "not-an-email", Password: "secret1", Username: "ann",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestLoginFailures(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Ann", "a@x.com", "ann")

	_, err := e.identity.Login(e.ctx, ports.LoginCmd{Email: "nobody@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = e.identity.Login(e.ctx, ports.LoginCmd{Email: "a@x.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutPreservesCollections(t *testing.T) {
	e := newTestEnv(t)
	sess := e.register(t, "Ann", "a@x.com", "ann")
	e.createPost(t, sess, "still here after logout")

	require.NoError(t, e.identity.Logout(e.ctx))

	_, err := e.identity.CurrentSession(e.ctx)
	assert.ErrorIs(t, err, domain.ErrNoSession)

	posts, err := e.posts.GetAll(e.ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestSessionExpired(t *testing.T) {
	e := newTestEnv(t)
	user := e.register(t, "Ann", "a@x.com", "ann").User

	// Session persistée avec un jeton déjà expiré.
	expired := newExpiredToken(t, user)
	require.NoError(t, e.sessions.SaveSession(e.ctx, domain.NewSession(user, expired)))

	_, err := e.identity.CurrentSession(e.ctx)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// La session invalide a été purgée au passage.
	_, err = e.sessions.CurrentSession(e.ctx)
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestUpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	sess := e.register(t, "Ann", "a@x.com", "ann")

	name := "Ann Updated"
	bio := "new bio"
	user, err := e.identity.UpdateProfile(e.ctx, sess, ports.UpdateProfileCmd{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Ann Updated", user.Name)
	assert.Equal(t, "new bio", user.Bio)
	assert.Empty(t, user.PasswordHash)

	// le snapshot de session persisté a suivi
	fresh, err := e.identity.CurrentSession(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann Updated", fresh.User.Name)

	// l'email n'a pas bougé et le mot de passe marche toujours
	_, err = e.identity.Login(e.ctx, ports.LoginCmd{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestFollowUnfollow(t *testing.T) {
	e := newTestEnv(t)
	ann := e.register(t, "Ann", "a@x.com", "ann")
	bob := e.register(t, "Bob", "b@x.com", "bob")

	require.NoError(t, e.identity.Follow(e.ctx, bob, ann.UserID()))

	following, err := e.identity.IsFollowing(e.ctx, bob, ann.UserID())
	require.NoError(t, err)
	assert.True(t, following)

	// mutation symétrique des deux côtés
	annUser, err := e.identity.GetUser(e.ctx, ann.UserID())
	require.NoError(t, err)
	assert.Contains(t, annUser.Followers, bob.UserID())

	bobUser, err := e.identity.GetUser(e.ctx, bob.UserID())
	require.NoError(t, err)
	assert.Contains(t, bobUser.Following, ann.UserID())

	// notification follow pour Ann
	count, err := e.notifications.UnreadCount(e.ctx, ann.UserID())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err := e.notifications.ListForUser(e.ctx, ann.UserID())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationFollow, list[0].Type)
	assert.Equal(t, "Bob started following you", list[0].Message)
	assert.Equal(t, bob.UserID(), list[0].RelatedID)

	// re-follow : idempotent, pas de seconde notification
	require.NoError(t, e.identity.Follow(e.ctx, bob, ann.UserID()))
	list, err = e.notifications.ListForUser(e.ctx, ann.UserID())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, e.identity.Unfollow(e.ctx, bob, ann.UserID()))
	following, err = e.identity.IsFollowing(e.ctx, bob, ann.UserID())
	require.NoError(t, err)
	assert.False(t, following)

	annUser, err = e.identity.GetUser(e.ctx, ann.UserID())
	require.NoError(t, err)
	assert.NotContains(t, annUser.Followers, bob.UserID())
}

func TestFollowEdgeCases(t *testing.T) {
	e := newTestEnv(t)
	ann := e.register(t, "Ann", "a@x.com", "ann")

	assert.ErrorIs(t, e.identity.Follow(e.ctx, ann, ann.UserID()), domain.ErrSelfFollow)
	assert.ErrorIs(t, e.identity.Follow(e.ctx, ann, "ghost"), domain.ErrUserNotFound)
	assert.ErrorIs(t, e.identity.Follow(e.ctx, nil, ann.UserID()), domain.ErrNoSession)
}

func TestListUsersExcludesSelf(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Ann", "a@x.com", "ann")
	bob := e.register(t, "Bob", "b@x.com", "bob")

	others, err := e.identity.ListUsers(e.ctx, bob)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "ann", others[0].Username)
	assert.Empty(t, others[0].PasswordHash)
}

func TestSearchUsers(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Ann Lovelace", "a@x.com", "ann")
	e.register(t, "Bob", "b@x.com", "builder")

	found, err := e.identity.SearchUsers(e.ctx, "LOVE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ann", found[0].Username)

	found, err = e.identity.SearchUsers(e.ctx, "build")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "builder", found[0].Username)
}

func TestUserStats(t *testing.T) {
	e := newTestEnv(t)
	ann := e.register(t, "Ann", "a@x.com", "ann")
	e.createPost(t, ann, "one")
	e.createPost(t, ann, "two")

	bob := e.register(t, "Bob", "b@x.com", "bob")
	require.NoError(t, e.identity.Follow(e.ctx, bob, ann.UserID()))

	stats, err := e.identity.UserStats(e.ctx, ann.UserID())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Posts)
	assert.Equal(t, 1, stats.Followers)
	assert.Equal(t, 0, stats.Following)
}

func TestTheme(t *testing.T) {
	e := newTestEnv(t)

	theme, err := e.identity.Theme(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)

	require.NoError(t, e.identity.SetTheme(e.ctx, domain.ThemeLight))
	theme, err = e.identity.Theme(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)

	assert.ErrorIs(t, e.identity.SetTheme(e.ctx, domain.Theme("sepia")), domain.ErrInvalidTheme)
}

// newExpiredToken fabrique un jeton signé avec le bon secret mais dont
// l'expiration est déjà passée (TTL négatif).
func newExpiredToken(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := security.NewJWTProvider("test-secret", -time.Minute).Generate(user)
	require.NoError(t, err)
	return token
}
