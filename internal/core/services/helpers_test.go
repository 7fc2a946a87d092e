package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/orbite/internal/adapters/secondary/eventbus"
	"github.com/jupiterclapton/orbite/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/orbite/internal/adapters/secondary/security"
	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// Paramètres Argon2 allégés : les tests ne mesurent pas la résistance
// au brute-force.
var testHashParams = &security.Argon2Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type testEnv struct {
	ctx   context.Context
	store *repository.Store

	users     *repository.UserRepo
	postRepo  *repository.PostRepo
	notifRepo *repository.NotificationRepo
	sessions  *repository.SessionRepo

	identity      *IdentityService
	posts         *PostService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := repository.Open(filepath.Join(t.TempDir(), "orbite.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	e := &testEnv{
		ctx:       context.Background(),
		store:     store,
		users:     repository.NewUserRepo(store),
		postRepo:  repository.NewPostRepo(store),
		notifRepo: repository.NewNotificationRepo(store),
		sessions:  repository.NewSessionRepo(store),
	}

	hasher := security.NewArgon2Hasher(testHashParams)
	tokens := security.NewJWTProvider("test-secret", time.Hour)

	e.notifications = NewNotificationService(e.notifRepo)
	broker := eventbus.New(e.notifications)
	e.identity = NewIdentityService(e.users, e.postRepo, e.sessions, hasher, tokens, broker)
	e.posts = NewPostService(e.postRepo, e.users, broker)

	return e
}

// register crée un compte et retourne la session ouverte. La session est
// une valeur explicite : elle reste utilisable même après qu'un autre
// register a déplacé le pointeur persisté.
func (e *testEnv) register(t *testing.T, name, email, username string) *domain.Session {
	t.Helper()

	_, err := e.identity.Register(e.ctx, ports.RegisterCmd{
		Name:     name,
		Email:    email,
		Password: "secret1",
		Username: username,
	})
	require.NoError(t, err)

	sess, err := e.identity.CurrentSession(e.ctx)
	require.NoError(t, err)
	return sess
}

func (e *testEnv) createPost(t *testing.T, sess *domain.Session, text string) *domain.Post {
	t.Helper()

	post, err := e.posts.Create(e.ctx, sess, ports.CreatePostCmd{Text: text})
	require.NoError(t, err)
	return post
}
