package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/orbite/internal/core/domain"
)

func TestRecordMessages(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.notifications.RecordLike(e.ctx, domain.PostLikedEvent{
		PostID: "p1", AuthorID: "ann", ActorID: "bob", ActorName: "Bob",
	}))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, e.notifications.RecordComment(e.ctx, domain.CommentAddedEvent{
		PostID: "p1", AuthorID: "ann", ActorID: "bob", ActorName: "Bob",
	}))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, e.notifications.RecordFollow(e.ctx, domain.UserFollowedEvent{
		TargetID: "ann", ActorID: "bob", ActorName: "Bob",
	}))

	list, err := e.notifications.ListForUser(e.ctx, "ann")
	require.NoError(t, err)
	require.Len(t, list, 3)

	// la plus récente d'abord
	assert.Equal(t, "Bob started following you", list[0].Message)
	assert.Equal(t, domain.NotificationFollow, list[0].Type)
	assert.Equal(t, "bob", list[0].RelatedID)

	assert.Equal(t, "Bob commented on your post", list[1].Message)
	assert.Equal(t, domain.NotificationComment, list[1].Type)
	assert.Equal(t, "p1", list[1].RelatedID)

	assert.Equal(t, "Bob liked your post", list[2].Message)
	assert.Equal(t, domain.NotificationLike, list[2].Type)
	assert.Equal(t, "p1", list[2].RelatedID)
}

func TestMarkReadSingle(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.notifications.RecordLike(e.ctx, domain.PostLikedEvent{
		PostID: "p1", AuthorID: "ann", ActorID: "bob", ActorName: "Bob",
	}))
	require.NoError(t, e.notifications.RecordLike(e.ctx, domain.PostLikedEvent{
		PostID: "p2", AuthorID: "ann", ActorID: "cleo", ActorName: "Cleo",
	}))

	list, err := e.notifications.ListForUser(e.ctx, "ann")
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, e.notifications.MarkRead(e.ctx, list[0].ID))

	count, err := e.notifications.UnreadCount(e.ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// marquer une notification inconnue échoue proprement
	err = e.notifications.MarkRead(e.ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func TestMarkAllReadScopedToRecipient(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.notifications.RecordLike(e.ctx, domain.PostLikedEvent{
		PostID: "p1", AuthorID: "ann", ActorID: "bob", ActorName: "Bob",
	}))
	require.NoError(t, e.notifications.RecordLike(e.ctx, domain.PostLikedEvent{
		PostID: "p2", AuthorID: "bob", ActorID: "ann", ActorName: "Ann",
	}))

	require.NoError(t, e.notifications.MarkAllRead(e.ctx, "ann"))

	count, err := e.notifications.UnreadCount(e.ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = e.notifications.UnreadCount(e.ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClearScopedToRecipient(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.notifications.RecordLike(e.ctx, domain.PostLikedEvent{
		PostID: "p1", AuthorID: "ann", ActorID: "bob", ActorName: "Bob",
	}))
	require.NoError(t, e.notifications.RecordLike(e.ctx, domain.PostLikedEvent{
		PostID: "p2", AuthorID: "bob", ActorID: "ann", ActorName: "Ann",
	}))

	require.NoError(t, e.notifications.Clear(e.ctx, "ann"))

	list, err := e.notifications.ListForUser(e.ctx, "ann")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = e.notifications.ListForUser(e.ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
