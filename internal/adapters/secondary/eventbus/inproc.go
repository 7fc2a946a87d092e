package eventbus

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

var _ ports.EventPublisher = (*InProc)(nil)

// InProc implémente ports.EventPublisher en délivrant les événements
// directement au ledger de notifications, dans le même process. C'est
// l'équivalent local d'un broker : même port, pas de réseau. Exécution
// synchrone — l'appelant publie en best-effort, donc un échec ici est
// logué puis remonté sans conséquence.
type InProc struct {
	notifications ports.NotificationService
}

func New(notifications ports.NotificationService) *InProc {
	return &InProc{notifications: notifications}
}

func (b *InProc) PublishPostLiked(ctx context.Context, ev domain.PostLikedEvent) error {
	if err := b.notifications.RecordLike(ctx, ev); err != nil {
		slog.Warn("eventbus: like notification dropped", "post", ev.PostID, "error", err)
		return err
	}
	return nil
}

func (b *InProc) PublishCommentAdded(ctx context.Context, ev domain.CommentAddedEvent) error {
	if err := b.notifications.RecordComment(ctx, ev); err != nil {
		slog.Warn("eventbus: comment notification dropped", "post", ev.PostID, "error", err)
		return err
	}
	return nil
}

func (b *InProc) PublishUserFollowed(ctx context.Context, ev domain.UserFollowedEvent) error {
	if err := b.notifications.RecordFollow(ctx, ev); err != nil {
		slog.Warn("eventbus: follow notification dropped", "target", ev.TargetID, "error", err)
		return err
	}
	return nil
}
