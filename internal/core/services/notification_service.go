package services

import (
	"context"
	"fmt"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// NotificationService implémente ports.NotificationService. C'est lui qui
// compose les messages : les émetteurs ne transportent que les faits,
// le ledger décide de la formulation.
var _ ports.NotificationService = (*NotificationService)(nil)

type NotificationService struct {
	repo ports.NotificationRepository
}

func NewNotificationService(repo ports.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// --- INGESTION (ÉVÉNEMENTS) ---

func (s *NotificationService) RecordLike(ctx context.Context, ev domain.PostLikedEvent) error {
	n := domain.NewNotification(
		ev.AuthorID,
		domain.NotificationLike,
		fmt.Sprintf("%s liked your post", ev.ActorName),
		ev.PostID,
	)
	return s.repo.Save(ctx, n)
}

func (s *NotificationService) RecordComment(ctx context.Context, ev domain.CommentAddedEvent) error {
	n := domain.NewNotification(
		ev.AuthorID,
		domain.NotificationComment,
		fmt.Sprintf("%s commented on your post", ev.ActorName),
		ev.PostID,
	)
	return s.repo.Save(ctx, n)
}

func (s *NotificationService) RecordFollow(ctx context.Context, ev domain.UserFollowedEvent) error {
	n := domain.NewNotification(
		ev.TargetID,
		domain.NotificationFollow,
		fmt.Sprintf("%s started following you", ev.ActorName),
		ev.ActorID,
	)
	return s.repo.Save(ctx, n)
}

// --- LECTURE & ÉTAT ---

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	return s.repo.MarkRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Clear(ctx context.Context, userID string) error {
	return s.repo.ClearByRecipient(ctx, userID)
}
