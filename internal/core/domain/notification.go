package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationType est un variant fermé : like, comment, follow.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Notification est une entrée du ledger par destinataire. Append-only :
// seul le flag Read est mutable, la suppression ne se fait qu'en masse.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"` // destinataire
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	RelatedID string           `json:"relatedId"` // post id ou user id selon Type
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

func NewNotification(userID string, t NotificationType, message, relatedID string) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      t,
		Message:   message,
		RelatedID: relatedID,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
}
