package repository

import (
	"context"
	"encoding/json"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// NotificationRepo implémente ports.NotificationRepository sur le bucket
// "notifications". Le ledger est sans borne : pas d'éviction.
var _ ports.NotificationRepository = (*NotificationRepo)(nil)

type NotificationRepo struct {
	store *Store
}

func NewNotificationRepo(store *Store) *NotificationRepo {
	return &NotificationRepo{store: store}
}

func (r *NotificationRepo) Save(ctx context.Context, n *domain.Notification) error {
	return r.store.put(bucketNotifications, n.ID, n)
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, userID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	err := r.store.forEach(bucketNotifications, func(_, v []byte) error {
		var n domain.Notification
		if err := json.Unmarshal(v, &n); err != nil {
			return err
		}
		if n.UserID == userID {
			out = append(out, &n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	err := r.store.forEach(bucketNotifications, func(_, v []byte) error {
		var n domain.Notification
		if err := json.Unmarshal(v, &n); err != nil {
			return err
		}
		if n.UserID == userID && !n.Read {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID string) error {
	var n domain.Notification
	found, err := r.store.get(bucketNotifications, notificationID, &n)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return r.store.put(bucketNotifications, notificationID, &n)
}

// MarkAllRead bascule le flag de toutes les entrées du destinataire dans
// une seule transaction. On collecte d'abord, on réécrit ensuite : pas
// de Put pendant un ForEach sur le même bucket.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return r.store.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketNotifications)

		type pending struct {
			key  []byte
			data []byte
		}
		var updates []pending

		err := b.ForEach(func(k, v []byte) error {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			if n.UserID != userID || n.Read {
				return nil
			}
			n.Read = true
			data, err := json.Marshal(&n)
			if err != nil {
				return err
			}
			key := make([]byte, len(k))
			copy(key, k)
			updates = append(updates, pending{key: key, data: data})
			return nil
		})
		if err != nil {
			return err
		}

		for _, u := range updates {
			if err := b.Put(u.key, u.data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearByRecipient purge toutes les entrées d'un utilisateur, même
// discipline transactionnelle que MarkAllRead.
func (r *NotificationRepo) ClearByRecipient(ctx context.Context, userID string) error {
	return r.store.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketNotifications)

		var keys [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			if n.UserID == userID {
				key := make([]byte, len(k))
				copy(key, k)
				keys = append(keys, key)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
