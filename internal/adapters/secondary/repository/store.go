package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Espace de clés du store, à plat : un bucket par collection, plus un
// bucket "session" pour le pointeur d'identité courante et le thème.
var (
	bucketUsers         = []byte("users")
	bucketPosts         = []byte("posts")
	bucketNotifications = []byte("notifications")
	bucketSession       = []byte("session")

	allBuckets = [][]byte{bucketUsers, bucketPosts, bucketNotifications, bucketSession}
)

// Store est la passerelle de stockage : un fichier bbolt unique, valeurs
// JSON, un enregistrement par clé. Les écritures passent par la
// transaction unique de bbolt : discipline mono-écrivain, pas de cycle
// relire-tout/réécrire-tout.
type Store struct {
	db *bbolt.DB
}

// Open ouvre (ou crée) le fichier et garantit la présence des buckets.
// Le Timeout évite de bloquer indéfiniment si un autre process tient
// déjà le verrou sur le fichier.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Clear vide TOUT le store (l'action "effacer mes données" des réglages).
// Les buckets sont recréés vides dans la même transaction.
func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	return nil
}

// --- PRIMITIVES GET/PUT (contrat de la passerelle) ---

// put sérialise v en JSON sous la clé donnée.
func (s *Store) put(bucket []byte, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %s/%s: %w", bucket, key, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("store: put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// get désérialise la valeur dans v. found=false si la clé est absente ;
// l'absence n'est pas une erreur, c'est aux repos typés de la traduire
// en NotFound du domaine.
func (s *Store) get(bucket []byte, key string, v any) (found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, v)
	})
	if err != nil {
		return false, fmt.Errorf("store: get %s/%s: %w", bucket, key, err)
	}
	return found, nil
}

// delete est un no-op si la clé n'existe pas.
func (s *Store) delete(bucket []byte, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// forEach itère en lecture seule sur toutes les valeurs d'un bucket.
func (s *Store) forEach(bucket []byte, fn func(k, v []byte) error) error {
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).ForEach(fn)
	})
	if err != nil {
		return fmt.Errorf("store: scan %s: %w", bucket, err)
	}
	return nil
}

// update expose une transaction d'écriture complète pour les mutations
// de masse (markAllRead, purge par destinataire).
func (s *Store) update(fn func(tx *bbolt.Tx) error) error {
	return s.db.Update(fn)
}
