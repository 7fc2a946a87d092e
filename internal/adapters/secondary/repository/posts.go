package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/jupiterclapton/orbite/internal/core/domain"
	"github.com/jupiterclapton/orbite/internal/core/ports"
)

// PostRepo implémente ports.PostRepository sur le bucket "posts".
// Les listings sortent triés du plus récent au plus ancien ; à date
// égale, l'ordre est stable.
var _ ports.PostRepository = (*PostRepo)(nil)

type PostRepo struct {
	store *Store
}

func NewPostRepo(store *Store) *PostRepo {
	return &PostRepo{store: store}
}

func (r *PostRepo) Save(ctx context.Context, post *domain.Post) error {
	return r.store.put(bucketPosts, post.ID, post)
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) error {
	var existing domain.Post
	found, err := r.store.get(bucketPosts, post.ID, &existing)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrPostNotFound
	}
	return r.store.put(bucketPosts, post.ID, post)
}

func (r *PostRepo) Delete(ctx context.Context, postID string) error {
	return r.store.delete(bucketPosts, postID)
}

func (r *PostRepo) GetByID(ctx context.Context, postID string) (*domain.Post, error) {
	var p domain.Post
	found, err := r.store.get(bucketPosts, postID, &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r *PostRepo) List(ctx context.Context) ([]*domain.Post, error) {
	return r.list(func(*domain.Post) bool { return true })
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return r.list(func(p *domain.Post) bool { return p.AuthorID == authorID })
}

func (r *PostRepo) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	count := 0
	err := r.store.forEach(bucketPosts, func(_, v []byte) error {
		var p domain.Post
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		if p.AuthorID == authorID {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostRepo) list(match func(*domain.Post) bool) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.store.forEach(bucketPosts, func(_, v []byte) error {
		var p domain.Post
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		if match(&p) {
			posts = append(posts, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}
