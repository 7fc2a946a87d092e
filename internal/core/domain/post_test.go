package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostRequiresContent(t *testing.T) {
	_, err := NewPost("ann", "   ", "", " ")
	assert.ErrorIs(t, err, ErrEmptyPost)

	p, err := NewPost("ann", "", "https://example.com/pic.png", "")
	require.NoError(t, err)
	assert.Equal(t, "ann", p.AuthorID)
	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Comments)
}

func TestLikesAreASet(t *testing.T) {
	p, err := NewPost("ann", "hello", "", "")
	require.NoError(t, err)

	before := p.UpdatedAt
	assert.True(t, p.AddLike("bob"))
	assert.False(t, p.AddLike("bob"))
	assert.Equal(t, []string{"bob"}, p.Likes)
	assert.True(t, p.IsLikedBy("bob"))
	// les likes ne comptent pas comme une édition du contenu
	assert.True(t, p.UpdatedAt.Equal(before))

	assert.True(t, p.RemoveLike("bob"))
	assert.False(t, p.RemoveLike("bob"))
	assert.False(t, p.IsLikedBy("bob"))
}

func TestApplyPartialUpdate(t *testing.T) {
	p, err := NewPost("ann", "hello", "", "https://example.com")
	require.NoError(t, err)

	text := "  edited  "
	p.Apply(&text, nil, nil)

	assert.Equal(t, "edited", p.Text)
	assert.Equal(t, "https://example.com", p.LinkURL)
	assert.False(t, p.UpdatedAt.Before(p.CreatedAt))
}

func TestDeleteCommentOwnership(t *testing.T) {
	p, err := NewPost("ann", "hello", "", "")
	require.NoError(t, err)

	first, err := NewComment("bob", "first")
	require.NoError(t, err)
	second, err := NewComment("cleo", "second")
	require.NoError(t, err)
	p.AddComment(*first)
	p.AddComment(*second)

	// seul l'auteur du commentaire peut le retirer
	err = p.DeleteComment(first.ID, "ann")
	assert.ErrorIs(t, err, ErrNotCommentAuthor)
	require.Len(t, p.Comments, 2)

	require.NoError(t, p.DeleteComment(first.ID, "bob"))
	require.Len(t, p.Comments, 1)
	assert.Equal(t, second.ID, p.Comments[0].ID)

	err = p.DeleteComment("ghost", "bob")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestNewCommentTrims(t *testing.T) {
	_, err := NewComment("bob", "  ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	c, err := NewComment("bob", "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "hi", c.Text)
}

func TestMatches(t *testing.T) {
	p, err := NewPost("ann", "Golang rocks", "", "https://go.dev/BLOG")
	require.NoError(t, err)

	assert.True(t, p.Matches("golang"))
	assert.True(t, p.Matches("blog"))
	assert.False(t, p.Matches("python"))
}
