package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/store"
)

func TestCategoryCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newClock()

	now := c.next()
	cat := &domain.Category{
		ID: "cat-go", Name: "Go", Slug: "go", Description: strPtr("Gophers"),
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateCategory(ctx, cat))

	got, err := s.GetCategoryBySlug(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, "cat-go", got.ID)
	assert.Equal(t, cat.Description, got.Description)

	_, err = s.GetCategoryBySlug(ctx, "Go")
	assert.ErrorIs(t, err, store.ErrNotFound, "slug lookup is case-sensitive")

	cat.Name = "Golang"
	cat.Description = nil
	cat.UpdatedAt = c.next()
	require.NoError(t, s.UpdateCategory(ctx, cat))

	got, err = s.GetCategory(ctx, "cat-go")
	require.NoError(t, err)
	assert.Equal(t, "Golang", got.Name)
	assert.Nil(t, got.Description)

	require.NoError(t, s.DeleteCategory(ctx, "cat-go"))
	_, err = s.GetCategory(ctx, "cat-go")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "cat-go"), store.ErrNotFound)
}

func TestCategory_SlugCollision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newClock()

	mustCreateCategory(t, s, c, "cat-a", "A")
	b := mustCreateCategory(t, s, c, "cat-b", "B")

	now := c.next()
	dup := &domain.Category{ID: "cat-c", Name: "C", Slug: "cat-a", CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, s.CreateCategory(ctx, dup), store.ErrAlreadyExists)

	b.Slug = "cat-a"
	assert.ErrorIs(t, s.UpdateCategory(ctx, b), store.ErrAlreadyExists)

	ghost := &domain.Category{ID: "cat-ghost", Name: "G", Slug: "ghost"}
	assert.ErrorIs(t, s.UpdateCategory(ctx, ghost), store.ErrNotFound)
}

func TestListCategories_ByName(t *testing.T) {
	s := newTestStore(t)
	c := newClock()
	mustCreateCategory(t, s, c, "cat-z", "Zebra")
	mustCreateCategory(t, s, c, "cat-a", "Aardvark")
	mustCreateCategory(t, s, c, "cat-m", "Moose")

	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Aardvark", cats[0].Name)
	assert.Equal(t, "Moose", cats[1].Name)
	assert.Equal(t, "Zebra", cats[2].Name)
}

func TestDeleteCategory_KeepsPosts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newClock()

	u := mustCreateUser(t, s, c, "usr-a")
	cat := mustCreateCategory(t, s, c, "cat-a", "A")
	p := makePost(c, "post-1", u.ID, domain.StatusDraft)
	require.NoError(t, s.CreatePost(ctx, p, store.Associations{CategoryIDs: []string{cat.ID}}))

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))

	_, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)

	cats, err := s.CategoriesForPosts(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.Empty(t, cats[p.ID])
}

func TestTagCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := newClock()

	tag := mustCreateTag(t, s, c, "tag-go", "Go")

	got, err := s.GetTagBySlug(ctx, "tag-go")
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Name)

	tag.Name = "Golang"
	tag.Slug = "golang"
	tag.UpdatedAt = c.next()
	require.NoError(t, s.UpdateTag(ctx, tag))

	got, err = s.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "golang", got.Slug)

	now := c.next()
	dup := &domain.Tag{ID: "tag-x", Name: "X", Slug: "golang", CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, s.CreateTag(ctx, dup), store.ErrAlreadyExists)

	u := mustCreateUser(t, s, c, "usr-a")
	cat := mustCreateCategory(t, s, c, "cat-a", "A")
	p := makePost(c, "post-1", u.ID, domain.StatusDraft)
	require.NoError(t, s.CreatePost(ctx, p, store.Associations{CategoryIDs: []string{cat.ID}, TagIDs: []string{tag.ID}}))

	require.NoError(t, s.DeleteTag(ctx, tag.ID))
	ids, err := s.PostIDsForTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.ErrorIs(t, s.DeleteTag(ctx, tag.ID), store.ErrNotFound)
}
