package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/seed"
	"github.com/cppla/yatube/testutil"
)

func setup(t *testing.T) (*Repositories, *seed.Factory) {
	t.Helper()
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	return New(db), seed.NewFactory(db, 1)
}

func TestFollowIsIdempotent(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	reader, err := f.User("reader")
	require.NoError(t, err)
	author, err := f.User("author")
	require.NoError(t, err)

	require.NoError(t, repos.Follows.Follow(ctx, reader.ID, author.ID))
	require.NoError(t, repos.Follows.Follow(ctx, reader.ID, author.ID))

	n, err := repos.Follows.CountFollowers(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	following, err := repos.Follows.IsFollowing(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, repos.Follows.Unfollow(ctx, reader.ID, author.ID))
	require.NoError(t, repos.Follows.Unfollow(ctx, reader.ID, author.ID))
	following, err = repos.Follows.IsFollowing(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowSelfIsNoop(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	u, err := f.User("narcissus")
	require.NoError(t, err)

	require.NoError(t, repos.Follows.Follow(ctx, u.ID, u.ID))
	n, err := repos.Follows.CountFollowing(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostFilters(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	alice, _ := f.User("alice")
	bob, _ := f.User("bob")
	carol, _ := f.User("carol")
	cats, err := f.Group("cats")
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	mk := func(author *models.User, group *models.Group, minutes int) *models.Post {
		p := &models.Post{Text: "post", AuthorID: author.ID, PubDate: base.Add(time.Duration(minutes) * time.Minute)}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(t, repos.Posts.Create(ctx, p))
		return p
	}
	a1 := mk(alice, cats, 1)
	b1 := mk(bob, nil, 2)
	a2 := mk(alice, nil, 3)
	c1 := mk(carol, cats, 4)

	ids := func(posts []models.Post) []uint {
		out := make([]uint, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	all, err := repos.Posts.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{c1.ID, a2.ID, b1.ID, a1.ID}, ids(all))
	assert.Equal(t, "carol", all[0].Author.Username)
	require.NotNil(t, all[0].Group)
	assert.Equal(t, "cats", all[0].Group.Slug)

	inGroup, err := repos.Posts.List(ctx, PostFilter{GroupID: cats.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{c1.ID, a1.ID}, ids(inGroup))

	byAlice, err := repos.Posts.List(ctx, PostFilter{AuthorID: alice.ID}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID}, ids(byAlice))
	n, err := repos.Posts.Count(ctx, PostFilter{AuthorID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, repos.Follows.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, repos.Follows.Follow(ctx, bob.ID, carol.ID))
	feed, err := repos.Posts.List(ctx, PostFilter{FollowedBy: bob.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{c1.ID, a2.ID, a1.ID}, ids(feed))
	n, err = repos.Posts.Count(ctx, PostFilter{FollowedBy: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	none, err := repos.Posts.List(ctx, PostFilter{FollowedBy: carol.ID}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetByAuthorAndID(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	alice, _ := f.User("alice")
	_, _ = f.User("bob")
	p, err := f.Post(alice, nil)
	require.NoError(t, err)

	got, err := repos.Posts.GetByAuthorAndID(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "alice", got.Author.Username)

	_, err = repos.Posts.GetByAuthorAndID(ctx, "bob", p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repos.Posts.GetByAuthorAndID(ctx, "nobody", p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repos.Posts.GetByID(ctx, p.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeepsPubDateAndAuthor(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	alice, _ := f.User("alice")
	bob, _ := f.User("bob")
	cats, _ := f.Group("cats")
	p, err := f.Post(alice, cats)
	require.NoError(t, err)
	before, err := repos.Posts.GetByID(ctx, p.ID)
	require.NoError(t, err)

	edit := *before
	edit.Text = "edited"
	edit.GroupID = nil
	edit.AuthorID = bob.ID
	edit.PubDate = time.Now().Add(48 * time.Hour)
	require.NoError(t, repos.Posts.Update(ctx, &edit))

	after, err := repos.Posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", after.Text)
	assert.Nil(t, after.GroupID)
	assert.Equal(t, alice.ID, after.AuthorID)
	assert.True(t, before.PubDate.Equal(after.PubDate), "pub_date changed: %v -> %v", before.PubDate, after.PubDate)
}

func TestDeletePostCascadesComments(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	alice, _ := f.User("alice")
	bob, _ := f.User("bob")
	doomed, _ := f.Post(alice, nil)
	kept, _ := f.Post(alice, nil)
	for i := 0; i < 3; i++ {
		_, err := f.Comment(bob, doomed)
		require.NoError(t, err)
	}
	_, err := f.Comment(bob, kept)
	require.NoError(t, err)

	require.NoError(t, repos.Posts.Delete(ctx, doomed.ID))

	_, err = repos.Posts.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := repos.Comments.CountByPost(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = repos.Comments.CountByPost(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, repos.Posts.Delete(ctx, doomed.ID), ErrNotFound)
}

func TestDeleteGroupDetachesPosts(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	alice, _ := f.User("alice")
	cats, _ := f.Group("cats")
	dogs, _ := f.Group("dogs")
	p1, _ := f.Post(alice, cats)
	p2, _ := f.Post(alice, dogs)

	require.NoError(t, repos.Groups.Delete(ctx, cats.ID))

	_, err := repos.Groups.GetBySlug(ctx, "cats")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repos.Posts.GetByID(ctx, p1.ID)
	require.NoError(t, err, "posts survive group deletion")
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)

	got, err = repos.Posts.GetByID(ctx, p2.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, dogs.ID, *got.GroupID)
}

func TestCommentsOldestFirst(t *testing.T) {
	repos, f := setup(t)
	ctx := context.Background()
	alice, _ := f.User("alice")
	p, _ := f.Post(alice, nil)

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"first", "second", "third"} {
		c := &models.Comment{Text: text, AuthorID: alice.ID, PostID: p.ID, Created: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repos.Comments.Create(ctx, c))
	}
	last := &models.Comment{Text: "latest", AuthorID: alice.ID, PostID: p.ID}
	require.NoError(t, repos.Comments.Create(ctx, last))

	comments, err := repos.Comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 4)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "latest", comments[3].Text)
	assert.Equal(t, "alice", comments[3].Author.Username)
}

func TestGroupsAndUsers(t *testing.T) {
	repos, _ := setup(t)
	ctx := context.Background()

	g := &models.Group{Title: "Zebras", Slug: "zebras", Description: "stripes"}
	require.NoError(t, repos.Groups.Create(ctx, g))
	require.NoError(t, repos.Groups.Create(ctx, &models.Group{Title: "Ants", Slug: "ants", Description: "tiny"}))
	assert.Error(t, repos.Groups.Create(ctx, &models.Group{Title: "Dup", Slug: "zebras", Description: "x"}), "slug is unique")

	groups, err := repos.Groups.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Ants", groups[0].Title)

	got, err := repos.Groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "zebras", got.Slug)

	u := &models.User{Username: "leo", PasswordHash: "x"}
	require.NoError(t, repos.Users.Create(ctx, u))
	byName, err := repos.Users.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	_, err = repos.Users.GetByID(ctx, u.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}
