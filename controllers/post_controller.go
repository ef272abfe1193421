package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/forms"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// PostController serves the feeds, profiles and post pages, and creates, edits and deletes posts.
type PostController struct {
	repos *repository.Repositories
	feed  utils.FeedCache
	media *utils.MediaStore
}

// NewPostController creates a new PostController instance.
func NewPostController(repos *repository.Repositories, feed utils.FeedCache, media *utils.MediaStore) *PostController {
	return &PostController{repos: repos, feed: feed, media: media}
}

// Index is the home feed. The full post list is served from the feed cache and only
// reloaded after it expires, so new posts can take up to one expiry window to show up.
func (p *PostController) Index(ctx *gin.Context) {
	c := ctx.Request.Context()
	posts, ok := p.feed.Get(c)
	if !ok {
		var err error
		posts, err = p.repos.Posts.ListAll(c)
		if err != nil {
			utils.Fail(ctx, 50010, "failed to list posts", err)
			return
		}
		p.feed.Set(c, posts)
	}

	if posts == nil {
		posts = []models.Post{}
	}
	page := utils.NewPage(ctx.Query("page"), int64(len(posts)), config.Get().PageSize)
	start, end := page.Bounds()
	utils.Success(ctx, gin.H{
		"items":      posts[start:end],
		"pagination": page,
	})
}

// GroupPosts lists one group's posts.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	group, err := p.repos.Groups.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		notFoundOr(ctx, err, 40402, "group")
		return
	}
	posts, page, err := p.paged(ctx, repository.PostFilter{GroupID: group.ID})
	if err != nil {
		utils.Fail(ctx, 50011, "failed to list group posts", err)
		return
	}
	utils.Success(ctx, gin.H{
		"group":      group,
		"items":      posts,
		"pagination": page,
	})
}

// Profile lists an author's posts with their follow counters.
func (p *PostController) Profile(ctx *gin.Context) {
	c := ctx.Request.Context()
	author, err := p.repos.Users.GetByUsername(c, ctx.Param("username"))
	if err != nil {
		notFoundOr(ctx, err, 40401, "user")
		return
	}
	posts, page, err := p.paged(ctx, repository.PostFilter{AuthorID: author.ID})
	if err != nil {
		utils.Fail(ctx, 50012, "failed to list user posts", err)
		return
	}

	following := false
	if uid, ok := getUserID(ctx); ok && uid != author.ID {
		if following, err = p.repos.Follows.IsFollowing(c, uid, author.ID); err != nil {
			utils.Fail(ctx, 50013, "failed to load follow state", err)
			return
		}
	}
	followers, followingCount, err := p.followCounts(c, author.ID)
	if err != nil {
		utils.Fail(ctx, 50014, "failed to count followers", err)
		return
	}

	utils.Success(ctx, gin.H{
		"author":          author,
		"items":           posts,
		"pagination":      page,
		"post_count":      page.Total,
		"following":       following,
		"followers_count": followers,
		"following_count": followingCount,
	})
}

// PostView shows one post with its comments. The post must belong to :username.
func (p *PostController) PostView(ctx *gin.Context) {
	c := ctx.Request.Context()
	id, ok := parseID(ctx.Param("post_id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}
	post, err := p.repos.Posts.GetByAuthorAndID(c, ctx.Param("username"), id)
	if err != nil {
		notFoundOr(ctx, err, 40403, "post")
		return
	}

	postCount, err := p.repos.Posts.Count(c, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		utils.Fail(ctx, 50015, "failed to count posts", err)
		return
	}
	comments, err := p.repos.Comments.ListByPost(c, post.ID)
	if err != nil {
		utils.Fail(ctx, 50016, "failed to list comments", err)
		return
	}
	followers, followingCount, err := p.followCounts(c, post.AuthorID)
	if err != nil {
		utils.Fail(ctx, 50014, "failed to count followers", err)
		return
	}

	utils.Success(ctx, gin.H{
		"post":            post,
		"author":          post.Author,
		"post_count":      postCount,
		"comments":        comments,
		"form":            &forms.CommentForm{},
		"followers_count": followers,
		"following_count": followingCount,
	})
}

// NewPost renders the empty post form on GET and publishes a post on POST.
func (p *PostController) NewPost(ctx *gin.Context) {
	c := ctx.Request.Context()
	uid, _ := getUserID(ctx)
	groups, err := p.repos.Groups.List(c)
	if err != nil {
		utils.Fail(ctx, 50017, "failed to list groups", err)
		return
	}
	if ctx.Request.Method == http.MethodGet {
		utils.Success(ctx, gin.H{"form": &forms.PostForm{}, "groups": groups, "is_edit": false})
		return
	}

	var form forms.PostForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	valid, err := form.Validate(c, p.repos.Groups, p.maxImageBytes())
	if err != nil {
		utils.Fail(ctx, 50018, "failed to validate post", err)
		return
	}
	if !valid {
		utils.Invalid(ctx, 40021, gin.H{"form": &form, "groups": groups, "is_edit": false})
		return
	}

	post := models.Post{AuthorID: uid}
	form.Apply(&post)
	if form.Image != nil {
		if post.Image, err = p.media.SavePostImage(form.Image); err != nil {
			utils.Fail(ctx, 50019, "failed to store image", err)
			return
		}
	}
	if err := p.repos.Posts.Create(c, &post); err != nil {
		utils.Fail(ctx, 50020, "failed to create post", err)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// PostEdit lets the author change text, group and image. Anyone else is sent back to the post.
func (p *PostController) PostEdit(ctx *gin.Context) {
	c := ctx.Request.Context()
	post, ok := p.ownPost(ctx)
	if !ok {
		return
	}
	groups, err := p.repos.Groups.List(c)
	if err != nil {
		utils.Fail(ctx, 50017, "failed to list groups", err)
		return
	}
	if ctx.Request.Method == http.MethodGet {
		utils.Success(ctx, gin.H{"form": forms.PostFormFrom(post), "groups": groups, "post": post, "is_edit": true})
		return
	}

	var form forms.PostForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}
	valid, err := form.Validate(c, p.repos.Groups, p.maxImageBytes())
	if err != nil {
		utils.Fail(ctx, 50018, "failed to validate post", err)
		return
	}
	if !valid {
		utils.Invalid(ctx, 40023, gin.H{"form": &form, "groups": groups, "post": post, "is_edit": true})
		return
	}

	form.Apply(post)
	switch {
	case form.Image != nil:
		if post.Image, err = p.media.SavePostImage(form.Image); err != nil {
			utils.Fail(ctx, 50019, "failed to store image", err)
			return
		}
	case form.ClearImage:
		post.Image = ""
	}
	if err := p.repos.Posts.Update(c, post); err != nil {
		utils.Fail(ctx, 50021, "failed to update post", err)
		return
	}
	ctx.Redirect(http.StatusFound, editURL(post.Author.Username, post.ID))
}

// PostDelete removes a post and its comments. Allowed for the author and administrators.
func (p *PostController) PostDelete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("post_id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}
	c := ctx.Request.Context()
	post, err := p.repos.Posts.GetByAuthorAndID(c, ctx.Param("username"), id)
	if err != nil {
		notFoundOr(ctx, err, 40403, "post")
		return
	}
	uid, _ := getUserID(ctx)
	if post.AuthorID != uid && !isAdmin(ctx) {
		ctx.Redirect(http.StatusFound, postURL(post.Author.Username, post.ID))
		return
	}
	if err := p.repos.Posts.Delete(c, post.ID); err != nil {
		utils.Fail(ctx, 50022, "failed to delete post", err)
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(post.Author.Username))
}

// FollowIndex is the caller's personal feed of followed authors.
func (p *PostController) FollowIndex(ctx *gin.Context) {
	uid, _ := getUserID(ctx)
	posts, page, err := p.paged(ctx, repository.PostFilter{FollowedBy: uid})
	if err != nil {
		utils.Fail(ctx, 50023, "failed to list followed posts", err)
		return
	}
	utils.Success(ctx, gin.H{
		"username":   middleware.Username(ctx),
		"items":      posts,
		"pagination": page,
	})
}

// ownPost loads :username/:post_id and checks the caller wrote it, writing the 404 or redirect itself.
func (p *PostController) ownPost(ctx *gin.Context) (*models.Post, bool) {
	id, ok := parseID(ctx.Param("post_id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return nil, false
	}
	post, err := p.repos.Posts.GetByAuthorAndID(ctx.Request.Context(), ctx.Param("username"), id)
	if err != nil {
		notFoundOr(ctx, err, 40403, "post")
		return nil, false
	}
	if uid, _ := getUserID(ctx); post.AuthorID != uid {
		ctx.Redirect(http.StatusFound, postURL(post.Author.Username, post.ID))
		return nil, false
	}
	return post, true
}

func (p *PostController) paged(ctx *gin.Context, filter repository.PostFilter) ([]models.Post, utils.Page, error) {
	c := ctx.Request.Context()
	total, err := p.repos.Posts.Count(c, filter)
	if err != nil {
		return nil, utils.Page{}, err
	}
	page := utils.NewPage(ctx.Query("page"), total, config.Get().PageSize)
	posts, err := p.repos.Posts.List(c, filter, page.PerPage, page.Offset())
	if err != nil {
		return nil, utils.Page{}, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, page, nil
}

func (p *PostController) followCounts(c context.Context, userID uint) (followers, following int64, err error) {
	if followers, err = p.repos.Follows.CountFollowers(c, userID); err != nil {
		return 0, 0, err
	}
	if following, err = p.repos.Follows.CountFollowing(c, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (p *PostController) maxImageBytes() int64 {
	return int64(config.Get().MaxUploadMB) << 20
}
