package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/forms"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// AdminController holds the administrator-only maintenance endpoints.
type AdminController struct {
	repos *repository.Repositories
	feed  utils.FeedCache
}

func NewAdminController(repos *repository.Repositories, feed utils.FeedCache) *AdminController {
	return &AdminController{repos: repos, feed: feed}
}

// ListGroups returns every group.
func (a *AdminController) ListGroups(ctx *gin.Context) {
	groups, err := a.repos.Groups.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, 50040, "failed to list groups", err)
		return
	}
	utils.Success(ctx, gin.H{"items": groups})
}

// CreateGroup adds a group with a unique slug.
func (a *AdminController) CreateGroup(ctx *gin.Context) {
	var form forms.GroupForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if !form.Validate() {
		utils.Invalid(ctx, 40041, gin.H{"form": &form})
		return
	}

	c := ctx.Request.Context()
	_, err := a.repos.Groups.GetBySlug(c, form.Slug)
	switch {
	case err == nil:
		form.Errors.Add("slug", "Group with this slug already exists.")
		utils.Invalid(ctx, 40041, gin.H{"form": &form})
		return
	case !errors.Is(err, repository.ErrNotFound):
		utils.Fail(ctx, 50041, "failed to check slug", err)
		return
	}

	group := form.Group()
	if err := a.repos.Groups.Create(c, group); err != nil {
		utils.Fail(ctx, 50042, "failed to create group", err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"group": group})
}

// DeleteGroup removes a group; its posts stay and lose their group.
func (a *AdminController) DeleteGroup(ctx *gin.Context) {
	c := ctx.Request.Context()
	group, err := a.repos.Groups.GetBySlug(c, ctx.Param("slug"))
	if err != nil {
		notFoundOr(ctx, err, 40402, "group")
		return
	}
	if err := a.repos.Groups.Delete(c, group.ID); err != nil {
		notFoundOr(ctx, err, 40402, "group")
		return
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}

// ClearFeedCache drops the cached home feed so the next request reloads it.
func (a *AdminController) ClearFeedCache(ctx *gin.Context) {
	a.feed.Clear(ctx.Request.Context())
	utils.Success(ctx, gin.H{"message": "feed cache cleared"})
}
