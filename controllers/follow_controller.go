package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// FollowController subscribes and unsubscribes the caller to authors.
type FollowController struct {
	repos *repository.Repositories
}

func NewFollowController(repos *repository.Repositories) *FollowController {
	return &FollowController{repos: repos}
}

// ProfileFollow follows :username. Repeating it is harmless; following yourself does nothing
// and lands on your own profile.
func (f *FollowController) ProfileFollow(ctx *gin.Context) {
	f.toggle(ctx, true)
}

// ProfileUnfollow mirrors ProfileFollow.
func (f *FollowController) ProfileUnfollow(ctx *gin.Context) {
	f.toggle(ctx, false)
}

func (f *FollowController) toggle(ctx *gin.Context, follow bool) {
	c := ctx.Request.Context()
	author, err := f.repos.Users.GetByUsername(c, ctx.Param("username"))
	if err != nil {
		notFoundOr(ctx, err, 40401, "user")
		return
	}
	uid, _ := getUserID(ctx)
	if uid == author.ID {
		ctx.Redirect(http.StatusFound, profileURL(author.Username))
		return
	}

	if follow {
		err = f.repos.Follows.Follow(c, uid, author.ID)
	} else {
		err = f.repos.Follows.Unfollow(c, uid, author.ID)
	}
	if err != nil {
		utils.Fail(ctx, 50030, "failed to update subscription", err)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}
