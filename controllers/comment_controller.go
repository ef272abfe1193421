package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/forms"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// CommentController adds comments to posts.
type CommentController struct {
	repos *repository.Repositories
}

func NewCommentController(repos *repository.Repositories) *CommentController {
	return &CommentController{repos: repos}
}

// AddComment attaches a comment to the post identified by :post_id alone; :username is
// only echoed back. Success redirects to the post under its real author.
func (cc *CommentController) AddComment(ctx *gin.Context) {
	c := ctx.Request.Context()
	id, ok := parseID(ctx.Param("post_id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}
	post, err := cc.repos.Posts.GetByID(c, id)
	if err != nil {
		notFoundOr(ctx, err, 40403, "post")
		return
	}

	username := ctx.Param("username")
	if ctx.Request.Method == http.MethodGet {
		utils.Success(ctx, gin.H{"form": &forms.CommentForm{}, "username": username})
		return
	}

	var form forms.CommentForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}
	if !form.Validate() {
		utils.Invalid(ctx, 40025, gin.H{"form": &form, "username": username})
		return
	}

	uid, _ := getUserID(ctx)
	comment := models.Comment{Text: form.Text, AuthorID: uid, PostID: post.ID}
	if err := cc.repos.Comments.Create(c, &comment); err != nil {
		utils.Fail(ctx, 50024, "failed to create comment", err)
		return
	}
	ctx.Redirect(http.StatusFound, postURL(post.Author.Username, post.ID))
}
