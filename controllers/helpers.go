package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	return middleware.UserID(ctx)
}

func isAdmin(ctx *gin.Context) bool {
	return isAdminName(middleware.Username(ctx))
}

func isAdminName(username string) bool {
	return config.Get().IsAdmin(username)
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// notFoundOr writes 404 for repository.ErrNotFound and 500 for anything else.
func notFoundOr(ctx *gin.Context, err error, code int, what string) {
	if errors.Is(err, repository.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, code, what+" not found")
		return
	}
	utils.Fail(ctx, 50000+code%100, "failed to load "+what, err)
}

func profileURL(username string) string {
	return "/" + username + "/"
}

func postURL(username string, postID uint) string {
	return fmt.Sprintf("/%s/%d/", username, postID)
}

func editURL(username string, postID uint) string {
	return fmt.Sprintf("/%s/%d/edit/", username, postID)
}
