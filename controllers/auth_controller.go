package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/forms"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// AuthController handles signup, login and logout with JWT sessions.
type AuthController struct {
	repos *repository.Repositories
}

// NewAuthController creates an AuthController.
func NewAuthController(repos *repository.Repositories) *AuthController {
	return &AuthController{repos: repos}
}

// Signup registers a local account and signs it in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var form forms.SignupForm
	if err := ctx.ShouldBind(&form); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	if !form.Validate() {
		utils.Invalid(ctx, 40002, gin.H{"form": &form})
		return
	}

	c := ctx.Request.Context()
	if _, err := a.repos.Users.GetByUsername(c, form.Username); err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		utils.Fail(ctx, 50001, "failed to check username", err)
		return
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		utils.Fail(ctx, 50002, "failed to hash password", err)
		return
	}
	user := models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
	}
	if err := a.repos.Users.Create(c, &user); err != nil {
		utils.Fail(ctx, 50003, "failed to create user", err)
		return
	}
	a.issue(ctx, &user, "")
}

// Login verifies credentials. GET only echoes the pending redirect target.
func (a *AuthController) Login(ctx *gin.Context) {
	if ctx.Request.Method == http.MethodGet {
		utils.Success(ctx, gin.H{"next": safeNext(ctx.Query("next"))})
		return
	}

	var req struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
		Next     string `form:"next" json:"next"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	user, err := a.repos.Users.GetByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		utils.Fail(ctx, 50004, "failed to load user", err)
		return
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	next := req.Next
	if next == "" {
		next = ctx.Query("next")
	}
	a.issue(ctx, user, safeNext(next))
}

// Logout revokes the current token until it would have expired anyway.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}
	utils.BlacklistToken(ctx.Request.Context(), token, utils.TokenExpiry(claims))
	ctx.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	uid, _ := getUserID(ctx)
	user, err := a.repos.Users.GetByID(ctx.Request.Context(), uid)
	if err != nil {
		notFoundOr(ctx, err, 40401, "user")
		return
	}
	utils.Success(ctx, userResponse(user))
}

// issue signs a token, stores it in the session cookie and either redirects to next or returns it.
func (a *AuthController) issue(ctx *gin.Context, user *models.User, next string) {
	token, err := utils.GenerateToken(user.ID, user.Username, utils.TokenTTL)
	if err != nil {
		utils.Fail(ctx, 50005, "failed to generate token", err)
		return
	}
	ctx.SetCookie(middleware.TokenCookie, token, int(utils.TokenTTL.Seconds()), "/", "", false, true)
	if next != "" {
		ctx.Redirect(http.StatusFound, next)
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": userResponse(user)})
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"full_name":  user.FullName(),
		"created_at": user.CreatedAt,
		"is_admin":   isAdminName(user.Username),
	}
}

// safeNext only allows same-site absolute paths, so login cannot be used as an open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
