package forms

import (
	"strings"

	"github.com/cppla/yatube/utils"
)

// reservedUsernames collide with top-level routes and can never be profile names.
var reservedUsernames = map[string]bool{
	"admin": true, "api": true, "auth": true, "follow": true, "group": true,
	"health": true, "media": true, "metrics": true, "new": true,
}

// SignupForm registers a local account. Usernames share the slug alphabet so they
// are always safe as a path segment.
type SignupForm struct {
	Username  string `form:"username" json:"username" validate:"required,min=2,max=30,slug"`
	Email     string `form:"email" json:"email" validate:"omitempty,email"`
	Password  string `form:"password" json:"password,omitempty" validate:"required,min=6,max=64"`
	Confirm   string `form:"confirm" json:"confirm,omitempty" validate:"omitempty,eqfield=Password"`
	FirstName string `form:"first_name" json:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" json:"last_name" validate:"max=150"`
	Errors    Errors `form:"-" json:"errors,omitempty"`
}

// Validate cleans the input and fills Errors. Passwords are cleared from a rejected
// form so they are never echoed back.
func (f *SignupForm) Validate() bool {
	f.Errors = Errors{}
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = utils.CleanText(f.FirstName)
	f.LastName = utils.CleanText(f.LastName)

	if err := validate.Struct(f); err != nil {
		f.Errors.collect(err)
	}
	if reservedUsernames[strings.ToLower(f.Username)] {
		f.Errors.Add("username", msgReservedUsername)
	}
	if len(f.Errors) > 0 {
		f.Password, f.Confirm = "", ""
		return false
	}
	return true
}
