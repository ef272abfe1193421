package forms

import (
	"strings"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// GroupForm is the administrator's group editor.
type GroupForm struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Slug        string `form:"slug" json:"slug" validate:"required,max=50,slug"`
	Description string `form:"description" json:"description" validate:"required"`
	Errors      Errors `form:"-" json:"errors,omitempty"`
}

func (f *GroupForm) Validate() bool {
	f.Errors = Errors{}
	f.Title = utils.CleanText(f.Title)
	f.Slug = strings.TrimSpace(f.Slug)
	f.Description = utils.CleanText(f.Description)
	if err := validate.Struct(f); err != nil {
		f.Errors.collect(err)
	}
	f.Errors.requireVisible("title", f.Title)
	f.Errors.requireVisible("description", f.Description)
	return len(f.Errors) == 0
}

// Group builds the model from a validated form.
func (f *GroupForm) Group() *models.Group {
	return &models.Group{Title: f.Title, Slug: f.Slug, Description: f.Description}
}
