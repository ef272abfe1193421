package forms

import "github.com/cppla/yatube/utils"

// CommentForm carries the text of a new comment. Author and post come from the request.
type CommentForm struct {
	Text   string `form:"text" json:"text" validate:"required"`
	Errors Errors `form:"-" json:"errors,omitempty"`
}

func (f *CommentForm) Validate() bool {
	f.Errors = Errors{}
	f.Text = utils.CleanText(f.Text)
	if err := validate.Struct(f); err != nil {
		f.Errors.collect(err)
	}
	f.Errors.requireVisible("text", f.Text)
	return len(f.Errors) == 0
}
