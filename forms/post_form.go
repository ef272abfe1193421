package forms

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

var imageTypes = []string{"image/gif", "image/png", "image/jpeg", "image/webp", "image/bmp"}

// GroupFinder resolves the optional group choice of a post.
type GroupFinder interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
}

// PostForm edits a post's text, group and image. Author and pub_date are never form fields.
type PostForm struct {
	Text       string                `form:"text" json:"text" validate:"required"`
	Group      string                `form:"group" json:"group"`
	Image      *multipart.FileHeader `form:"image" json:"-"`
	ClearImage bool                  `form:"image-clear" json:"-"`
	Errors     Errors                `form:"-" json:"errors,omitempty"`

	group *models.Group
}

// PostFormFrom prefills a form with the current values of post.
func PostFormFrom(post *models.Post) *PostForm {
	f := &PostForm{Text: post.Text}
	if post.GroupID != nil {
		f.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return f
}

// Validate cleans the input and fills Errors. The returned error is reserved for lookup failures.
func (f *PostForm) Validate(ctx context.Context, groups GroupFinder, maxImageBytes int64) (bool, error) {
	f.Errors = Errors{}
	f.group = nil
	f.Text = utils.CleanText(f.Text)
	f.Group = strings.TrimSpace(f.Group)

	if err := validate.Struct(f); err != nil {
		f.Errors.collect(err)
	}
	f.Errors.requireVisible("text", f.Text)

	if f.Group != "" {
		id, err := strconv.ParseUint(f.Group, 10, 32)
		if err != nil || id == 0 {
			f.Errors.Add("group", msgInvalidChoice)
		} else {
			g, err := groups.GetByID(ctx, uint(id))
			switch {
			case errors.Is(err, repository.ErrNotFound):
				f.Errors.Add("group", msgInvalidChoice)
			case err != nil:
				return false, fmt.Errorf("lookup group: %w", err)
			default:
				f.group = g
			}
		}
	}

	if f.Image != nil {
		if msg := checkImage(f.Image, maxImageBytes); msg != "" {
			f.Errors.Add("image", msg)
		}
	}
	return len(f.Errors) == 0, nil
}

// Apply copies the cleaned text and group onto post. Call only after a successful Validate.
func (f *PostForm) Apply(post *models.Post) {
	post.Text = f.Text
	post.Group = f.group
	post.GroupID = nil
	if f.group != nil {
		post.GroupID = &f.group.ID
	}
}

func checkImage(fh *multipart.FileHeader, maxBytes int64) string {
	if maxBytes > 0 && fh.Size > maxBytes {
		return fmt.Sprintf("Ensure the image is at most %d MB.", maxBytes>>20)
	}
	src, err := fh.Open()
	if err != nil {
		return msgInvalidImage
	}
	defer src.Close()
	mt, err := mimetype.DetectReader(src)
	if err != nil || !lo.ContainsBy(imageTypes, mt.Is) {
		return msgInvalidImage
	}
	return ""
}
