package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

// ErrFileTooLarge is returned when an upload exceeds MediaStore.MaxBytes.
var ErrFileTooLarge = errors.New("file too large")

// MediaStore saves uploads under Root and exposes them under URL.
type MediaStore struct {
	Root     string
	URL      string
	MaxBytes int64
	// DB, when set, records every stored file for the orphan sweeper.
	DB *gorm.DB
}

// SavePostImage writes fh to <Root>/posts/YYYY/MM/DD/<uuid><ext> and returns its public URL.
func (m *MediaStore) SavePostImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	now := time.Now()
	rel := path.Join("posts", now.Format("2006"), now.Format("01"), now.Format("02"), uuid.NewString()+mt.Extension())
	dst := filepath.Join(m.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer out.Close()

	limit := m.MaxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	written, err := io.Copy(out, &io.LimitedReader{R: src, N: limit + 1})
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write media file: %w", err)
	}
	if written > limit {
		_ = os.Remove(dst)
		return "", ErrFileTooLarge
	}

	url := m.URL + rel
	if m.DB != nil {
		if err := m.DB.Create(&models.MediaFile{FilePath: dst, URL: url}).Error; err != nil {
			Sugar.Warnf("record media file %s: %v", url, err)
		}
	}
	return url, nil
}
