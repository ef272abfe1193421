package utils

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/testutil"
)

var tinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x21, 0xf9, 0x04,
	0x01, 0x0a, 0x00, 0x01, 0x00, 0x2c, 0x00, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x4c, 0x01, 0x00, 0x3b,
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestSavePostImage(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	store := &MediaStore{Root: t.TempDir(), URL: "/media/", MaxBytes: 1 << 20, DB: db}

	url, err := store.SavePostImage(fileHeader(t, "small.gif", tinyGIF))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/posts/"+time.Now().Format("2006")+"/"))
	assert.True(t, strings.HasSuffix(url, ".gif"))

	rel := strings.TrimPrefix(url, "/media/")
	data, err := os.ReadFile(filepath.Join(store.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, tinyGIF, data)

	var rec models.MediaFile
	require.NoError(t, db.Where("url = ?", url).First(&rec).Error)
}

func TestSavePostImageTooLarge(t *testing.T) {
	store := &MediaStore{Root: t.TempDir(), URL: "/media/", MaxBytes: 16}
	_, err := store.SavePostImage(fileHeader(t, "big.gif", tinyGIF))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSweepOrphanMedia(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	store := &MediaStore{Root: t.TempDir(), URL: "/media/", MaxBytes: 1 << 20, DB: db}

	usedURL, err := store.SavePostImage(fileHeader(t, "used.gif", tinyGIF))
	require.NoError(t, err)
	orphanURL, err := store.SavePostImage(fileHeader(t, "orphan.gif", tinyGIF))
	require.NoError(t, err)

	author := &models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Omit("Author", "Group").Create(&models.Post{Text: "pic", AuthorID: author.ID, Image: usedURL}).Error)

	ctx := context.Background()
	n, err := SweepOrphanMedia(ctx, db, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n, "fresh uploads are inside the grace period")

	n, err = SweepOrphanMedia(ctx, db, -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var left []models.MediaFile
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, usedURL, left[0].URL)

	orphanPath := filepath.Join(store.Root, filepath.FromSlash(strings.TrimPrefix(orphanURL, "/media/")))
	_, err = os.Stat(orphanPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCollectTableRows(t *testing.T) {
	testutil.UseConfig(t)
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.Group{Title: "Cats", Slug: "cats", Description: "meow"}).Error)

	CollectTableRows(context.Background(), db)
	assert.Equal(t, float64(1), promtest.ToFloat64(tableRows.WithLabelValues("groups")))
	assert.Equal(t, float64(0), promtest.ToFloat64(tableRows.WithLabelValues("posts")))
}
