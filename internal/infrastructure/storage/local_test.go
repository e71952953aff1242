package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oltenita/imobilia-market/internal/core/ports"
)

func upload(name, contentType, body string) ports.ImageUpload {
	return ports.ImageUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestLocalStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), upload("Casa.JPG", "image/jpeg", "pixels"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"), url)
	require.True(t, strings.HasSuffix(url, ".jpg"), url)

	path := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "pixels", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestLocalStore_NamesAreUnique(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	a, err := store.Save(context.Background(), upload("same.png", "image/png", "a"))
	require.NoError(t, err)
	b, err := store.Save(context.Background(), upload("same.png", "image/png", "b"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestLocalStore_DeleteMissingIsNotAnError(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "/uploads/does-not-exist.jpg"))
}

func TestLocalStore_DeleteIgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	for _, url := range []string{
		"https://cdn.example/a.jpg",
		"/uploads/../keep.txt",
		"/uploads/",
		"/elsewhere/keep.txt",
	} {
		require.NoError(t, store.Delete(context.Background(), url), url)
	}
	_, err = os.Stat(outside)
	require.NoError(t, err)
}

func TestExtension(t *testing.T) {
	cases := []struct {
		name, contentType, want string
	}{
		{"photo.png", "image/png", ".png"},
		{"PHOTO.WEBP", "image/webp", ".webp"},
		{"weird.ph p", "image/png", ".png"},
		{"noext", "image/png", ".png"},
		{"noext", "image/jpeg", ".jpg"},
		{"noext", "", ""},
		{"payload.exe", "image/png", ".png"},
		{"page.html", "", ""},
		{"shell.php", "text/x-php", ""},
	}
	for _, tc := range cases {
		got := extension(ports.ImageUpload{Filename: tc.name, ContentType: tc.contentType})
		require.Equal(t, tc.want, got, tc.name)
	}
}
